package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/domain/preferences"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/ports"
)

// PreferencesService handles a visitor's display preferences
type PreferencesService struct {
	kv      ports.KeyValueStore
	timeout time.Duration
	locks   *visitorLocks
	logger  *logger.Logger
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(kv ports.KeyValueStore, timeout time.Duration, log *logger.Logger) (*PreferencesService, error) {
	if kv == nil {
		return nil, errors.New("preferences service requires a key-value store")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PreferencesService{kv: kv, timeout: timeout, locks: newVisitorLocks(), logger: log}, nil
}

func (s *PreferencesService) open(ctx context.Context, visitorID string) (*preferences.Store, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, entities.ErrInvalidVisitor
	}
	storage := newVisitorStorage(ctx, s.kv, visitorID, s.timeout)
	return preferences.New(storage, s.logger.WithVisitorID(visitorID)), nil
}

// Get returns stored preferences merged over the defaults
func (s *PreferencesService) Get(ctx context.Context, visitorID string) (entities.Preferences, error) {
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return preferences.Defaults(), err
	}
	return store.Get(), nil
}

// Update merges a partial update and persists the result
func (s *PreferencesService) Update(ctx context.Context, visitorID string, patch entities.PreferencesPatch) (entities.Preferences, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return preferences.Defaults(), err
	}
	updated := store.Update(patch)
	s.logger.LogVisitorAction(visitorID, "preferences_update", nil)
	return updated, nil
}

// Reset restores the default preferences
func (s *PreferencesService) Reset(ctx context.Context, visitorID string) (entities.Preferences, error) {
	defer s.locks.Lock(visitorID)()
	store, err := s.open(ctx, visitorID)
	if err != nil {
		return preferences.Defaults(), err
	}
	reset := store.Reset()
	s.logger.LogVisitorAction(visitorID, "preferences_reset", nil)
	return reset, nil
}
