package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/config"
	"github.com/gamehub/portal/internal/infrastructure/database"
	"github.com/gamehub/portal/internal/ports"
)

func exerciseStore(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "v1", "gamehub:user-interactions"); !errors.Is(err, entities.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := store.Set(ctx, "v1", "gamehub:user-interactions", []byte(`{"favorites":["a"]}`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(ctx, "v1", "gamehub:user-interactions", []byte(`{"favorites":["b"]}`)); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	got, err := store.Get(ctx, "v1", "gamehub:user-interactions")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != `{"favorites":["b"]}` {
		t.Errorf("unexpected value %s", got)
	}

	if _, err := store.Get(ctx, "v2", "gamehub:user-interactions"); !errors.Is(err, entities.ErrKeyNotFound) {
		t.Errorf("visitors must not share storage, got %v", err)
	}

	if err := store.Delete(ctx, "v1", "gamehub:user-interactions"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(ctx, "v1", "gamehub:user-interactions"); !errors.Is(err, entities.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "v1", "gamehub:user-interactions"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	buf := []byte("abc")
	_ = store.Set(ctx, "v", "k", buf)
	buf[0] = 'x'

	got, _ := store.Get(ctx, "v", "k")
	if string(got) != "abc" {
		t.Errorf("expected stored copy, got %s", got)
	}
}

func TestSQLiteStorage(t *testing.T) {
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "gamehub.db"))
	if err != nil {
		t.Fatalf("NewSQLite() failed: %v", err)
	}
	store := NewSQLStorage(db)
	defer store.Close()
	exerciseStore(t, store)

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
	if stats := store.Stats(); stats["driver"] != "sqlite" || stats["max_open_connections"] != 1 {
		t.Errorf("unexpected pool stats %v", stats)
	}
}

func TestSQLiteStoragePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gamehub.db")
	ctx := context.Background()

	db, err := database.NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	store := NewSQLStorage(db)
	if err := store.Set(ctx, "v1", "k", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	db, err = database.NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	store = NewSQLStorage(db)
	defer store.Close()

	got, err := store.Get(ctx, "v1", "k")
	if err != nil || string(got) != "persisted" {
		t.Fatalf("expected persisted value, got %q %v", got, err)
	}
}

func TestNewKeyValueStoreDrivers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageMemory
	store, err := NewKeyValueStore(cfg)
	if err != nil {
		t.Fatalf("memory driver failed: %v", err)
	}
	if _, ok := store.(*MemoryStorage); !ok {
		t.Errorf("expected *MemoryStorage, got %T", store)
	}

	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "kv.db")
	store, err = NewKeyValueStore(cfg)
	if err != nil {
		t.Fatalf("sqlite driver failed: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLStorage); !ok {
		t.Errorf("expected *SQLStorage, got %T", store)
	}

	cfg.Storage.Driver = "cassandra"
	if _, err := NewKeyValueStore(cfg); err == nil {
		t.Error("expected unknown driver to fail")
	}
}

func TestRedisKeyLayout(t *testing.T) {
	r := NewRedisStorage(nil, "gamehub:", 0)
	if got := r.key("abc", "gamehub:user-preferences"); got != "gamehub:visitor:abc:gamehub:user-preferences" {
		t.Errorf("unexpected key %q", got)
	}
	r = NewRedisStorage(nil, "", 0)
	if got := r.key("abc", "k"); got != "visitor:abc:k" {
		t.Errorf("unexpected key %q", got)
	}
}
