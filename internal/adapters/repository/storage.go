package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/config"
	"github.com/gamehub/portal/internal/infrastructure/database"
	"github.com/gamehub/portal/internal/ports"
)

// NewKeyValueStore opens the visitor storage backend selected by cfg.Storage.Driver.
func NewKeyValueStore(cfg *config.Config) (ports.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return NewMemoryStorage(), nil
	case config.StorageSQLite:
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLStorage(db), nil
	case config.StoragePostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateUp(db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLStorage(db), nil
	case config.StorageRedis:
		return NewRedisStorageFromURL(cfg.Redis.URL, cfg.Redis.KeyPrefix, cfg.Visitor.TTL)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// MemoryStorage keeps visitor storage in process memory. Contents are lost on restart.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func memoryKey(visitorID, key string) string {
	return visitorID + "\x00" + key
}

func (m *MemoryStorage) Get(ctx context.Context, visitorID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[memoryKey(visitorID, key)]
	if !ok {
		return nil, entities.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(ctx context.Context, visitorID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memoryKey(visitorID, key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, visitorID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memoryKey(visitorID, key))
	return nil
}

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func (m *MemoryStorage) Close() error { return nil }

// SQLStorage stores visitor documents in the visitor_storage table.
// It works against both postgres and sqlite connections.
type SQLStorage struct {
	conn *database.DB
	db   *sqlx.DB
}

var _ ports.StorageStats = (*SQLStorage)(nil)

// NewSQLStorage wraps conn. The storage takes ownership and closes conn on Close.
func NewSQLStorage(conn *database.DB) *SQLStorage {
	return &SQLStorage{conn: conn, db: conn.DB}
}

func (s *SQLStorage) Get(ctx context.Context, visitorID, key string) ([]byte, error) {
	query := s.db.Rebind(`SELECT value FROM visitor_storage WHERE visitor_id = ? AND storage_key = ?`)

	var value []byte
	err := s.db.GetContext(ctx, &value, query, visitorID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get visitor storage: %w", err)
	}
	return value, nil
}

func (s *SQLStorage) Set(ctx context.Context, visitorID, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO visitor_storage (visitor_id, storage_key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (visitor_id, storage_key)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`)

	if _, err := s.db.ExecContext(ctx, query, visitorID, key, value); err != nil {
		return fmt.Errorf("set visitor storage: %w", err)
	}
	return nil
}

func (s *SQLStorage) Delete(ctx context.Context, visitorID, key string) error {
	query := s.db.Rebind(`DELETE FROM visitor_storage WHERE visitor_id = ? AND storage_key = ?`)

	if _, err := s.db.ExecContext(ctx, query, visitorID, key); err != nil {
		return fmt.Errorf("delete visitor storage: %w", err)
	}
	return nil
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	return s.conn.HealthCheck(ctx)
}

// Stats reports the connection pool state.
func (s *SQLStorage) Stats() map[string]interface{} {
	return s.conn.GetConnectionInfo()
}

func (s *SQLStorage) Close() error {
	return s.conn.Close()
}

// RedisStorage stores visitor documents as plain string keys.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage wraps an existing client. A zero ttl keeps keys forever.
func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: strings.TrimSuffix(prefix, ":"), ttl: ttl}
}

// NewRedisStorageFromURL parses a redis:// URL, connects and pings.
func NewRedisStorageFromURL(rawURL, prefix string, ttl time.Duration) (*RedisStorage, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStorage(client, prefix, ttl), nil
}

func (r *RedisStorage) key(visitorID, key string) string {
	if r.prefix == "" {
		return "visitor:" + visitorID + ":" + key
	}
	return r.prefix + ":visitor:" + visitorID + ":" + key
}

func (r *RedisStorage) Get(ctx context.Context, visitorID, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(visitorID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get visitor storage: %w", err)
	}
	return v, nil
}

func (r *RedisStorage) Set(ctx context.Context, visitorID, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(visitorID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("set visitor storage: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, visitorID, key string) error {
	if err := r.client.Del(ctx, r.key(visitorID, key)).Err(); err != nil {
		return fmt.Errorf("delete visitor storage: %w", err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
