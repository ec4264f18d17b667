package ports

import (
	"context"

	"github.com/gamehub/portal/internal/domain/entities"
)

// CatalogRepository defines read access to the game and category data store.
// Implementations return entities.ErrGameNotFound / entities.ErrCategoryNotFound for unknown identifiers.
type CatalogRepository interface {
	Games(ctx context.Context) ([]*entities.Game, error)
	Categories(ctx context.Context) ([]*entities.Category, error)
	GetGame(ctx context.Context, id string) (*entities.Game, error)
	GetGameBySlug(ctx context.Context, slug string) (*entities.Game, error)
	GetCategory(ctx context.Context, id string) (*entities.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*entities.Category, error)
	Tags(ctx context.Context) ([]string, error)
}

// CatalogSource produces a fresh catalog snapshot, e.g. from a file on disk.
type CatalogSource interface {
	Load(ctx context.Context) (*entities.Catalog, error)
}

// KeyValueStore is the server-side stand-in for browser local storage.
// Values are opaque JSON documents scoped by visitor and namespaced key.
// Get returns entities.ErrKeyNotFound when nothing is stored.
type KeyValueStore interface {
	Get(ctx context.Context, visitorID, key string) ([]byte, error)
	Set(ctx context.Context, visitorID, key string, value []byte) error
	Delete(ctx context.Context, visitorID, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// CatalogStore is a CatalogRepository whose contents can be swapped as a whole.
type CatalogStore interface {
	CatalogRepository
	Replace(catalog *entities.Catalog) error
}

// StorageStats is implemented by stores backed by a connection pool.
type StorageStats interface {
	Stats() map[string]interface{}
}
