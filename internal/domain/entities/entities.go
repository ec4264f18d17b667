package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrKeyNotFound      = errors.New("key not found")
	ErrInvalidCatalog   = errors.New("invalid catalog")
	ErrInvalidVisitor   = errors.New("invalid visitor")
)

// Enums and types
type SortBy string

const (
	SortByPopularity SortBy = "popularity"
	SortByName       SortBy = "name"
	SortByDateAdded  SortBy = "dateAdded"
)

// Valid reports whether s is a known sort key.
func (s SortBy) Valid() bool {
	switch s {
	case SortByPopularity, SortByName, SortByDateAdded:
		return true
	}
	return false
}

// ParseSortBy maps loose user input to a sort key. Unknown input returns false.
func ParseSortBy(raw string) (SortBy, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "popularity", "popular":
		return SortByPopularity, true
	case "name", "title":
		return SortByName, true
	case "dateadded", "date_added", "date", "newest":
		return SortByDateAdded, true
	}
	return "", false
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder maps loose user input to a sort order. Unknown input returns false.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc", "ascending":
		return SortOrderAsc, true
	case "desc", "descending":
		return SortOrderDesc, true
	}
	return "", false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// PopularityMin and PopularityMax bound Game.Popularity.
const (
	PopularityMin = 0
	PopularityMax = 100
)

// GameMetadata holds optional descriptive details for a game
type GameMetadata struct {
	Developer    string `json:"developer,omitempty" yaml:"developer"`
	Controls     string `json:"controls,omitempty" yaml:"controls"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions"`
}

// IsZero reports whether no metadata field is set.
func (m GameMetadata) IsZero() bool {
	return m.Developer == "" && m.Controls == "" && m.Instructions == ""
}

// Game represents an embeddable web game in the catalog.
// Games are immutable once loaded; callers must not modify a Game returned by a repository.
type Game struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Slug        string       `json:"slug" yaml:"slug"`
	Description string       `json:"description" yaml:"description"`
	ImageURL    string       `json:"image" yaml:"image" validate:"omitempty,url"`
	PlayURL     string       `json:"url" yaml:"url" validate:"required,url"`
	CategoryID  string       `json:"category" yaml:"category" validate:"required"`
	Tags        []string     `json:"tags" yaml:"tags"`
	Featured    bool         `json:"featured" yaml:"featured"`
	Popularity  float64      `json:"popularity" yaml:"popularity" validate:"gte=0,lte=100"`
	DateAdded   time.Time    `json:"dateAdded" yaml:"dateAdded"`
	Metadata    GameMetadata `json:"metadata,omitempty" yaml:"metadata"`
}

// HasTag reports whether the game carries tag, ignoring case.
func (g *Game) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Category represents a browsable group of games
type Category struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
}

// Filter describes which games to include and how to order them.
// A zero Filter matches every game and sorts by popularity, most popular first.
type Filter struct {
	Search        string    `json:"search,omitempty"`
	CategoryID    string    `json:"category,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	MinPopularity *float64  `json:"minPopularity,omitempty"`
	MaxPopularity *float64  `json:"maxPopularity,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
	SortBy        SortBy    `json:"sortBy,omitempty"`
	SortOrder     SortOrder `json:"sortOrder,omitempty"`
}

// IsEmpty reports whether the filter carries no predicate.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		f.CategoryID == "" &&
		len(f.Tags) == 0 &&
		f.MinPopularity == nil &&
		f.MaxPopularity == nil &&
		f.Featured == nil
}

// Preferences holds per-visitor display configuration
type Preferences struct {
	GridColumns      int    `json:"gridColumns"`
	ShowDescriptions bool   `json:"showDescriptions"`
	ShowCategories   bool   `json:"showCategories"`
	DefaultSort      SortBy `json:"defaultSort"`
	Theme            Theme  `json:"theme"`
}

// PreferencesPatch is a partial update to Preferences; nil fields are left untouched.
type PreferencesPatch struct {
	GridColumns      *int    `json:"gridColumns,omitempty" validate:"omitempty,min=1,max=6"`
	ShowDescriptions *bool   `json:"showDescriptions,omitempty"`
	ShowCategories   *bool   `json:"showCategories,omitempty"`
	DefaultSort      *SortBy `json:"defaultSort,omitempty" validate:"omitempty,oneof=popularity name dateAdded"`
	Theme            *Theme  `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
}

// Interactions is the persisted shape of a visitor's history
type Interactions struct {
	Favorites      []string `json:"favorites"`
	RecentlyPlayed []string `json:"recentlyPlayed"`
	RecentSearches []string `json:"recentSearches"`
}

// Catalog is a complete snapshot of the data store
type Catalog struct {
	Categories []*Category `json:"categories" yaml:"categories" validate:"dive"`
	Games      []*Game     `json:"games" yaml:"games" validate:"dive"`
}
