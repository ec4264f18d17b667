// Package seo builds page titles, meta descriptions, keyword lists,
// schema.org structured data, sitemaps and robots.txt from catalog data.
// Every function is deterministic and performs no I/O.
package seo

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gamehub/portal/internal/domain/entities"
)

// Length caps, in characters.
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 160
	TruncationMarker     = "..."
)

// ContentType selects the title and description templates.
type ContentType string

const (
	ContentHome     ContentType = "home"
	ContentGame     ContentType = "game"
	ContentCategory ContentType = "category"
	ContentSearch   ContentType = "search"
	ContentNotFound ContentType = "notFound"
)

// Site is the static site identity the generator writes into every page.
type Site struct {
	Name          string
	BaseURL       string
	DefaultImage  string
	TwitterHandle string
	// RatingDivisor converts popularity (0-100) to a 5-star rating. Defaults to 20.
	RatingDivisor float64
}

// Generator produces SEO strings for one site.
type Generator struct {
	site Site
}

// NewGenerator returns a Generator for site.
func NewGenerator(site Site) *Generator {
	if site.Name == "" {
		site.Name = "GameHub"
	}
	if site.RatingDivisor <= 0 {
		site.RatingDivisor = 20
	}
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return &Generator{site: site}
}

// Site returns the generator's site identity.
func (g *Generator) Site() Site {
	return g.site
}

// Subject carries the page data the templates draw from. Unused fields are ignored.
type Subject struct {
	Name        string
	Description string
	Category    string
	Tags        []string
	Query       string
	Count       int
}

// GameSubject builds a Subject for a game page.
func GameSubject(game *entities.Game, category *entities.Category) Subject {
	s := Subject{Name: game.Name, Description: game.Description, Tags: game.Tags}
	if category != nil {
		s.Category = category.Name
	}
	return s
}

// Truncate collapses whitespace and caps s at max characters, ending with
// TruncationMarker when anything was cut.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= len(TruncationMarker) {
		return string([]rune(s)[:max])
	}

	cut := []rune(s)[:max-len(TruncationMarker)]
	trimmed := strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return trimmed + TruncationMarker
}

// Title returns the <title> text for a content type, capped at MaxTitleLength.
func (g *Generator) Title(ct ContentType, s Subject) string {
	var title string
	switch ct {
	case ContentGame:
		title = fmt.Sprintf("%s - Play Free Online | %s", s.Name, g.site.Name)
	case ContentCategory:
		title = fmt.Sprintf("%s Games - Play Free Online | %s", s.Name, g.site.Name)
	case ContentSearch:
		if q := strings.TrimSpace(s.Query); q != "" {
			title = fmt.Sprintf("Search results for \"%s\" | %s", q, g.site.Name)
		} else {
			title = fmt.Sprintf("Search Games | %s", g.site.Name)
		}
	case ContentNotFound:
		title = fmt.Sprintf("Page Not Found | %s", g.site.Name)
	default:
		title = fmt.Sprintf("%s - Play Free Online Games", g.site.Name)
	}
	return Truncate(title, MaxTitleLength)
}

// MetaDescription returns the meta description for a content type, capped at MaxDescriptionLength.
func (g *Generator) MetaDescription(ct ContentType, s Subject) string {
	var desc string
	switch ct {
	case ContentGame:
		desc = fmt.Sprintf("Play %s online for free on %s.", s.Name, g.site.Name)
		if d := strings.TrimSpace(s.Description); d != "" {
			desc += " " + d
		} else if s.Category != "" {
			desc += fmt.Sprintf(" A free %s game that runs in your browser with no download.", strings.ToLower(s.Category))
		} else {
			desc += " Runs in your browser with no download."
		}
	case ContentCategory:
		desc = fmt.Sprintf("Play the best free %s games online on %s.", s.Name, g.site.Name)
		if d := strings.TrimSpace(s.Description); d != "" {
			desc += " " + d
		}
		if s.Count > 0 {
			desc += fmt.Sprintf(" %d games to play instantly.", s.Count)
		}
	case ContentSearch:
		if q := strings.TrimSpace(s.Query); q != "" {
			desc = fmt.Sprintf("%d free online games matching \"%s\" on %s. Play instantly in your browser.", s.Count, q, g.site.Name)
		} else {
			desc = fmt.Sprintf("Search the %s collection of free browser games by name, category or tag.", g.site.Name)
		}
	case ContentNotFound:
		desc = fmt.Sprintf("The page you are looking for does not exist. Browse free online games on %s instead.", g.site.Name)
	default:
		desc = fmt.Sprintf("Play free online games on %s. Hand-picked browser games you can start instantly without downloads or sign-ups.", g.site.Name)
	}
	return Truncate(desc, MaxDescriptionLength)
}

var boilerplateKeywords = []string{"free online games", "browser games", "play online", "no download"}

// Keywords returns a lowercase, deduplicated keyword list for a content type.
// Subject-derived terms come first, followed by fixed site-wide terms.
func (g *Generator) Keywords(ct ContentType, s Subject) []string {
	var terms []string
	switch ct {
	case ContentGame:
		terms = append(terms, s.Name, s.Name+" online", "play "+s.Name)
		if s.Category != "" {
			terms = append(terms, s.Category, s.Category+" games")
		}
		terms = append(terms, s.Tags...)
	case ContentCategory:
		terms = append(terms, s.Name+" games", "free "+s.Name+" games", s.Name)
		terms = append(terms, s.Tags...)
	case ContentSearch:
		if q := strings.TrimSpace(s.Query); q != "" {
			terms = append(terms, q, q+" games")
		}
	}
	terms = append(terms, boilerplateKeywords...)
	terms = append(terms, strings.ToLower(g.site.Name))

	return normalizeKeywords(terms)
}

func normalizeKeywords(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		k := strings.ToLower(strings.Join(strings.Fields(t), " "))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Rating converts a popularity score to a 0-5 rating rounded to one decimal.
func (g *Generator) Rating(popularity float64) float64 {
	r := popularity / g.site.RatingDivisor
	if r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	return float64(int(r*10+0.5)) / 10
}

// URL joins path onto the site base URL.
func (g *Generator) URL(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return g.site.BaseURL + path
}

// ImageURL resolves a possibly relative image reference, falling back to the site default.
func (g *Generator) ImageURL(image string) string {
	if image == "" {
		image = g.site.DefaultImage
	}
	if image == "" || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return g.URL(image)
}
