package seo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gamehub/portal/internal/domain/entities"
)

const schemaContext = "https://schema.org"

// Organization is a schema.org Organization, used for game developers and the publisher.
type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// AggregateRating is a schema.org AggregateRating.
type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	BestRating  int     `json:"bestRating"`
	WorstRating int     `json:"worstRating"`
	RatingCount int     `json:"ratingCount"`
}

// Offer is a schema.org Offer; games are always free.
type Offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
}

// VideoGame is a schema.org VideoGame.
type VideoGame struct {
	Context             string           `json:"@context"`
	Type                string           `json:"@type"`
	Name                string           `json:"name"`
	Description         string           `json:"description,omitempty"`
	URL                 string           `json:"url"`
	Image               string           `json:"image,omitempty"`
	Genre               string           `json:"genre,omitempty"`
	Keywords            string           `json:"keywords,omitempty"`
	GamePlatform        []string         `json:"gamePlatform"`
	ApplicationCategory string           `json:"applicationCategory"`
	OperatingSystem     string           `json:"operatingSystem"`
	DatePublished       string           `json:"datePublished,omitempty"`
	Author              *Organization    `json:"author,omitempty"`
	Publisher           *Organization    `json:"publisher,omitempty"`
	AggregateRating     *AggregateRating `json:"aggregateRating,omitempty"`
	Offers              Offer            `json:"offers"`
}

// ListItem is a schema.org ListItem, shared by ItemList and BreadcrumbList.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ItemList is a schema.org ItemList.
type ItemList struct {
	Type            string     `json:"@type"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// CollectionPage is a schema.org CollectionPage.
type CollectionPage struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	MainEntity  ItemList `json:"mainEntity"`
}

// EntryPoint is the target of a SearchAction.
type EntryPoint struct {
	Type        string `json:"@type"`
	URLTemplate string `json:"urlTemplate"`
}

// SearchAction is a schema.org SearchAction.
type SearchAction struct {
	Type       string     `json:"@type"`
	Target     EntryPoint `json:"target"`
	QueryInput string     `json:"query-input"`
}

// WebSite is a schema.org WebSite with a sitelinks search box.
type WebSite struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	Name            string       `json:"name"`
	URL             string       `json:"url"`
	Description     string       `json:"description,omitempty"`
	PotentialAction SearchAction `json:"potentialAction"`
}

// BreadcrumbList is a schema.org BreadcrumbList.
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// Answer is a schema.org Answer.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// Question is a schema.org Question.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// FAQPage is a schema.org FAQPage.
type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// Crumb is one breadcrumb step; Path is relative to the site root.
type Crumb struct {
	Name string
	Path string
}

// VideoGameData builds the VideoGame object for a game page.
func (g *Generator) VideoGameData(game *entities.Game, category *entities.Category, path string) VideoGame {
	vg := VideoGame{
		Context:             schemaContext,
		Type:                "VideoGame",
		Name:                game.Name,
		Description:         game.Description,
		URL:                 g.URL(path),
		Image:               g.ImageURL(game.ImageURL),
		Keywords:            strings.Join(normalizeKeywords(game.Tags), ", "),
		GamePlatform:        []string{"Web Browser"},
		ApplicationCategory: "Game",
		OperatingSystem:     "Any",
		Publisher:           &Organization{Type: "Organization", Name: g.site.Name, URL: g.site.BaseURL},
		Offers: Offer{
			Type:          "Offer",
			Price:         "0",
			PriceCurrency: "USD",
			Availability:  "https://schema.org/InStock",
		},
	}
	if category != nil {
		vg.Genre = category.Name
	}
	if !game.DateAdded.IsZero() {
		vg.DatePublished = game.DateAdded.UTC().Format(time.DateOnly)
	}
	if game.Metadata.Developer != "" {
		vg.Author = &Organization{Type: "Organization", Name: game.Metadata.Developer}
	}
	if game.Popularity > 0 {
		vg.AggregateRating = &AggregateRating{
			Type:        "AggregateRating",
			RatingValue: g.Rating(game.Popularity),
			BestRating:  5,
			WorstRating: 1,
			RatingCount: int(game.Popularity),
		}
		if vg.AggregateRating.RatingValue < 1 {
			vg.AggregateRating.RatingValue = 1
		}
	}
	return vg
}

// CollectionPageData builds the CollectionPage object for a listing page.
func (g *Generator) CollectionPageData(name, description, path string, games []*entities.Game, gamePath func(*entities.Game) string) CollectionPage {
	items := make([]ListItem, len(games))
	for i, game := range games {
		items[i] = ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     game.Name,
			URL:      g.URL(gamePath(game)),
		}
	}
	return CollectionPage{
		Context:     schemaContext,
		Type:        "CollectionPage",
		Name:        name,
		Description: description,
		URL:         g.URL(path),
		MainEntity: ItemList{
			Type:            "ItemList",
			NumberOfItems:   len(items),
			ItemListElement: items,
		},
	}
}

// WebSiteData builds the WebSite object with a search action pointing at /search.
func (g *Generator) WebSiteData() WebSite {
	return WebSite{
		Context:     schemaContext,
		Type:        "WebSite",
		Name:        g.site.Name,
		URL:         g.URL("/"),
		Description: g.MetaDescription(ContentHome, Subject{}),
		PotentialAction: SearchAction{
			Type: "SearchAction",
			Target: EntryPoint{
				Type:        "EntryPoint",
				URLTemplate: g.URL("/search") + "?q={search_term_string}",
			},
			QueryInput: "required name=search_term_string",
		},
	}
}

// BreadcrumbData builds a BreadcrumbList; Home is always the first crumb.
func (g *Generator) BreadcrumbData(crumbs ...Crumb) BreadcrumbList {
	all := append([]Crumb{{Name: "Home", Path: "/"}}, crumbs...)
	items := make([]ListItem, len(all))
	for i, c := range all {
		items[i] = ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     g.URL(c.Path),
		}
	}
	return BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}

// GameFAQData builds an FAQPage from a game's metadata.
func (g *Generator) GameFAQData(game *entities.Game) FAQPage {
	howTo := game.Metadata.Instructions
	if howTo == "" {
		howTo = fmt.Sprintf("Open %s on %s and press play. The game starts right in your browser.", game.Name, g.site.Name)
	}

	questions := []Question{
		question(fmt.Sprintf("How do I play %s?", game.Name), howTo),
	}
	if game.Metadata.Controls != "" {
		questions = append(questions, question(fmt.Sprintf("What are the controls for %s?", game.Name), game.Metadata.Controls))
	}
	questions = append(questions,
		question(fmt.Sprintf("Is %s free to play?", game.Name),
			fmt.Sprintf("Yes. %s is free to play on %s with no sign-up required.", game.Name, g.site.Name)),
		question(fmt.Sprintf("Do I need to download %s?", game.Name),
			"No. The game runs in any modern web browser on desktop and mobile."),
	)
	return FAQPage{Context: schemaContext, Type: "FAQPage", MainEntity: questions}
}

// SiteFAQData builds the FAQPage shown on the home page.
func (g *Generator) SiteFAQData() FAQPage {
	return FAQPage{
		Context: schemaContext,
		Type:    "FAQPage",
		MainEntity: []Question{
			question(fmt.Sprintf("Are the games on %s free?", g.site.Name),
				"Yes. Every game in the catalog is free to play in your browser."),
			question("Do I need an account to save favorites?",
				"No. Favorites and recently played games are remembered for your browser automatically."),
		},
	}
}

func question(q, a string) Question {
	return Question{Type: "Question", Name: q, AcceptedAnswer: Answer{Type: "Answer", Text: a}}
}
