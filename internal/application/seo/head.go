package seo

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/gamehub/portal/internal/application/routing"
)

// OpenGraph holds the og:* properties.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	SiteName    string `json:"siteName"`
}

// TwitterCard holds the twitter:* properties.
type TwitterCard struct {
	Card        string `json:"card"`
	Site        string `json:"site,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Head is everything written into a document head for one navigation.
type Head struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Keywords       []string    `json:"keywords"`
	Canonical      string      `json:"canonical"`
	Robots         string      `json:"robots"`
	OpenGraph      OpenGraph   `json:"openGraph"`
	Twitter        TwitterCard `json:"twitter"`
	StructuredData []any       `json:"structuredData"`
}

// HeadFor builds the head for a resolved page.
func (g *Generator) HeadFor(page routing.Page) Head {
	var (
		ct      ContentType
		subject Subject
		image   string
		ogType  = "website"
		data    []any
	)

	switch page.Kind {
	case routing.KindGame:
		ct = ContentGame
		subject = GameSubject(page.Game, page.Category)
		image = page.Game.ImageURL
		ogType = "game"

		crumbs := make([]Crumb, 0, 2)
		if page.Category != nil {
			crumbs = append(crumbs, Crumb{Name: page.Category.Name, Path: routing.CategoryPath(page.Category)})
		}
		crumbs = append(crumbs, Crumb{Name: page.Game.Name, Path: page.Path})
		data = append(data,
			g.VideoGameData(page.Game, page.Category, page.Path),
			g.BreadcrumbData(crumbs...),
			g.GameFAQData(page.Game),
		)

	case routing.KindCategory:
		ct = ContentCategory
		subject = Subject{Name: page.Category.Name, Description: page.Category.Description, Count: len(page.Games)}
		data = append(data,
			g.CollectionPageData(page.Category.Name+" Games", g.MetaDescription(ct, subject), page.Path, page.Games, routing.GamePath),
			g.BreadcrumbData(Crumb{Name: page.Category.Name, Path: page.Path}),
		)

	case routing.KindSearch:
		ct = ContentSearch
		subject = Subject{Query: page.Query, Count: len(page.Games)}
		if page.Category != nil {
			subject.Category = page.Category.Name
		}
		data = append(data, g.BreadcrumbData(Crumb{Name: "Search", Path: page.Path}))

	case routing.KindNotFound:
		ct = ContentNotFound

	default:
		ct = ContentHome
		data = append(data,
			g.WebSiteData(),
			g.CollectionPageData(g.site.Name+" Featured Games", g.MetaDescription(ContentHome, Subject{}), "/", page.Games, routing.GamePath),
			g.SiteFAQData(),
		)
	}

	title := g.Title(ct, subject)
	desc := g.MetaDescription(ct, subject)
	canonical := g.URL(page.Path)
	if page.Kind == routing.KindNotFound {
		canonical = g.URL("/")
	}
	imageURL := g.ImageURL(image)

	robots := "index, follow"
	if page.Kind == routing.KindNotFound || page.Kind == routing.KindSearch {
		robots = "noindex, follow"
	}

	return Head{
		Title:       title,
		Description: desc,
		Keywords:    g.Keywords(ct, subject),
		Canonical:   canonical,
		Robots:      robots,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: desc,
			Image:       imageURL,
			URL:         canonical,
			Type:        ogType,
			SiteName:    g.site.Name,
		},
		Twitter: TwitterCard{
			Card:        "summary_large_image",
			Site:        g.site.TwitterHandle,
			Title:       title,
			Description: desc,
			Image:       imageURL,
		},
		StructuredData: data,
	}
}

// JSONLD serialises the structured data for a <script type="application/ld+json"> block.
// A single object is written bare; several are written as an array.
func (h Head) JSONLD() (string, error) {
	if len(h.StructuredData) == 0 {
		return "", nil
	}
	var v any = h.StructuredData
	if len(h.StructuredData) == 1 {
		v = h.StructuredData[0]
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var headTemplate = template.Must(template.New("head").Parse(`<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<meta name="keywords" content="{{.KeywordList}}">
<meta name="robots" content="{{.Robots}}">
<link rel="canonical" href="{{.Canonical}}">
<meta property="og:title" content="{{.OpenGraph.Title}}">
<meta property="og:description" content="{{.OpenGraph.Description}}">
<meta property="og:image" content="{{.OpenGraph.Image}}">
<meta property="og:url" content="{{.OpenGraph.URL}}">
<meta property="og:type" content="{{.OpenGraph.Type}}">
<meta property="og:site_name" content="{{.OpenGraph.SiteName}}">
<meta name="twitter:card" content="{{.Twitter.Card}}">
{{- if .Twitter.Site}}
<meta name="twitter:site" content="{{.Twitter.Site}}">
{{- end}}
<meta name="twitter:title" content="{{.Twitter.Title}}">
<meta name="twitter:description" content="{{.Twitter.Description}}">
<meta name="twitter:image" content="{{.Twitter.Image}}">
{{- if .LD}}
<script type="application/ld+json">{{.LD}}</script>
{{- end}}
`))

// KeywordList joins the keywords for the keywords meta tag.
func (h Head) KeywordList() string {
	return strings.Join(h.Keywords, ", ")
}

// Render writes the head as HTML. Text is escaped; the JSON-LD block is
// emitted as script content so html/template escapes it for that context.
func (h Head) Render() (template.HTML, error) {
	ld, err := h.JSONLD()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = headTemplate.Execute(&buf, struct {
		Head
		LD template.JS
	}{Head: h, LD: template.JS(ld)})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
