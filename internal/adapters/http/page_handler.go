package http

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/gamehub/portal/internal/application/routing"
	"github.com/gamehub/portal/internal/application/search"
	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/domain/preferences"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/ports"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// StaticFS returns the embedded stylesheet and script.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateRenderer renders the embedded HTML templates for echo.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type pageView struct {
	Head         template.HTML
	Page         routing.Page
	SiteName     string
	Prefs        entities.Preferences
	Favorites    map[string]bool
	Categories   map[string]*entities.Category
	CategoryList []*entities.Category
	Recent       []*entities.Game
	Related      []*entities.Game
	Rating       float64
}

type gridView struct {
	Games []*entities.Game
	Prefs entities.Preferences
	View  *pageView
}

// Grid binds a game list to the page for the grid template.
func (v *pageView) Grid(games []*entities.Game) gridView {
	return gridView{Games: games, Prefs: v.Prefs, View: v}
}

// PageHandler renders the public HTML pages
type PageHandler struct {
	seoService         ports.SEOService
	catalogService     ports.CatalogService
	interactionService ports.InteractionService
	preferencesService ports.PreferencesService
	siteName           string
	logger             *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(seoService ports.SEOService, catalogService ports.CatalogService, interactionService ports.InteractionService, preferencesService ports.PreferencesService, siteName string, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		seoService:         seoService,
		catalogService:     catalogService,
		interactionService: interactionService,
		preferencesService: preferencesService,
		siteName:           siteName,
		logger:             logger,
	}
}

// Render resolves the request path and renders its page. Unknown paths and
// identifiers render the not-found page with a 404 status.
func (h *PageHandler) Render(c echo.Context) error {
	ctx := c.Request().Context()
	visitorID := visitorIDFromContext(c)
	query := c.QueryParams()

	page := h.seoService.Resolve(ctx, c.Request().URL.Path, query)

	prefs, err := h.preferencesService.Get(ctx, visitorID)
	if err != nil {
		h.logger.Debugw("Preferences unavailable", "error", err)
		prefs = preferences.Defaults()
	}

	switch page.Kind {
	case routing.KindGame:
		if _, err := h.interactionService.RecordPlay(ctx, visitorID, page.Game.ID); err != nil {
			h.logger.Debugw("Record play failed", "error", err)
		}
	case routing.KindSearch:
		if page.Query != "" {
			if _, err := h.interactionService.RecordSearch(ctx, visitorID, page.Query); err != nil {
				h.logger.Debugw("Record search failed", "error", err)
			}
		}
	}

	// Listings follow the visitor's preferred order unless the URL asks for one.
	if (page.Kind == routing.KindCategory || page.Kind == routing.KindSearch) &&
		query.Get("sort") == "" && query.Get("sortBy") == "" {
		search.Sort(page.Games, prefs.DefaultSort, search.DefaultOrder(prefs.DefaultSort))
	}

	rendered, err := h.seoService.Head(page).Render()
	if err != nil {
		return toHTTPError(err)
	}

	view := &pageView{
		Head:       rendered,
		Page:       page,
		SiteName:   h.siteName,
		Prefs:      prefs,
		Favorites:  map[string]bool{},
		Categories: map[string]*entities.Category{},
	}

	if record, err := h.interactionService.Get(ctx, visitorID); err == nil {
		for _, id := range record.Favorites {
			view.Favorites[id] = true
		}
	}

	if summaries, err := h.catalogService.ListCategories(ctx); err == nil {
		for _, s := range summaries {
			view.Categories[s.ID] = s.Category
			view.CategoryList = append(view.CategoryList, s.Category)
		}
	}

	switch page.Kind {
	case routing.KindHome:
		view.Recent, _ = h.interactionService.RecentGames(ctx, visitorID)
	case routing.KindGame:
		if detail, err := h.catalogService.GetGame(ctx, page.Game.ID); err == nil {
			view.Related = detail.Related
			view.Rating = detail.Rating
		}
	}

	status := http.StatusOK
	if page.Kind == routing.KindNotFound {
		status = http.StatusNotFound
	}
	return c.Render(status, "layout", view)
}

// SEOHandler serves page metadata, the sitemap and robots.txt
type SEOHandler struct {
	seoService ports.SEOService
	logger     *logger.Logger
}

// NewSEOHandler creates a new SEO handler
func NewSEOHandler(seoService ports.SEOService, logger *logger.Logger) *SEOHandler {
	return &SEOHandler{
		seoService: seoService,
		logger:     logger,
	}
}

// PageMetadata godoc
// @Summary Page metadata
// @Description Title, meta description, keywords, canonical URL, social tags and structured data for a path
// @Tags seo
// @Produce json
// @Param path query string true "Site path, e.g. /game/2048"
// @Success 200 {object} seo.Head
// @Router /seo [get]
func (h *SEOHandler) PageMetadata(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		path = "/"
	}

	// The page path may carry its own query, e.g. /search?q=dash.
	query := c.QueryParams()
	if u, err := parsePagePath(path); err == nil {
		path = u.Path
		query = u.Query()
	}

	page, head := h.seoService.Page(c.Request().Context(), path, query)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"kind": page.Kind,
		"path": page.Path,
		"head": head,
	})
}

func parsePagePath(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// Sitemap serves sitemap.xml
func (h *SEOHandler) Sitemap(c echo.Context) error {
	body, err := h.seoService.Sitemap(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Sitemap generation failed", "error", err)
		return toHTTPError(err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, body)
}

// Robots serves robots.txt
func (h *SEOHandler) Robots(c echo.Context) error {
	return c.String(http.StatusOK, h.seoService.Robots())
}
