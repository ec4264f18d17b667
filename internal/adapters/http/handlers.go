package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gamehub/portal/internal/application/search"
	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/ports"
)

// VisitorContextKey is the echo context key holding the current visitor id.
const VisitorContextKey = "visitor_id"

type MessageResponse = ports.MessageResponse
type ErrorResponse = ports.ErrorResponse

// visitorIDFromContext returns the visitor id set by the visitor middleware
func visitorIDFromContext(c echo.Context) string {
	id, _ := c.Get(VisitorContextKey).(string)
	return id
}

// toHTTPError maps domain errors onto HTTP errors
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, entities.ErrGameNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Game not found")
	case errors.Is(err, entities.ErrCategoryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	case errors.Is(err, entities.ErrInvalidVisitor):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid visitor")
	case errors.Is(err, entities.ErrInvalidCatalog):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// GameHandler handles catalog browsing requests
type GameHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(catalogService ports.CatalogService, logger *logger.Logger) *GameHandler {
	return &GameHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListGames godoc
// @Summary List games
// @Description Filter and sort the game catalog
// @Tags games
// @Produce json
// @Param q query string false "Text search over name, description and tags"
// @Param category query string false "Category id"
// @Param tags query string false "Comma-separated tags; a game matches if it has any"
// @Param min_popularity query number false "Inclusive lower popularity bound"
// @Param max_popularity query number false "Inclusive upper popularity bound"
// @Param featured query bool false "Only featured games"
// @Param sort query string false "popularity, name or dateAdded"
// @Param order query string false "asc or desc"
// @Success 200 {object} ports.ListResponse[entities.Game]
// @Router /games [get]
func (h *GameHandler) ListGames(c echo.Context) error {
	filter := search.ParseFilter(c.QueryParams())

	games, err := h.catalogService.ListGames(c.Request().Context(), filter)
	if err != nil {
		h.logger.Errorw("List games failed", "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ports.ListResponse[*entities.Game]{Data: games, Total: len(games)})
}

// FeaturedGames godoc
// @Summary List featured games
// @Tags games
// @Produce json
// @Success 200 {object} ports.ListResponse[entities.Game]
// @Router /games/featured [get]
func (h *GameHandler) FeaturedGames(c echo.Context) error {
	games, err := h.catalogService.FeaturedGames(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List featured games failed", "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ports.ListResponse[*entities.Game]{Data: games, Total: len(games)})
}

// GetGame godoc
// @Summary Get a game
// @Description Get a game by id or slug, with its category, rating and related games
// @Tags games
// @Produce json
// @Param id path string true "Game id or slug"
// @Success 200 {object} ports.GameDetail
// @Failure 404 {object} ErrorResponse
// @Router /games/{id} [get]
func (h *GameHandler) GetGame(c echo.Context) error {
	detail, err := h.catalogService.GetGame(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, detail)
}

// RelatedGames godoc
// @Summary List related games
// @Tags games
// @Produce json
// @Param id path string true "Game id or slug"
// @Success 200 {object} ports.ListResponse[entities.Game]
// @Failure 404 {object} ErrorResponse
// @Router /games/{id}/related [get]
func (h *GameHandler) RelatedGames(c echo.Context) error {
	games, err := h.catalogService.RelatedGames(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ports.ListResponse[*entities.Game]{Data: games, Total: len(games)})
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} ports.ListResponse[ports.CategorySummary]
// @Router /categories [get]
func (h *GameHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List categories failed", "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ports.ListResponse[*ports.CategorySummary]{Data: categories, Total: len(categories)})
}

// GetCategory godoc
// @Summary Get a category
// @Description Get a category by slug or id with its games
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} ports.CategoryDetail
// @Failure 404 {object} ErrorResponse
// @Router /categories/{slug} [get]
func (h *GameHandler) GetCategory(c echo.Context) error {
	detail, err := h.catalogService.GetCategory(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, detail)
}

// AdminHandler handles catalog administration
type AdminHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(catalogService ports.CatalogService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ReloadCatalog godoc
// @Summary Reload the catalog
// @Description Re-read the catalog file and swap it in. The current catalog stays on failure.
// @Tags admin
// @Produce json
// @Success 200 {object} ports.ReloadResult
// @Failure 422 {object} ErrorResponse
// @Security BasicAuth
// @Router /admin/catalog/reload [post]
func (h *AdminHandler) ReloadCatalog(c echo.Context) error {
	result, err := h.catalogService.Reload(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	h.logger.Infow("Catalog reloaded by admin", "ip", c.RealIP(), "games", result.Games)
	return c.JSON(http.StatusOK, result)
}
