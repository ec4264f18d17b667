package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/ports"
)

// VisitorHandler handles the current visitor's favorites, history and preferences
type VisitorHandler struct {
	interactionService ports.InteractionService
	preferencesService ports.PreferencesService
	logger             *logger.Logger
}

// NewVisitorHandler creates a new visitor handler
func NewVisitorHandler(interactionService ports.InteractionService, preferencesService ports.PreferencesService, logger *logger.Logger) *VisitorHandler {
	return &VisitorHandler{
		interactionService: interactionService,
		preferencesService: preferencesService,
		logger:             logger,
	}
}

// GetInteractions godoc
// @Summary Get the visitor's interaction record
// @Tags me
// @Produce json
// @Success 200 {object} entities.Interactions
// @Router /me [get]
func (h *VisitorHandler) GetInteractions(c echo.Context) error {
	record, err := h.interactionService.Get(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ListFavorites godoc
// @Summary List favorite games
// @Description Favorites, most recent first. Games removed from the catalog are skipped.
// @Tags me
// @Produce json
// @Success 200 {object} ports.FavoritesResponse
// @Router /me/favorites [get]
func (h *VisitorHandler) ListFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	visitorID := visitorIDFromContext(c)

	record, err := h.interactionService.Get(ctx, visitorID)
	if err != nil {
		return toHTTPError(err)
	}
	games, err := h.interactionService.FavoriteGames(ctx, visitorID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ports.FavoritesResponse{IDs: record.Favorites, Games: games})
}

// AddFavorite godoc
// @Summary Add a favorite
// @Tags me
// @Accept json
// @Produce json
// @Param request body ports.AddGameRequest true "Game to add"
// @Success 200 {object} entities.Interactions
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /me/favorites [post]
func (h *VisitorHandler) AddFavorite(c echo.Context) error {
	var req ports.AddGameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.interactionService.AddFavorite(c.Request().Context(), visitorIDFromContext(c), req.GameID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Tags me
// @Produce json
// @Param id path string true "Game id"
// @Success 200 {object} entities.Interactions
// @Router /me/favorites/{id} [delete]
func (h *VisitorHandler) RemoveFavorite(c echo.Context) error {
	record, err := h.interactionService.RemoveFavorite(c.Request().Context(), visitorIDFromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Tags me
// @Produce json
// @Param id path string true "Game id"
// @Success 200 {object} ports.ToggleFavoriteResponse
// @Failure 404 {object} ErrorResponse
// @Router /me/favorites/{id}/toggle [post]
func (h *VisitorHandler) ToggleFavorite(c echo.Context) error {
	favorite, record, err := h.interactionService.ToggleFavorite(c.Request().Context(), visitorIDFromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ports.ToggleFavoriteResponse{Favorite: favorite, Interactions: record})
}

// ClearFavorites godoc
// @Summary Clear favorites
// @Tags me
// @Produce json
// @Success 200 {object} entities.Interactions
// @Router /me/favorites [delete]
func (h *VisitorHandler) ClearFavorites(c echo.Context) error {
	record, err := h.interactionService.ClearFavorites(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ListRecent godoc
// @Summary List recently played games
// @Tags me
// @Produce json
// @Success 200 {object} ports.ListResponse[entities.Game]
// @Router /me/recent [get]
func (h *VisitorHandler) ListRecent(c echo.Context) error {
	games, err := h.interactionService.RecentGames(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ports.ListResponse[*entities.Game]{Data: games, Total: len(games)})
}

// RecordPlay godoc
// @Summary Record a played game
// @Tags me
// @Accept json
// @Produce json
// @Param request body ports.AddGameRequest true "Game that was played"
// @Success 200 {object} entities.Interactions
// @Failure 404 {object} ErrorResponse
// @Router /me/recent [post]
func (h *VisitorHandler) RecordPlay(c echo.Context) error {
	var req ports.AddGameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.interactionService.RecordPlay(c.Request().Context(), visitorIDFromContext(c), req.GameID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// RemoveRecent godoc
// @Summary Remove a game from the recently played list
// @Tags me
// @Produce json
// @Param id path string true "Game id"
// @Success 200 {object} entities.Interactions
// @Router /me/recent/{id} [delete]
func (h *VisitorHandler) RemoveRecent(c echo.Context) error {
	record, err := h.interactionService.RemoveRecentlyPlayed(c.Request().Context(), visitorIDFromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ClearRecent godoc
// @Summary Clear recently played games
// @Tags me
// @Produce json
// @Success 200 {object} entities.Interactions
// @Router /me/recent [delete]
func (h *VisitorHandler) ClearRecent(c echo.Context) error {
	record, err := h.interactionService.ClearRecentlyPlayed(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// RecordSearch godoc
// @Summary Remember a submitted search
// @Tags me
// @Accept json
// @Produce json
// @Param request body ports.RecordSearchRequest true "Search term"
// @Success 200 {object} entities.Interactions
// @Router /me/searches [post]
func (h *VisitorHandler) RecordSearch(c echo.Context) error {
	var req ports.RecordSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.interactionService.RecordSearch(c.Request().Context(), visitorIDFromContext(c), req.Query)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ClearSearches godoc
// @Summary Clear recent searches
// @Tags me
// @Produce json
// @Success 200 {object} entities.Interactions
// @Router /me/searches [delete]
func (h *VisitorHandler) ClearSearches(c echo.Context) error {
	record, err := h.interactionService.ClearRecentSearches(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// GetPreferences godoc
// @Summary Get display preferences
// @Tags me
// @Produce json
// @Success 200 {object} entities.Preferences
// @Router /me/preferences [get]
func (h *VisitorHandler) GetPreferences(c echo.Context) error {
	prefs, err := h.preferencesService.Get(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences godoc
// @Summary Update display preferences
// @Description Shallow-merge the given keys into the stored preferences
// @Tags me
// @Accept json
// @Produce json
// @Param request body entities.PreferencesPatch true "Preferences to change"
// @Success 200 {object} entities.Preferences
// @Failure 400 {object} ErrorResponse
// @Router /me/preferences [patch]
func (h *VisitorHandler) UpdatePreferences(c echo.Context) error {
	var patch entities.PreferencesPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefs, err := h.preferencesService.Update(c.Request().Context(), visitorIDFromContext(c), patch)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// ResetPreferences godoc
// @Summary Reset display preferences
// @Tags me
// @Produce json
// @Success 200 {object} entities.Preferences
// @Router /me/preferences [delete]
func (h *VisitorHandler) ResetPreferences(c echo.Context) error {
	prefs, err := h.preferencesService.Reset(c.Request().Context(), visitorIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, prefs)
}
