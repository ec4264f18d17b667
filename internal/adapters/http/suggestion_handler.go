package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/platform/debounce"
	"github.com/gamehub/portal/internal/ports"
)

const maxSuggestionQuery = 200

// SuggestionHandler serves search suggestions over HTTP and a debounced websocket
type SuggestionHandler struct {
	catalogService     ports.CatalogService
	interactionService ports.InteractionService
	delay              time.Duration
	upgrader           websocket.Upgrader
	logger             *logger.Logger
}

// NewSuggestionHandler creates a new suggestion handler. delay is the quiet
// period the websocket waits for before answering.
func NewSuggestionHandler(catalogService ports.CatalogService, interactionService ports.InteractionService, delay time.Duration, logger *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		catalogService:     catalogService,
		interactionService: interactionService,
		delay:              delay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

type suggestionRequest struct {
	Query string `json:"query"`
}

func (h *SuggestionHandler) recentSearches(ctx context.Context, visitorID string) []string {
	if visitorID == "" {
		return nil
	}
	record, err := h.interactionService.Get(ctx, visitorID)
	if err != nil {
		return nil
	}
	return record.RecentSearches
}

func clampQuery(q string) string {
	q = strings.TrimSpace(q)
	if r := []rune(q); len(r) > maxSuggestionQuery {
		q = string(r[:maxSuggestionQuery])
	}
	return q
}

// Suggestions godoc
// @Summary Search suggestions
// @Description Recent searches, popular searches, tags and game names containing q
// @Tags search
// @Produce json
// @Param q query string true "Partial query"
// @Success 200 {object} ports.SuggestionsResponse
// @Router /search/suggestions [get]
func (h *SuggestionHandler) Suggestions(c echo.Context) error {
	ctx := c.Request().Context()
	query := clampQuery(c.QueryParam("q"))

	suggestions, err := h.catalogService.Suggest(ctx, query, h.recentSearches(ctx, visitorIDFromContext(c)))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ports.SuggestionsResponse{Query: query, Suggestions: suggestions})
}

// Stream upgrades to a websocket. Each incoming {"query": "..."} message
// reschedules the lookup; only the last query of a burst is answered.
func (h *SuggestionHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warnw("Websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeMu sync.Mutex
	write := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	recent := h.recentSearches(ctx, visitorIDFromContext(c))
	scheduler := debounce.New()
	defer scheduler.Stop()

	for {
		var req suggestionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugw("Suggestion stream closed", "error", err)
			}
			return nil
		}

		query := clampQuery(req.Query)
		if query == "" {
			scheduler.Cancel()
			if err := write(ports.SuggestionsResponse{Query: "", Suggestions: []string{}}); err != nil {
				return nil
			}
			continue
		}

		scheduler.Schedule(h.delay, func() {
			suggestions, err := h.catalogService.Suggest(ctx, query, recent)
			if err != nil {
				h.logger.Errorw("Suggestion lookup failed", "error", err)
				return
			}
			if err := write(ports.SuggestionsResponse{Query: query, Suggestions: suggestions}); err != nil {
				cancel()
			}
		})
	}
}
