package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/gamehub/portal/docs"
	httpHandlers "github.com/gamehub/portal/internal/adapters/http"
	"github.com/gamehub/portal/internal/adapters/repository"
	"github.com/gamehub/portal/internal/application/seo"
	"github.com/gamehub/portal/internal/application/services"
	"github.com/gamehub/portal/internal/domain/interactions"
	"github.com/gamehub/portal/internal/infrastructure/config"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/infrastructure/metrics"
	"github.com/gamehub/portal/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	kv      ports.KeyValueStore
	metrics *metrics.Metrics
	visitor ports.VisitorService
	pages   *httpHandlers.PageHandler
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Dependencies are the collaborators the server is built from. Every field is required
// except Metrics, which may be nil to disable instrumentation.
type Dependencies struct {
	Storage ports.KeyValueStore
	Catalog ports.CatalogSource
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// New loads the catalog, builds the services and handlers and registers every route.
func New(ctx context.Context, cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil || deps.Storage == nil || deps.Catalog == nil || deps.Logger == nil {
		return nil, errors.New("server requires a config, storage, a catalog source and a logger")
	}
	appLogger := deps.Logger

	initial, err := deps.Catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	catalogRepo, err := repository.NewCatalogRepository(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to index catalog: %w", err)
	}
	deps.Metrics.ObserveReload(nil, len(initial.Games))

	generator := seo.NewGenerator(seo.Site{
		Name:          cfg.Site.Name,
		BaseURL:       cfg.Site.BaseURL,
		DefaultImage:  cfg.Site.DefaultImage,
		TwitterHandle: cfg.Site.TwitterHandle,
		RatingDivisor: cfg.Site.RatingDivisor,
	})

	// Initialize services
	catalogService, err := services.NewCatalogService(catalogRepo, deps.Catalog, generator, services.CatalogOptions{
		SuggestionLimit: cfg.Search.SuggestionLimit,
		RelatedLimit:    cfg.Search.RelatedLimit,
		PopularSearches: cfg.Site.PopularSearches,
	}, deps.Metrics, appLogger)
	if err != nil {
		return nil, err
	}
	interactionService, err := services.NewInteractionService(deps.Storage, catalogRepo, interactions.Limits{
		Favorites:      cfg.Interactions.MaxFavorites,
		RecentlyPlayed: cfg.Interactions.MaxRecentlyPlayed,
		RecentSearches: cfg.Interactions.MaxRecentSearches,
	}, cfg.Storage.Timeout, deps.Metrics, appLogger)
	if err != nil {
		return nil, err
	}
	preferencesService, err := services.NewPreferencesService(deps.Storage, cfg.Storage.Timeout, appLogger)
	if err != nil {
		return nil, err
	}
	visitorService, err := services.NewVisitorService(cfg.Visitor, appLogger)
	if err != nil {
		return nil, err
	}
	seoService, err := services.NewSEOService(catalogRepo, generator)
	if err != nil {
		return nil, err
	}

	renderer, err := httpHandlers.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Renderer = renderer
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.IsDevelopment()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	s := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		kv:      deps.Storage,
		metrics: deps.Metrics,
		visitor: visitorService,
		pages:   httpHandlers.NewPageHandler(seoService, catalogService, interactionService, preferencesService, cfg.Site.Name, appLogger),
	}
	e.HTTPErrorHandler = s.customErrorHandler()

	s.setupMiddleware()
	s.setupRoutes(routeHandlers{
		games:       httpHandlers.NewGameHandler(catalogService, appLogger),
		visitor:     httpHandlers.NewVisitorHandler(interactionService, preferencesService, appLogger),
		suggestions: httpHandlers.NewSuggestionHandler(catalogService, interactionService, cfg.Search.DebounceDelay, appLogger),
		seo:         httpHandlers.NewSEOHandler(seoService, appLogger),
		admin:       httpHandlers.NewAdminHandler(catalogService, appLogger),
	})

	return s, nil
}

type routeHandlers struct {
	games       *httpHandlers.GameHandler
	visitor     *httpHandlers.VisitorHandler
	suggestions *httpHandlers.SuggestionHandler
	seo         *httpHandlers.SEOHandler
	admin       *httpHandlers.AdminHandler
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			reqLogger := s.logger.WithRequestID(values.RequestID)
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				reqLogger.WithError(values.Error).Errorw("HTTP request failed", fields...)
			} else {
				reqLogger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		AllowCredentials: s.config.Security.CORSAllowedOrigins != "*",
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/static/")
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      requestRate(s.config.Security.RateLimitRequests, s.config.Security.RateLimitWindow),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers. Game pages embed third-party players and artwork over https.
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:; frame-src https:; " +
			"connect-src 'self' ws: wss:; script-src 'self'; style-src 'self'",
	}))

	// Timeout middleware; websocket connections outlive any request timeout.
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/ws/")
		},
		Timeout: 30 * time.Second,
	}))

	s.echo.Use(s.metrics.Middleware())
}

func requestRate(requests int, window time.Duration) rate.Limit {
	if requests <= 0 || window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(requests) / window.Seconds())
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h routeHandlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Metrics endpoint
	if s.config.Metrics.Enabled && s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Crawler files
	s.echo.GET("/sitemap.xml", h.seo.Sitemap)
	s.echo.GET("/robots.txt", h.seo.Robots)

	// Static assets
	s.echo.StaticFS("/static", httpHandlers.StaticFS())

	visitor := s.visitorMiddleware()

	// HTML pages
	pages := s.echo.Group("", visitor)
	pages.GET("/", s.pages.Render)
	pages.GET("/game/:slug", s.pages.Render)
	pages.GET("/category/:slug", s.pages.Render)
	pages.GET("/search", s.pages.Render)
	pages.RouteNotFound("/*", s.pages.Render)

	// Suggestion stream
	s.echo.GET("/ws/suggestions", h.suggestions.Stream, visitor)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.RouteNotFound("/*", func(c echo.Context) error {
		return echo.ErrNotFound
	})

	v1.GET("/games", h.games.ListGames)
	v1.GET("/games/featured", h.games.FeaturedGames)
	v1.GET("/games/:id", h.games.GetGame)
	v1.GET("/games/:id/related", h.games.RelatedGames)
	v1.GET("/categories", h.games.ListCategories)
	v1.GET("/categories/:slug", h.games.GetCategory)
	v1.GET("/seo", h.seo.PageMetadata)
	v1.GET("/search/suggestions", h.suggestions.Suggestions, visitor)

	// Visitor routes (cookie identified)
	me := v1.Group("/me", visitor)
	me.GET("", h.visitor.GetInteractions)
	me.GET("/favorites", h.visitor.ListFavorites)
	me.POST("/favorites", h.visitor.AddFavorite)
	me.DELETE("/favorites", h.visitor.ClearFavorites)
	me.DELETE("/favorites/:id", h.visitor.RemoveFavorite)
	me.POST("/favorites/:id/toggle", h.visitor.ToggleFavorite)
	me.GET("/recent", h.visitor.ListRecent)
	me.POST("/recent", h.visitor.RecordPlay)
	me.DELETE("/recent", h.visitor.ClearRecent)
	me.DELETE("/recent/:id", h.visitor.RemoveRecent)
	me.POST("/searches", h.visitor.RecordSearch)
	me.DELETE("/searches", h.visitor.ClearSearches)
	me.GET("/preferences", h.visitor.GetPreferences)
	me.PATCH("/preferences", h.visitor.UpdatePreferences)
	me.DELETE("/preferences", h.visitor.ResetPreferences)

	// Admin routes
	if s.config.Admin.PasswordHash == "" {
		s.logger.Warnw("Admin password hash not configured; catalog administration disabled")
		return
	}
	admin := v1.Group("/admin", s.adminMiddleware())
	admin.POST("/catalog/reload", h.admin.ReloadCatalog)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": s.config.App.Version,
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	storage := map[string]interface{}{"status": "ok", "driver": string(s.config.Storage.Driver)}
	if err := s.kv.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		storage["status"] = "error"
		storage["error"] = err.Error()
	} else if st, ok := s.kv.(ports.StorageStats); ok {
		storage["stats"] = st.Stats()
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "error"
	}
	return c.JSON(status, map[string]interface{}{
		"status": overall,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]interface{}{"storage": storage},
		"version": map[string]string{
			"app":         s.config.App.Version,
			"environment": s.config.App.Environment,
		},
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := s.kv.Ping(ctx); err != nil {
		s.logger.Warnw("Readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func (s *Server) customErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = map[string]interface{}{"message": "validation failed", "details": ve.Error()}
		default:
			msg = map[string]interface{}{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			s.logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
			if s.config.App.IsDevelopment() {
				msg = map[string]interface{}{"message": http.StatusText(code), "details": err.Error()}
			}
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == echo.HEAD {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, msg)
		}
		if err != nil {
			s.logger.Errorw("Error sending response", "error", err)
		}
	}
}
