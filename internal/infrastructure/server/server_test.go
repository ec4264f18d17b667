package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub/portal/internal/adapters/catalog"
	"github.com/gamehub/portal/internal/adapters/repository"
	"github.com/gamehub/portal/internal/infrastructure/config"
	"github.com/gamehub/portal/internal/infrastructure/database"
	"github.com/gamehub/portal/internal/infrastructure/logger"
	"github.com/gamehub/portal/internal/infrastructure/metrics"
)

const (
	testCookie   = "gh_visitor"
	testPassword = "s3cret"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return &config.Config{
		App:     config.AppConfig{Name: "GameHub", Version: "test", Environment: "test"},
		Server:  config.ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.StorageMemory, Timeout: time.Second},
		Visitor: config.VisitorConfig{Secret: "test-secret", CookieName: testCookie, TTL: time.Hour, Issuer: "gamehub"},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: "*",
			RateLimitRequests:  10000,
			RateLimitWindow:    time.Minute,
		},
		Metrics: config.MetricsConfig{Enabled: true},
		Site: config.SiteConfig{
			Name:            "GameHub",
			BaseURL:         "https://games.example",
			RatingDivisor:   20,
			PopularSearches: []string{"racing games"},
		},
		Interactions: config.InteractionsConfig{MaxFavorites: 100, MaxRecentlyPlayed: 20, MaxRecentSearches: 10},
		Search:       config.SearchConfig{SuggestionLimit: 8, DebounceDelay: 20 * time.Millisecond, RelatedLimit: 6},
		Admin:        config.AdminConfig{Username: "admin", PasswordHash: string(hash)},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	srv, err := New(context.Background(), cfg, Dependencies{
		Storage: repository.NewMemoryStorage(),
		Catalog: catalog.NewLoader(""),
		Metrics: metrics.New(),
		Logger:  logger.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookie {
			c.cookie = ck
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(context.Background(), testConfig(t), Dependencies{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestHealthAndReadiness(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	if rec := c.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}
}

func TestDetailedHealthReportsStoragePool(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = config.StorageSQLite
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "gamehub.db"))
	if err != nil {
		t.Fatal(err)
	}
	kv := repository.NewSQLStorage(db)
	defer kv.Close()

	srv, err := New(context.Background(), cfg, Dependencies{
		Storage: kv,
		Catalog: catalog.NewLoader(""),
		Logger:  logger.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := &client{t: t, srv: srv}

	rec := c.do(http.MethodGet, "/health/detailed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var health struct {
		Status string `json:"status"`
		Checks struct {
			Storage struct {
				Status string                 `json:"status"`
				Driver string                 `json:"driver"`
				Stats  map[string]interface{} `json:"stats"`
			} `json:"storage"`
		} `json:"checks"`
	}
	decode(t, rec, &health)
	if health.Status != "ok" || health.Checks.Storage.Driver != "sqlite" {
		t.Fatalf("health = %+v", health)
	}
	if health.Checks.Storage.Stats["driver"] != "sqlite" {
		t.Errorf("pool stats missing: %v", health.Checks.Storage.Stats)
	}

	if rec := c.do(http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}
	kv.Close()
	if rec := c.do(http.MethodGet, "/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready after close = %d", rec.Code)
	}
}

func TestPagesRenderWithHead(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	rec := c.do(http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("home status = %d", rec.Code)
	}
	if c.cookie == nil {
		t.Fatal("expected a visitor cookie on first visit")
	}
	if c.cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Errorf("cookie max age = %d, want the token lifetime", c.cookie.MaxAge)
	}
	if !c.cookie.HttpOnly {
		t.Error("visitor cookie should be HttpOnly")
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>", `rel="canonical" href="https://games.example/"`, `"@type":"WebSite"`, "Featured games"} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}

	rec = c.do(http.MethodGet, "/game/cut-the-rope", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("game status = %d", rec.Code)
	}
	body = rec.Body.String()
	for _, want := range []string{"<h1>Cut the Rope</h1>", `"@type":"VideoGame"`, `"@type":"BreadcrumbList"`, "https://games.example/game/cut-the-rope"} {
		if !strings.Contains(body, want) {
			t.Errorf("game page missing %q", want)
		}
	}

	rec = c.do(http.MethodGet, "/category/racing", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("category status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"@type":"CollectionPage"`) {
		t.Error("category page missing CollectionPage data")
	}
}

func TestUnknownRoutesRenderNotFound(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	for _, path := range []string{"/game/no-such-game", "/category/nope", "/no/such/page"} {
		rec := c.do(http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Page not found") {
			t.Errorf("%s did not render the not-found page", path)
		}
		if !strings.Contains(body, `content="noindex, follow"`) {
			t.Errorf("%s should not be indexed", path)
		}
	}

	rec := c.do(http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("api status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("api 404 content type = %q", ct)
	}
}

func TestGameAPI(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	rec := c.do(http.MethodGet, "/api/v1/games?category=racing&sort=name", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 2 || list.Data[0].ID != "drift-hunters" || list.Data[1].ID != "moto-x3m" {
		t.Fatalf("racing by name = %+v", list)
	}

	rec = c.do(http.MethodGet, "/api/v1/games/2048", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var detail struct {
		Game struct {
			Name string `json:"name"`
		} `json:"game"`
		Rating float64 `json:"rating"`
	}
	decode(t, rec, &detail)
	if detail.Game.Name != "2048" || detail.Rating != 4.4 {
		t.Fatalf("detail = %+v", detail)
	}

	if rec := c.do(http.MethodGet, "/api/v1/games/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing game status = %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/api/v1/categories/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing category status = %d", rec.Code)
	}

	rec = c.do(http.MethodGet, "/api/v1/search/suggestions?q=drift", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("suggestions status = %d", rec.Code)
	}
	var sugg struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, rec, &sugg)
	found := false
	for _, s := range sugg.Suggestions {
		if s == "Drift Hunters" {
			found = true
		}
	}
	if !found {
		t.Fatalf("suggestions = %v", sugg.Suggestions)
	}
}

func TestVisitorFavoritesAndHistory(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}
	c.do(http.MethodGet, "/", "")

	rec := c.do(http.MethodPost, "/api/v1/me/favorites", `{"gameId":"snake"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add favorite status = %d: %s", rec.Code, rec.Body.String())
	}
	c.do(http.MethodPost, "/api/v1/me/favorites", `{"gameId":"vex-5"}`)
	c.do(http.MethodPost, "/api/v1/me/favorites", `{"gameId":"snake"}`)

	var favs struct {
		IDs []string `json:"ids"`
	}
	decode(t, c.do(http.MethodGet, "/api/v1/me/favorites", ""), &favs)
	if strings.Join(favs.IDs, ",") != "snake,vex-5" {
		t.Fatalf("favorites = %v", favs.IDs)
	}

	if rec := c.do(http.MethodPost, "/api/v1/me/favorites", `{"gameId":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty game id status = %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/api/v1/me/favorites/unknown/toggle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("toggle unknown status = %d", rec.Code)
	}

	var toggled struct {
		Favorite bool `json:"favorite"`
	}
	decode(t, c.do(http.MethodPost, "/api/v1/me/favorites/snake/toggle", ""), &toggled)
	if toggled.Favorite {
		t.Error("toggle should have removed snake")
	}

	// Opening a game page records a play; a search page records the query.
	c.do(http.MethodGet, "/game/moto-x3m", "")
	c.do(http.MethodGet, "/search?q=puzzle", "")

	var record struct {
		Favorites      []string `json:"favorites"`
		RecentlyPlayed []string `json:"recentlyPlayed"`
		RecentSearches []string `json:"recentSearches"`
	}
	decode(t, c.do(http.MethodGet, "/api/v1/me", ""), &record)
	if strings.Join(record.Favorites, ",") != "vex-5" {
		t.Errorf("favorites = %v", record.Favorites)
	}
	if strings.Join(record.RecentlyPlayed, ",") != "moto-x3m" {
		t.Errorf("recently played = %v", record.RecentlyPlayed)
	}
	if strings.Join(record.RecentSearches, ",") != "puzzle" {
		t.Errorf("recent searches = %v", record.RecentSearches)
	}

	c.do(http.MethodGet, "/game/snake", "")
	rec = c.do(http.MethodDelete, "/api/v1/me/recent/moto-x3m", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove recent status = %d", rec.Code)
	}
	decode(t, rec, &record)
	if strings.Join(record.RecentlyPlayed, ",") != "snake" {
		t.Errorf("recently played after removal = %v", record.RecentlyPlayed)
	}

	// A second visitor sees nothing of the first.
	other := &client{t: t, srv: c.srv}
	decode(t, other.do(http.MethodGet, "/api/v1/me", ""), &record)
	if len(record.Favorites) != 0 || len(record.RecentlyPlayed) != 0 {
		t.Errorf("new visitor record = %+v", record)
	}
}

func TestForgedCookieGetsFreshIdentity(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}
	c.cookie = &http.Cookie{Name: testCookie, Value: "not-a-token"}

	rec := c.do(http.MethodGet, "/api/v1/me", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c.cookie.Value == "not-a-token" {
		t.Fatal("expected a replacement cookie")
	}
}

func TestPreferencesDriveListingOrder(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	if rec := c.do(http.MethodPatch, "/api/v1/me/preferences", `{"gridColumns":9}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid patch status = %d", rec.Code)
	}

	rec := c.do(http.MethodPatch, "/api/v1/me/preferences", `{"defaultSort":"name","theme":"dark","gridColumns":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}
	var prefs struct {
		GridColumns int    `json:"gridColumns"`
		DefaultSort string `json:"defaultSort"`
		Theme       string `json:"theme"`
	}
	decode(t, rec, &prefs)
	if prefs.GridColumns != 5 || prefs.DefaultSort != "name" || prefs.Theme != "dark" {
		t.Fatalf("prefs = %+v", prefs)
	}

	body := c.do(http.MethodGet, "/search", "").Body.String()
	if !strings.Contains(body, `data-theme="dark"`) {
		t.Error("theme not applied")
	}
	if !strings.Contains(body, `class="game-grid cols-5"`) {
		t.Error("grid columns not applied")
	}
	if strings.Contains(body, "style=") {
		t.Error("inline styles are blocked by the content security policy")
	}
	first, last := strings.Index(body, "<h3>2048</h3>"), strings.Index(body, "<h3>Vex 5</h3>")
	if first < 0 || last < 0 || first > last {
		t.Errorf("search page not sorted by name")
	}

	// Structured data lists the category in the same order as the grid.
	body = c.do(http.MethodGet, "/category/racing", "").Body.String()
	if !strings.Contains(body, `"position":1,"name":"Drift Hunters"`) {
		t.Error("item list not in the preferred order")
	}
	if strings.Index(body, "<h3>Drift Hunters</h3>") > strings.Index(body, "<h3>Moto X3M</h3>") {
		t.Error("category grid not sorted by name")
	}

	decode(t, c.do(http.MethodDelete, "/api/v1/me/preferences", ""), &prefs)
	if prefs.DefaultSort != "popularity" || prefs.Theme != "light" {
		t.Fatalf("reset prefs = %+v", prefs)
	}
}

func TestCrawlerFilesAndMetadata(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	rec := c.do(http.MethodGet, "/sitemap.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sitemap status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<loc>https://games.example/game/cut-the-rope</loc>") {
		t.Error("sitemap missing game URL")
	}

	rec = c.do(http.MethodGet, "/robots.txt", "")
	if !strings.Contains(rec.Body.String(), "Sitemap: https://games.example/sitemap.xml") {
		t.Errorf("robots.txt = %q", rec.Body.String())
	}

	rec = c.do(http.MethodGet, "/api/v1/seo?path=/game/2048", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("seo status = %d", rec.Code)
	}
	var meta struct {
		Kind string `json:"kind"`
		Head struct {
			Title     string `json:"title"`
			Canonical string `json:"canonical"`
		} `json:"head"`
	}
	decode(t, rec, &meta)
	if meta.Kind != "game" || !strings.Contains(meta.Head.Title, "2048") || meta.Head.Canonical != "https://games.example/game/2048" {
		t.Fatalf("metadata = %+v", meta)
	}

	decode(t, c.do(http.MethodGet, "/api/v1/seo?path=/search%3Fq%3Ddash", ""), &meta)
	if meta.Kind != "search" {
		t.Fatalf("search metadata kind = %q", meta.Kind)
	}

	rec = c.do(http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), "gamehub_catalog_games 8") {
		t.Error("metrics missing catalog size")
	}
}

func TestAdminReloadRequiresCredentials(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, testConfig(t))}

	if rec := c.do(http.MethodPost, "/api/v1/admin/catalog/reload", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/reload", nil)
	req.SetBasicAuth("admin", "wrong")
	rec := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/reload", nil)
	req.SetBasicAuth("admin", testPassword)
	rec = httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Games int `json:"games"`
	}
	decode(t, rec, &result)
	if result.Games != 8 {
		t.Fatalf("reloaded games = %d", result.Games)
	}
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.PasswordHash = ""
	c := &client{t: t, srv: newTestServer(t, cfg)}

	if rec := c.do(http.MethodPost, "/api/v1/admin/catalog/reload", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestErrorDetailsOnlyInDevelopment(t *testing.T) {
	for env, wantDetails := range map[string]bool{"development": true, "production": false} {
		cfg := testConfig(t)
		cfg.App.Environment = env
		srv := newTestServer(t, cfg)

		rec := httptest.NewRecorder()
		c := srv.echo.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/games", nil), rec)
		srv.echo.HTTPErrorHandler(errors.New("disk on fire"), c)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: status = %d", env, rec.Code)
		}
		if got := strings.Contains(rec.Body.String(), "disk on fire"); got != wantDetails {
			t.Errorf("%s: body %s", env, rec.Body.String())
		}
	}
}
