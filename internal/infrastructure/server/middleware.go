package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	httpHandlers "github.com/gamehub/portal/internal/adapters/http"
)

// visitorMiddleware identifies the anonymous visitor from the signed cookie,
// issuing a fresh identity when the cookie is missing, expired or forged.
func (s *Server) visitorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name := s.config.Visitor.CookieName

			if cookie, err := c.Cookie(name); err == nil && cookie.Value != "" {
				visitorID, err := s.visitor.Parse(cookie.Value)
				if err == nil {
					c.Set(httpHandlers.VisitorContextKey, visitorID)
					return next(c)
				}
				s.logger.LogSecurityEvent("invalid_visitor_cookie", c.RealIP(), map[string]interface{}{
					"error":    err.Error(),
					"endpoint": c.Request().URL.Path,
				})
			}

			visitorID, token, err := s.visitor.Issue()
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue visitor identity").SetInternal(err)
			}

			c.SetCookie(&http.Cookie{
				Name:     name,
				Value:    token,
				Path:     "/",
				MaxAge:   int(s.visitor.TTL().Seconds()),
				HttpOnly: true,
				Secure:   s.config.App.IsProduction(),
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(httpHandlers.VisitorContextKey, visitorID)

			return next(c)
		}
	}
}

// adminMiddleware guards catalog administration with HTTP basic auth against a bcrypt hash.
func (s *Server) adminMiddleware() echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "gamehub-admin",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Admin.Username)) == 1
			passOK := bcrypt.CompareHashAndPassword([]byte(s.config.Admin.PasswordHash), []byte(password)) == nil
			if userOK && passOK {
				return true, nil
			}

			s.logger.LogSecurityEvent("admin_auth_failed", c.RealIP(), map[string]interface{}{
				"username": username,
				"endpoint": c.Request().URL.Path,
			})
			return false, nil
		},
	})
}
