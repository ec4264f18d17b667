package services

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gamehub/portal/internal/domain/entities"
	"github.com/gamehub/portal/internal/infrastructure/config"
	"github.com/gamehub/portal/internal/infrastructure/logger"
)

// VisitorClaims identifies an anonymous visitor; the visitor id is the subject.
type VisitorClaims struct {
	jwt.RegisteredClaims
}

// VisitorService issues and validates the signed visitor cookie
type VisitorService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	logger *logger.Logger
}

// NewVisitorService creates a new visitor service. Without a configured secret a
// random one is generated, so visitor cookies do not survive a restart.
func NewVisitorService(cfg config.VisitorConfig, log *logger.Logger) (*VisitorService, error) {
	if log == nil {
		log = logger.NewNop()
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate visitor secret: %w", err)
		}
		log.Warn("No visitor secret configured; generated an ephemeral one")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}

	return &VisitorService{
		secret: secret,
		issuer: cfg.Issuer,
		ttl:    ttl,
		logger: log,
	}, nil
}

// TTL is how long an issued token stays valid
func (s *VisitorService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a new visitor id and its signed token
func (s *VisitorService) Issue() (string, string, error) {
	visitorID := uuid.NewString()
	now := time.Now()

	claims := &VisitorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   visitorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign visitor token: %w", err)
	}

	return visitorID, tokenString, nil
}

// Parse validates a visitor token and returns the visitor id
func (s *VisitorService) Parse(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &VisitorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrInvalidVisitor, err)
	}

	claims, ok := token.Claims.(*VisitorClaims)
	if !ok || !token.Valid {
		return "", entities.ErrInvalidVisitor
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: malformed subject", entities.ErrInvalidVisitor)
	}

	return claims.Subject, nil
}
