package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/preyforum/preyforum/backend/config"
	"github.com/preyforum/preyforum/backend/models"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
)

const SessionCookieName = "prey_session"

// SessionService manages HMAC-signed session cookies. Verified sessions are
// cached so repeated requests on the same cookie skip signature checks.
type SessionService struct {
	config *config.WebAppConfig
	cache  *lru.Cache
}

// NewSessionService creates a new session service
func NewSessionService(cfg *config.WebAppConfig) *SessionService {
	cache, _ := lru.New(appconfig.SessionCacheSize)
	return &SessionService{
		config: cfg,
		cache:  cache,
	}
}

// CreateSession creates a new user session and sets the session cookie
func (s *SessionService) CreateSession(c *fiber.Ctx, userSession *models.UserSession) error {
	sessionData, err := json.Marshal(userSession)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	signedSession, err := s.signData(sessionData)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    signedSession,
		Path:     "/",
		MaxAge:   int(appconfig.SessionTTL / time.Second),
		Secure:   s.config.Environment == "production",
		HTTPOnly: true,
		SameSite: "Lax",
	})

	s.cache.Add(signedSession, userSession)

	slog.Info("Session created for user",
		slog.String("user_id", userSession.PreyUID),
		slog.String("username", userSession.Username),
		slog.Bool("is_admin", userSession.IsAdmin))

	return nil
}

// GetSession retrieves and validates the user session from the request
func (s *SessionService) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	sessionCookie := c.Cookies(SessionCookieName)
	if sessionCookie == "" {
		return nil, fmt.Errorf("no session cookie found")
	}

	if cached, ok := s.cache.Get(sessionCookie); ok {
		userSession := cached.(*models.UserSession)
		if time.Now().After(userSession.ExpiresAt) {
			s.cache.Remove(sessionCookie)
			s.DestroySession(c)
			return nil, fmt.Errorf("session expired")
		}
		return userSession, nil
	}

	sessionData, err := s.verifyAndDecodeData(sessionCookie)
	if err != nil {
		return nil, fmt.Errorf("invalid session signature: %w", err)
	}

	var userSession models.UserSession
	if err := json.Unmarshal(sessionData, &userSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(userSession.ExpiresAt) {
		s.DestroySession(c)
		return nil, fmt.Errorf("session expired")
	}

	s.cache.Add(sessionCookie, &userSession)
	return &userSession, nil
}

// DestroySession removes the session cookie and invalidates the session
func (s *SessionService) DestroySession(c *fiber.Ctx) {
	if sessionCookie := c.Cookies(SessionCookieName); sessionCookie != "" {
		s.cache.Remove(sessionCookie)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.config.Environment == "production",
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session destroyed for request",
		slog.String("ip", c.IP()),
		slog.String("user_agent", c.Get("User-Agent")))
}

// RefreshSession extends the session expiration time
func (s *SessionService) RefreshSession(c *fiber.Ctx, userSession *models.UserSession) error {
	userSession.ExpiresAt = time.Now().Add(appconfig.SessionTTL)
	return s.CreateSession(c, userSession)
}

// signData signs data using HMAC-SHA256
func (s *SessionService) signData(data []byte) (string, error) {
	secret := s.config.SessionSecret()
	if len(secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	h := hmac.New(sha256.New, secret)
	h.Write(data)
	signature := h.Sum(nil)

	combined := append(data, signature...)
	return base64.URLEncoding.EncodeToString(combined), nil
}

// verifyAndDecodeData verifies the signature and returns the original data
func (s *SessionService) verifyAndDecodeData(encodedData string) ([]byte, error) {
	secret := s.config.SessionSecret()
	if len(secret) == 0 {
		return nil, fmt.Errorf("session secret not configured")
	}

	combined, err := base64.URLEncoding.DecodeString(encodedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}

	if len(combined) < sha256.Size {
		return nil, fmt.Errorf("data too short")
	}

	data := combined[:len(combined)-sha256.Size]
	signature := combined[len(combined)-sha256.Size:]

	h := hmac.New(sha256.New, secret)
	h.Write(data)
	expected := h.Sum(nil)

	if !hmac.Equal(signature, expected) {
		return nil, fmt.Errorf("signature mismatch")
	}

	return data, nil
}
