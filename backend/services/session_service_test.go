package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/config"
	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/preyforum"
)

func sessionFixture() *SessionService {
	cfg := &preyforum.Config{}
	cfg.Server.SessionSecret = "test-secret-please-rotate"
	return NewSessionService(config.NewWebAppConfig(cfg, true))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := sessionFixture()

	session := &models.UserSession{
		PreyUID:   "uid-42",
		Username:  "tester",
		Role:      "User",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	data, err := json.Marshal(session)
	if err != nil {
		t.Fatal(err)
	}

	signed, err := s.signData(data)
	if err != nil {
		t.Fatalf("signData() error = %v", err)
	}

	decoded, err := s.verifyAndDecodeData(signed)
	if err != nil {
		t.Fatalf("verifyAndDecodeData() error = %v", err)
	}

	var got models.UserSession
	if err := json.Unmarshal(decoded, &got); err != nil {
		t.Fatal(err)
	}
	if got.PreyUID != session.PreyUID || got.Username != session.Username {
		t.Errorf("round trip = %+v, want %+v", got, session)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := sessionFixture()

	signed, err := s.signData([]byte(`{"prey_uid":"uid-42"}`))
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character in the encoded payload.
	tampered := strings.Replace(signed, signed[:1], "A", 1)
	if tampered == signed {
		tampered = "B" + signed[1:]
	}

	if _, err := s.verifyAndDecodeData(tampered); err == nil {
		t.Error("verifyAndDecodeData() accepted tampered data")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	s := sessionFixture()

	signed, err := s.signData([]byte(`{"prey_uid":"uid-42"}`))
	if err != nil {
		t.Fatal(err)
	}

	other := &preyforum.Config{}
	other.Server.SessionSecret = "a-different-secret"
	s2 := NewSessionService(config.NewWebAppConfig(other, true))

	if _, err := s2.verifyAndDecodeData(signed); err == nil {
		t.Error("verifyAndDecodeData() accepted a foreign signature")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := sessionFixture()

	for _, input := range []string{"", "not-base64!!", "QQ=="} {
		if _, err := s.verifyAndDecodeData(input); err == nil {
			t.Errorf("verifyAndDecodeData(%q) accepted garbage", input)
		}
	}
}

func TestRefreshSessionExtendsExpiry(t *testing.T) {
	s := sessionFixture()

	session := &models.UserSession{
		PreyUID:   "uid-42",
		Username:  "tester",
		ExpiresAt: time.Now().Add(time.Minute),
	}

	var refreshErr error
	app := fiber.New()
	app.Get("/refresh", func(c *fiber.Ctx) error {
		refreshErr = s.RefreshSession(c, session)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/refresh", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if refreshErr != nil {
		t.Fatalf("RefreshSession() error = %v", refreshErr)
	}

	if remaining := time.Until(session.ExpiresAt); remaining < 23*time.Hour {
		t.Errorf("session expires in %v, want a full day after refresh", remaining)
	}

	var found bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("refresh did not re-issue the session cookie")
	}
}

func TestSignRequiresSecret(t *testing.T) {
	cfg := &preyforum.Config{}
	s := NewSessionService(config.NewWebAppConfig(cfg, true))

	if _, err := s.signData([]byte("data")); err == nil {
		t.Error("signData() succeeded without a secret")
	}
}
