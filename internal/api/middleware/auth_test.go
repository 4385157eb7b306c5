package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/pkg/authtoken"
	"github.com/hasandag/auth-service/pkg/principal"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokens(t *testing.T, now func() time.Time) (*authtoken.Issuer, *authtoken.Validator) {
	t.Helper()
	cfg := authtoken.Config{Secret: []byte(testSecret), Issuer: "test", TTL: time.Hour, Now: now}
	iss, err := authtoken.NewIssuer(cfg)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	val, err := authtoken.NewValidator(cfg)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return iss, val
}

func runAuth(t *testing.T, val TokenValidator, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(val)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustNotCall(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	iss, val := newTokens(t, nil)
	tok, err := iss.Issue("alice", []string{"ROLE_USER", "ROLE_ADMIN"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called := false
	rec := runAuth(t, val, "Bearer "+tok.Value, func(c echo.Context) error {
		called = true
		p, ok := principal.FromContext(c.Request().Context())
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.Subject != "alice" {
			t.Fatalf("subject not set: %q", p.Subject)
		}
		if !p.HasAuthority("ROLE_ADMIN") {
			t.Fatalf("authorities not set: %v", p.Authorities)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	_, val := newTokens(t, nil)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"empty bearer":   "Bearer ",
		"garbage token":  "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runAuth(t, val, header, mustNotCall(t))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	iss, _ := newTokens(t, func() time.Time { return past })
	_, val := newTokens(t, nil)

	tok, err := iss.Issue("alice", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := runAuth(t, val, "Bearer "+tok.Value, mustNotCall(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "token expired") {
		t.Fatalf("expected expiry message, got %s", body)
	}
}
