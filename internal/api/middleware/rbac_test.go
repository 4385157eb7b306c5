package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/pkg/logger"
	"github.com/hasandag/auth-service/pkg/principal"
)

func rbacContext(e *echo.Echo, p *principal.Principal) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p != nil {
		req = req.WithContext(principal.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAnyAuthority_Allows(t *testing.T) {
	e := echo.New()
	c, rec := rbacContext(e, &principal.Principal{Subject: "alice", Authorities: []string{"ROLE_INSTRUCTOR"}})

	called := false
	mw := RequireAnyAuthority(domain.RoleInstructor, domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAnyAuthority_Forbids(t *testing.T) {
	e := echo.New()
	c, rec := rbacContext(e, &principal.Principal{Subject: "bob", Authorities: []string{"ROLE_USER"}})

	mw := RequireAnyAuthority(domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAnyAuthority_NoPrincipal(t *testing.T) {
	e := echo.New()
	c, rec := rbacContext(e, nil)

	handler := RequireAnyAuthority(domain.RoleUser)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequestContext_CopiesRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := RequestContext()(func(c echo.Context) error {
		if got := requestIDFrom(c); got != "req-42" {
			t.Fatalf("expected req-42, got %q", got)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func requestIDFrom(c echo.Context) string {
	return logger.RequestID(c.Request().Context())
}
