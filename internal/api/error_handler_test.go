package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/pkg/authtoken"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrDuplicateUsername, http.StatusBadRequest},
		{fmt.Errorf("register: %w", domain.ErrDuplicateEmail), http.StatusBadRequest},
		{domain.ErrUnknownRole, http.StatusBadRequest},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{authtoken.ErrTokenExpired, http.StatusUnauthorized},
		{authtoken.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{echo.NewHTTPError(http.StatusNotFound, "nope"), http.StatusNotFound},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		h(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body.Success {
			t.Fatalf("%v: expected success=false", tc.err)
		}
		if tc.code == http.StatusInternalServerError && body.Message != "internal server error" {
			t.Fatalf("internal error leaked: %q", body.Message)
		}
	}
}
