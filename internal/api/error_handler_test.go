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

	"github.com/boxwise/inventory/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{"validation", domain.Invalid("name is required"), http.StatusBadRequest, "name is required"},
		{"wrapped validation", fmt.Errorf("create item: %w", domain.Invalid("quantity must be positive")), http.StatusBadRequest, "quantity must be positive"},
		{"not found", fmt.Errorf("get: %w", domain.ErrItemNotFound), http.StatusNotFound, "item not found"},
		{"cycle", domain.ErrLocationCycle, http.StatusBadRequest, domain.ErrLocationCycle.Error()},
		{"in use", domain.ErrCategoryInUse, http.StatusConflict, domain.ErrCategoryInUse.Error()},
		{"plan limit", domain.ErrPlanLimit, http.StatusForbidden, domain.ErrPlanLimit.Error()},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/items", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success || body.Message != tc.message {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}
