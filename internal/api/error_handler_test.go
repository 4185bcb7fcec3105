package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/api/middleware"
	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

type logoutCounter struct {
	ports.SessionService
	calls int
}

func (s *logoutCounter) Logout(context.Context) domain.Transition {
	s.calls++
	return domain.Transition{Navigate: domain.RouteLanding}
}

type wrappedTransport struct{ err error }

func (w wrappedTransport) Error() string        { return "dial backend: " + w.err.Error() }
func (w wrappedTransport) Unwrap() error        { return w.err }
func (w wrappedTransport) Is(target error) bool { return target == domain.ErrBackendUnavailable }

func renderError(t *testing.T, err error, ws *ports.Workspace) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/projects", nil), rec)
	if ws != nil {
		c.Set(middleware.ContextWorkspace, ws)
	}

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		message  string
		redirect domain.Route
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid id"), 400, "invalid id", ""},
		{"backend 404", domain.NewAPIError(404, "Проект не найден"), 404, "Проект не найден", ""},
		{"backend 422", fmt.Errorf("create: %w", domain.NewAPIError(422, "budget: field required")), 422, "budget: field required", ""},
		{"backend 401", domain.NewAPIError(401, "Could not validate credentials"), 401, "Could not validate credentials", domain.RouteLogin},
		{"backend 403", domain.NewAPIError(403, "Not enough permissions"), 401, "Not enough permissions", domain.RouteLogin},
		{"unauthenticated", domain.ErrUnauthenticated, 401, domain.ErrUnauthenticated.Error(), domain.RouteLogin},
		{"forbidden", domain.ErrForbidden, 403, domain.ErrForbidden.Error(), ""},
		{"login failed", domain.ErrLoginFailed, 502, "Ошибка при входе", ""},
		{"transport", wrappedTransport{errors.New("connection refused")}, 502, domain.ErrBackendUnavailable.Error(), ""},
		{"closed session", domain.ErrSessionClosed, 503, "session expired, retry the request", ""},
		{"cancelled", context.Canceled, 499, "request cancelled", ""},
		{"cancelled backend call", wrappedTransport{fmt.Errorf("do request: %w", context.Canceled)}, 499, "request cancelled", ""},
		{"unexpected", errors.New("boom"), 500, "internal server error", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := renderError(t, tc.err, nil)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if resp.Error != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, resp.Error)
			}
			if resp.Redirect != tc.redirect {
				t.Fatalf("expected redirect %q, got %q", tc.redirect, resp.Redirect)
			}
		})
	}
}

func TestHTTPErrorHandler_BackendAuthErrorLogsOut(t *testing.T) {
	sess := &logoutCounter{}
	ws := &ports.Workspace{Session: sess}

	renderError(t, domain.NewAPIError(401, "expired"), ws)
	if sess.calls != 1 {
		t.Fatalf("expected one logout, got %d", sess.calls)
	}

	renderError(t, domain.NewAPIError(404, "missing"), ws)
	if sess.calls != 1 {
		t.Fatalf("non-auth errors must not log out, got %d calls", sess.calls)
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/projects", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusForbidden || rec.Body.Len() != 0 {
		t.Fatalf("expected bodiless 403, got %d %q", rec.Code, rec.Body.String())
	}
}
