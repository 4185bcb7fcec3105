package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

type stubSession struct {
	ports.SessionService
	state domain.SessionState
}

func (s *stubSession) Snapshot() domain.SessionState { return s.state }

type stubResolver struct {
	sids []string
	ws   *ports.Workspace
}

func (r *stubResolver) Resolve(_ context.Context, sid string) (*ports.Workspace, error) {
	r.sids = append(r.sids, sid)
	return r.ws, nil
}

var testCookie = CookieConfig{Name: "work21_sid", Secret: []byte("0123456789abcdef0123456789abcdef"), MaxAge: time.Hour}

func runSession(t *testing.T, r *stubResolver, cookie *http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := BrowserSession(testCookie, r, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, c
}

func TestBrowserSession_IssuesCookie(t *testing.T) {
	r := &stubResolver{ws: &ports.Workspace{}}
	rec, c := runSession(t, r, nil)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "work21_sid" || !cookies[0].HttpOnly {
		t.Fatalf("expected one http-only session cookie, got %+v", cookies)
	}
	if len(r.sids) != 1 || c.Get(ContextSID) != r.sids[0] {
		t.Fatalf("sid not propagated: %v vs %v", r.sids, c.Get(ContextSID))
	}
	if ws, ok := Workspace(c); !ok || ws != r.ws {
		t.Fatal("workspace not set in context")
	}
}

func TestBrowserSession_ReusesValidCookie(t *testing.T) {
	r := &stubResolver{ws: &ports.Workspace{}}
	cookie, err := SignSessionCookie(testCookie, "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11", time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec, _ := runSession(t, r, cookie)
	if r.sids[0] != "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11" {
		t.Fatalf("expected sid reused, got %s", r.sids[0])
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("fresh cookie must not be re-issued")
	}
}

func TestBrowserSession_RefreshesAgingCookie(t *testing.T) {
	r := &stubResolver{ws: &ports.Workspace{}}
	sid := "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11"
	cookie, _ := SignSessionCookie(testCookie, sid, time.Now().Add(-40*time.Minute))

	rec, _ := runSession(t, r, cookie)
	if r.sids[0] != sid {
		t.Fatalf("expected sid kept, got %s", r.sids[0])
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected cookie re-issued")
	}
}

func TestBrowserSession_RejectsForgedCookie(t *testing.T) {
	r := &stubResolver{ws: &ports.Workspace{}}
	forgedCfg := testCookie
	forgedCfg.Secret = []byte("another-secret-another-secret-xx")
	cookie, _ := SignSessionCookie(forgedCfg, "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11", time.Now())

	rec, _ := runSession(t, r, cookie)
	if r.sids[0] == "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11" {
		t.Fatal("forged sid must not be trusted")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected a new cookie")
	}
}

func TestBrowserSession_RejectsExpiredCookie(t *testing.T) {
	r := &stubResolver{ws: &ports.Workspace{}}
	cookie, _ := SignSessionCookie(testCookie, "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11", time.Now().Add(-2*time.Hour))

	runSession(t, r, cookie)
	if r.sids[0] == "3f1c1a8e-8b7b-4c56-9d7a-2d3a1f0e9b11" {
		t.Fatal("expired sid must not be trusted")
	}
}

func runRole(t *testing.T, state domain.SessionState, roles ...domain.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(ContextWorkspace, &ports.Workspace{Session: &stubSession{state: state}})

	called := false
	h := RequireRole(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRequireRole(t *testing.T) {
	customer := domain.SessionState{Phase: domain.PhaseAuthenticated, User: &domain.User{ID: 1, Role: domain.RoleCustomer}}
	anon := domain.SessionState{Phase: domain.PhaseAnonymous}

	if rec, called := runRole(t, customer, domain.RoleCustomer); !called || rec.Code != http.StatusOK {
		t.Fatalf("customer must pass, got %d", rec.Code)
	}
	if rec, called := runRole(t, customer, domain.RoleStudent); called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, called := runRole(t, customer); !called {
		t.Fatal("any logged-in user must pass without roles")
	}

	rec, called := runRole(t, anon)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"redirect":"/login"`) {
		t.Fatalf("expected login redirect, got %s", body)
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2, zerolog.Nop())
	e := echo.New()
	h := l.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	other := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(other, rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("other IP must not be throttled, got %d", rec.Code)
	}

	if n := l.Cleanup(time.Now()); n != 0 {
		t.Fatalf("drained buckets must be kept, removed %d", n)
	}
	if n := l.Cleanup(time.Now().Add(time.Hour)); n != 2 {
		t.Fatalf("expected 2 refilled buckets removed, got %d", n)
	}
}

func TestMetrics_RendersHandlerError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	c.SetPath("/x")

	h := Metrics()(func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})
	if err := h(c); err != nil {
		t.Fatalf("expected error to be rendered, got %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}
