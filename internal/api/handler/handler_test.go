package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/api/middleware"
	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

type stubSession struct {
	ports.SessionService
	state      domain.SessionState
	loginFn    func(email, password string) (domain.Transition, error)
	registerFn func(in domain.RegisterInput) (domain.Transition, error)
	refreshFn  func() (domain.Transition, error)
	logouts    int
	refreshes  int
}

func (s *stubSession) Snapshot() domain.SessionState { return s.state }

func (s *stubSession) Login(_ context.Context, email, password string) (domain.Transition, error) {
	return s.loginFn(email, password)
}

func (s *stubSession) Register(_ context.Context, in domain.RegisterInput) (domain.Transition, error) {
	return s.registerFn(in)
}

func (s *stubSession) Logout(context.Context) domain.Transition {
	s.logouts++
	return domain.Transition{State: domain.SessionState{Phase: domain.PhaseAnonymous}, Navigate: domain.RouteLanding}
}

func (s *stubSession) RefreshUser(context.Context) (domain.Transition, error) {
	s.refreshes++
	if s.refreshFn == nil {
		return domain.Transition{State: s.state}, nil
	}
	return s.refreshFn()
}

type stubBackend struct {
	ports.Backend
	listProjects func(f domain.ProjectFilter) ([]domain.Project, error)
	createProj   func(in domain.ProjectInput) (*domain.Project, error)
	deleteTask   func(projectID, taskID int64) error
	updateMe     func(in domain.ProfileUpdate) (*domain.User, error)
	createRating func(in domain.RatingInput) (*domain.Rating, error)
	estimate     func(description string) (*domain.Estimate, error)
	assign       func(projectID, studentID int64) (*domain.Project, error)
}

func (b *stubBackend) ListProjects(_ context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	return b.listProjects(f)
}

func (b *stubBackend) CreateProject(_ context.Context, in domain.ProjectInput) (*domain.Project, error) {
	return b.createProj(in)
}

func (b *stubBackend) DeleteTask(_ context.Context, projectID, taskID int64) error {
	return b.deleteTask(projectID, taskID)
}

func (b *stubBackend) UpdateCurrentUser(_ context.Context, in domain.ProfileUpdate) (*domain.User, error) {
	return b.updateMe(in)
}

func (b *stubBackend) CreateRating(_ context.Context, in domain.RatingInput) (*domain.Rating, error) {
	return b.createRating(in)
}

func (b *stubBackend) Estimate(_ context.Context, description string) (*domain.Estimate, error) {
	return b.estimate(description)
}

func (b *stubBackend) AssignProject(_ context.Context, projectID, studentID int64) (*domain.Project, error) {
	return b.assign(projectID, studentID)
}

type mapStorage map[string]string

func (m mapStorage) Get(_ context.Context, k string) (string, bool, error) {
	v, ok := m[k]
	return v, ok, nil
}

func (m mapStorage) Set(_ context.Context, k, v string) error {
	m[k] = v
	return nil
}

func (m mapStorage) Remove(_ context.Context, k string) error {
	delete(m, k)
	return nil
}

// newContext builds an echo context carrying ws, with the validator wired.
func newContext(ws *ports.Workspace, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextWorkspace, ws)
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

var customer = &domain.User{ID: 10, Email: "c@work21.ru", Role: domain.RoleCustomer}

func TestAuthHandler_Login_Success(t *testing.T) {
	sess := &stubSession{loginFn: func(email, password string) (domain.Transition, error) {
		if email != "a@b.com" || password != "secret" {
			t.Fatalf("unexpected args: %s %s", email, password)
		}
		return domain.Transition{
			State:    domain.SessionState{Phase: domain.PhaseAuthenticated, User: customer},
			Navigate: domain.RouteDashboard,
		}, nil
	}}
	c, rec := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"secret"}`)

	if err := NewAuthHandler().Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var tr domain.Transition
	decode(t, rec, &tr)
	if tr.Navigate != domain.RouteDashboard || tr.State.User == nil || tr.State.User.ID != 10 {
		t.Fatalf("unexpected transition %+v", tr)
	}
}

func TestAuthHandler_Login_BackendRejection(t *testing.T) {
	sess := &stubSession{loginFn: func(string, string) (domain.Transition, error) {
		return domain.Transition{}, domain.NewAPIError(401, "Invalid credentials")
	}}
	c, _ := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrong"}`)

	err := NewAuthHandler().Login(c)
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if err.(*echo.HTTPError).Message != "Invalid credentials" {
		t.Fatalf("unexpected message %v", err)
	}
}

func TestAuthHandler_Login_GenericFailurePassesThrough(t *testing.T) {
	sess := &stubSession{loginFn: func(string, string) (domain.Transition, error) {
		return domain.Transition{}, domain.ErrLoginFailed
	}}
	c, _ := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"pw"}`)

	if err := NewAuthHandler().Login(c); !errors.Is(err, domain.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	sess := &stubSession{loginFn: func(string, string) (domain.Transition, error) {
		t.Fatal("session must not be called")
		return domain.Transition{}, nil
	}}
	c, _ := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/login", `{"email":"nope","password":""}`)

	err := NewAuthHandler().Login(c)
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	msg := err.(*echo.HTTPError).Message.(string)
	if !strings.Contains(msg, "email must be a valid email") || !strings.Contains(msg, "password is required") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	var got domain.RegisterInput
	sess := &stubSession{registerFn: func(in domain.RegisterInput) (domain.Transition, error) {
		got = in
		return domain.Transition{Navigate: domain.RouteDashboard}, nil
	}}
	body := `{"email":"s@b.com","password":"secret1","first_name":"Ivan","last_name":"Petrov","role":"student"}`
	c, rec := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/register", body)

	if err := NewAuthHandler().Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Role != domain.RoleStudent || got.FirstName != "Ivan" {
		t.Fatalf("unexpected input %+v", got)
	}

	c, _ = newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/register",
		`{"email":"s@b.com","password":"secret1","first_name":"I","last_name":"P","role":"admin"}`)
	if code := httpCode(t, NewAuthHandler().Register(c)); code != http.StatusBadRequest {
		t.Fatalf("admin self-registration must be rejected, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	sess := &stubSession{}
	c, rec := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/auth/logout", "")

	if err := NewAuthHandler().Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var tr domain.Transition
	decode(t, rec, &tr)
	if sess.logouts != 1 || tr.Navigate != domain.RouteLanding {
		t.Fatalf("unexpected logout result %+v (calls %d)", tr, sess.logouts)
	}
}

func TestSessionHandler_RefreshFailureRedirects(t *testing.T) {
	sess := &stubSession{refreshFn: func() (domain.Transition, error) {
		return domain.Transition{State: domain.SessionState{Phase: domain.PhaseAnonymous}, Navigate: domain.RouteLanding},
			domain.NewAPIError(401, "expired")
	}}
	c, rec := newContext(&ports.Workspace{Session: sess}, http.MethodPost, "/session/refresh", "")

	if err := NewSessionHandler(zerolog.Nop()).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var tr domain.Transition
	decode(t, rec, &tr)
	if rec.Code != http.StatusOK || tr.Navigate != domain.RouteLanding {
		t.Fatalf("unexpected reply %d %+v", rec.Code, tr)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	sess := &stubSession{state: domain.SessionState{Phase: domain.PhaseAuthenticated, User: customer}}
	c, rec := newContext(&ports.Workspace{Session: sess}, http.MethodGet, "/session", "")

	if err := NewSessionHandler(zerolog.Nop()).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var st domain.SessionState
	decode(t, rec, &st)
	if st.Phase != domain.PhaseAuthenticated || st.User.Email != customer.Email {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestProfileHandler_UpdateRefreshesSession(t *testing.T) {
	sess := &stubSession{state: domain.SessionState{User: customer}}
	be := &stubBackend{updateMe: func(in domain.ProfileUpdate) (*domain.User, error) {
		if in.Bio == nil || *in.Bio != "hi" || in.FirstName != nil {
			t.Fatalf("unexpected update %+v", in)
		}
		u := *customer
		u.Bio = *in.Bio
		return &u, nil
	}}
	c, rec := newContext(&ports.Workspace{Session: sess, Backend: be}, http.MethodPatch, "/profile", `{"bio":"hi"}`)

	if err := NewProfileHandler(zerolog.Nop()).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || sess.refreshes != 1 {
		t.Fatalf("expected 200 and one refresh, got %d / %d", rec.Code, sess.refreshes)
	}

	c, _ = newContext(&ports.Workspace{Session: sess, Backend: be}, http.MethodPatch, "/profile", `{"github_url":"not a url"}`)
	if code := httpCode(t, NewProfileHandler(zerolog.Nop()).Update(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestProjectHandler_List(t *testing.T) {
	var got domain.ProjectFilter
	be := &stubBackend{listProjects: func(f domain.ProjectFilter) ([]domain.Project, error) {
		got = f
		return []domain.Project{{ID: 1, Title: "Landing", TechStack: domain.TechStack{"Go"}}}, nil
	}}
	ws := &ports.Workspace{Backend: be}

	c, rec := newContext(ws, http.MethodGet, "/projects?status=open&search=bot&limit=20&offset=40", "")
	if err := NewProjectHandler().List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Status != domain.ProjectOpen || got.Search != "bot" || got.Limit != 20 || got.Offset != 40 {
		t.Fatalf("unexpected filter %+v", got)
	}
	var projects []domain.Project
	decode(t, rec, &projects)
	if len(projects) != 1 || projects[0].TechStack[0] != "Go" {
		t.Fatalf("unexpected projects %+v", projects)
	}

	for _, q := range []string{"limit=abc", "limit=1000", "offset=-1"} {
		c, _ := newContext(ws, http.MethodGet, "/projects?"+q, "")
		if code := httpCode(t, NewProjectHandler().List(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, code)
		}
	}
}

func TestProjectHandler_Create(t *testing.T) {
	be := &stubBackend{createProj: func(in domain.ProjectInput) (*domain.Project, error) {
		return &domain.Project{ID: 5, Title: *in.Title, Budget: *in.Budget, TechStack: in.TechStack, Status: domain.ProjectDraft}, nil
	}}
	ws := &ports.Workspace{Backend: be}

	c, rec := newContext(ws, http.MethodPost, "/projects",
		`{"title":"Telegram bot","description":"A bot for orders and payments","budget":15000,"tech_stack":"Python, aiogram"}`)
	if err := NewProjectHandler().Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var p domain.Project
	decode(t, rec, &p)
	if p.ID != 5 || len(p.TechStack) != 2 || p.TechStack[1] != "aiogram" {
		t.Fatalf("unexpected project %+v", p)
	}

	c, _ = newContext(ws, http.MethodPost, "/projects", `{"title":"Only a title"}`)
	if code := httpCode(t, NewProjectHandler().Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestProjectHandler_PathIDAndBackendError(t *testing.T) {
	be := &stubBackend{assign: func(projectID, studentID int64) (*domain.Project, error) {
		return nil, domain.NewAPIError(404, "Проект не найден")
	}}
	ws := &ports.Workspace{Backend: be}

	c, _ := newContext(ws, http.MethodPost, "/projects/x/assign", `{"student_id":3}`)
	c.SetParamNames("id")
	c.SetParamValues("x")
	if code := httpCode(t, NewProjectHandler().Assign(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", code)
	}

	c, _ = newContext(ws, http.MethodPost, "/projects/7/assign", `{"student_id":3}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	err := NewProjectHandler().Assign(c)
	if apiErr, ok := domain.AsAPIError(err); !ok || apiErr.Status != 404 {
		t.Fatalf("expected backend 404 passed through, got %v", err)
	}
}

func TestProjectHandler_DeleteTask(t *testing.T) {
	be := &stubBackend{deleteTask: func(projectID, taskID int64) error {
		if projectID != 3 || taskID != 9 {
			t.Fatalf("unexpected ids %d %d", projectID, taskID)
		}
		return nil
	}}
	c, rec := newContext(&ports.Workspace{Backend: be}, http.MethodDelete, "/projects/3/tasks/9", "")
	c.SetParamNames("id", "task_id")
	c.SetParamValues("3", "9")

	if err := NewProjectHandler().DeleteTask(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_Rate(t *testing.T) {
	be := &stubBackend{createRating: func(in domain.RatingInput) (*domain.Rating, error) {
		return &domain.Rating{ID: 1, ProjectID: in.ProjectID, ToUserID: in.ToUserID, Score: in.Score}, nil
	}}
	ws := &ports.Workspace{Session: &stubSession{state: domain.SessionState{User: customer}}, Backend: be}

	c, rec := newContext(ws, http.MethodPost, "/ratings", `{"project_id":4,"to_user_id":11,"score":5}`)
	if err := NewUserHandler().Rate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	cases := []string{
		`{"project_id":4,"to_user_id":10,"score":5}`,
		`{"project_id":4,"to_user_id":11,"score":6}`,
	}
	for _, body := range cases {
		c, _ := newContext(ws, http.MethodPost, "/ratings", body)
		if code := httpCode(t, NewUserHandler().Rate(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, code)
		}
	}
}

func TestEstimatorHandler(t *testing.T) {
	price := 42000.0
	be := &stubBackend{estimate: func(description string) (*domain.Estimate, error) {
		return &domain.Estimate{Message: "Около двух недель", Price: &price}, nil
	}}
	ws := &ports.Workspace{Backend: be}

	c, rec := newContext(ws, http.MethodPost, "/estimator", `{"description":"Интернет-магазин с корзиной и оплатой"}`)
	if err := NewEstimatorHandler().Estimate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var est domain.Estimate
	decode(t, rec, &est)
	if est.Price == nil || *est.Price != price {
		t.Fatalf("unexpected estimate %+v", est)
	}

	c, _ = newContext(ws, http.MethodPost, "/estimator", `{"description":"short"}`)
	if code := httpCode(t, NewEstimatorHandler().Estimate(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestThemeHandler(t *testing.T) {
	store := mapStorage{}
	ws := &ports.Workspace{Storage: store}
	h := NewThemeHandler(zerolog.Nop())

	c, rec := newContext(ws, http.MethodGet, "/theme", "")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp themeResponse
	decode(t, rec, &resp)
	if resp.Theme != domain.ThemeSystem {
		t.Fatalf("expected system default, got %q", resp.Theme)
	}

	c, _ = newContext(ws, http.MethodPut, "/theme", `{"theme":"dark"}`)
	if err := h.Put(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if store[domain.ThemeKey] != "dark" {
		t.Fatalf("expected dark stored, got %q", store[domain.ThemeKey])
	}

	c, _ = newContext(ws, http.MethodPut, "/theme", `{"theme":"neon"}`)
	if code := httpCode(t, h.Put(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}

	store[domain.ThemeKey] = "garbage"
	c, rec = newContext(ws, http.MethodGet, "/theme", "")
	_ = h.Get(c)
	decode(t, rec, &resp)
	if resp.Theme != domain.ThemeSystem {
		t.Fatalf("unknown stored theme must read as system, got %q", resp.Theme)
	}
}

func TestMissingWorkspace(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/session", nil), httptest.NewRecorder())

	if code := httpCode(t, NewSessionHandler(zerolog.Nop()).Get(c)); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}
