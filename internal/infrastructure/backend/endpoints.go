package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

var _ ports.Backend = (*Client)(nil)

// --- Auth & users ---

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AccessToken, error) {
	return call[domain.AccessToken](ctx, c, http.MethodPost, "/auth/login", creds)
}

func (c *Client) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	return call[domain.User](ctx, c, http.MethodPost, "/auth/register", in)
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	return call[domain.User](ctx, c, http.MethodGet, "/users/me", nil)
}

func (c *Client) UpdateCurrentUser(ctx context.Context, in domain.ProfileUpdate) (*domain.User, error) {
	return call[domain.User](ctx, c, http.MethodPatch, "/users/me", in)
}

func (c *Client) ListStudents(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "/users/students")
}

func (c *Client) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return call[domain.User](ctx, c, http.MethodGet, "/users/"+id(userID), nil)
}

// --- Projects ---

func (c *Client) ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	path := "/projects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return list[domain.Project](ctx, c, path)
}

func (c *Client) GetProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return call[domain.Project](ctx, c, http.MethodGet, "/projects/"+id(projectID), nil)
}

func (c *Client) CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	return call[domain.Project](ctx, c, http.MethodPost, "/projects", in)
}

func (c *Client) UpdateProject(ctx context.Context, projectID int64, in domain.ProjectInput) (*domain.Project, error) {
	return call[domain.Project](ctx, c, http.MethodPatch, "/projects/"+id(projectID), in)
}

func (c *Client) PublishProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return c.projectAction(ctx, projectID, "publish", nil)
}

func (c *Client) CompleteProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return c.projectAction(ctx, projectID, "complete", nil)
}

func (c *Client) RequestReview(ctx context.Context, projectID int64) (*domain.Project, error) {
	return c.projectAction(ctx, projectID, "request-review", nil)
}

func (c *Client) AssignProject(ctx context.Context, projectID, studentID int64) (*domain.Project, error) {
	return c.projectAction(ctx, projectID, "assign", map[string]int64{"student_id": studentID})
}

func (c *Client) projectAction(ctx context.Context, projectID int64, action string, body any) (*domain.Project, error) {
	return call[domain.Project](ctx, c, http.MethodPost, "/projects/"+id(projectID)+"/"+action, body)
}

// --- Tasks ---

func (c *Client) ListTasks(ctx context.Context, projectID int64) ([]domain.Task, error) {
	return list[domain.Task](ctx, c, "/projects/"+id(projectID)+"/tasks")
}

func (c *Client) CreateTask(ctx context.Context, projectID int64, in domain.TaskInput) (*domain.Task, error) {
	return call[domain.Task](ctx, c, http.MethodPost, "/projects/"+id(projectID)+"/tasks", in)
}

func (c *Client) UpdateTask(ctx context.Context, projectID, taskID int64, in domain.TaskInput) (*domain.Task, error) {
	return call[domain.Task](ctx, c, http.MethodPatch, "/projects/"+id(projectID)+"/tasks/"+id(taskID), in)
}

func (c *Client) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	return c.Do(ctx, http.MethodDelete, "/projects/"+id(projectID)+"/tasks/"+id(taskID), nil, nil)
}

// --- Applications ---

func (c *Client) ListApplications(ctx context.Context, projectID int64) ([]domain.Application, error) {
	return list[domain.Application](ctx, c, "/projects/"+id(projectID)+"/applications")
}

func (c *Client) Apply(ctx context.Context, projectID int64, in domain.ApplicationInput) (*domain.Application, error) {
	return call[domain.Application](ctx, c, http.MethodPost, "/projects/"+id(projectID)+"/apply", in)
}

// --- Ratings ---

func (c *Client) UserRatings(ctx context.Context, userID int64) ([]domain.Rating, error) {
	return list[domain.Rating](ctx, c, "/ratings/user/"+id(userID))
}

func (c *Client) CreateRating(ctx context.Context, in domain.RatingInput) (*domain.Rating, error) {
	return call[domain.Rating](ctx, c, http.MethodPost, "/ratings", in)
}

// --- Estimator ---

func (c *Client) Estimate(ctx context.Context, description string) (*domain.Estimate, error) {
	return call[domain.Estimate](ctx, c, http.MethodPost, "/estimator/estimate", domain.EstimateRequest{Description: description})
}
