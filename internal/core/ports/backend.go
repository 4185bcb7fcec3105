package ports

import (
	"context"

	"github.com/work21/portal/internal/core/domain"
)

// AuthBackend is the part of the backend API the session store depends on.
type AuthBackend interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AccessToken, error)
	Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// Backend is the full REST surface of the WORK21 backend consumed by the pages.
// Every method returns *domain.APIError for non-2xx replies and a plain wrapped
// error for transport failures.
type Backend interface {
	AuthBackend

	UpdateCurrentUser(ctx context.Context, in domain.ProfileUpdate) (*domain.User, error)
	ListStudents(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, in domain.ProjectInput) (*domain.Project, error)
	PublishProject(ctx context.Context, id int64) (*domain.Project, error)
	CompleteProject(ctx context.Context, id int64) (*domain.Project, error)
	RequestReview(ctx context.Context, id int64) (*domain.Project, error)
	AssignProject(ctx context.Context, id, studentID int64) (*domain.Project, error)

	ListTasks(ctx context.Context, projectID int64) ([]domain.Task, error)
	CreateTask(ctx context.Context, projectID int64, in domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID int64, in domain.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID int64) error

	ListApplications(ctx context.Context, projectID int64) ([]domain.Application, error)
	Apply(ctx context.Context, projectID int64, in domain.ApplicationInput) (*domain.Application, error)

	UserRatings(ctx context.Context, userID int64) ([]domain.Rating, error)
	CreateRating(ctx context.Context, in domain.RatingInput) (*domain.Rating, error)

	Estimate(ctx context.Context, description string) (*domain.Estimate, error)
}
