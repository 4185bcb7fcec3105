package ports

import (
	"context"

	"github.com/work21/portal/internal/core/domain"
)

// SessionService is the session store as seen by the page layer.
type SessionService interface {
	Init(ctx context.Context) domain.Transition
	Snapshot() domain.SessionState
	Login(ctx context.Context, email, password string) (domain.Transition, error)
	Register(ctx context.Context, in domain.RegisterInput) (domain.Transition, error)
	Logout(ctx context.Context) domain.Transition
	RefreshUser(ctx context.Context) (domain.Transition, error)
}

// Workspace is everything a page handler needs for one browser session.
type Workspace struct {
	Session SessionService
	Backend Backend
	Storage LocalStorage
}

// WorkspaceResolver returns the workspace of a browser session id, mounting it
// on first use.
type WorkspaceResolver interface {
	Resolve(ctx context.Context, sid string) (*Workspace, error)
}
