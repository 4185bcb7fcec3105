package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/api/metrics"
	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

// SessionService owns the authenticated user and the persisted credential
// token of one client. Operations return a Transition carrying the resulting
// state and the navigation the caller should perform.
//
// The mutex guards the in-memory state only. Backend and storage calls run
// outside of it, so concurrent Login calls are not sequenced and the last
// write to the user wins.
type SessionService struct {
	backend ports.AuthBackend
	storage ports.LocalStorage
	log     zerolog.Logger

	mu     sync.Mutex
	state  domain.SessionState
	closed bool
}

var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService returns a store in the Unknown phase. Call Init to restore
// a persisted session.
func NewSessionService(backend ports.AuthBackend, storage ports.LocalStorage, log zerolog.Logger) *SessionService {
	return &SessionService{
		backend: backend,
		storage: storage,
		log:     log.With().Str("component", "session").Logger(),
		state:   domain.SessionState{Phase: domain.PhaseUnknown, IsLoading: true},
	}
}

// Snapshot returns a copy of the current state.
func (s *SessionService) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Init restores the session from the stored token. Without a token the store
// becomes Anonymous with no backend call; a token the backend rejects is
// purged.
func (s *SessionService) Init(ctx context.Context) domain.Transition {
	if s.isClosed() {
		return domain.Transition{State: s.Snapshot()}
	}

	token, ok := s.token(ctx)
	if !ok || token == "" {
		return s.finish("init", s.settle(nil))
	}

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("stored token rejected, starting anonymous")
		s.removeToken(ctx)
		return s.finish("init", s.settle(nil))
	}
	return s.finish("init", s.settle(user))
}

// Login exchanges credentials for a token, persists it, then fetches the
// current user. Backend rejections are returned as *domain.APIError; any other
// failure becomes domain.ErrLoginFailed.
//
// The two steps are not atomic: when the user fetch fails the token stays
// stored while the user remains unset.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Transition, error) {
	if !s.begin() {
		return domain.Transition{State: s.Snapshot()}, domain.ErrSessionClosed
	}

	tok, err := s.backend.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return s.fail("login", s.loginError(err, "login request failed"))
	}

	if err := s.storage.Set(ctx, domain.TokenKey, tok.AccessToken); err != nil {
		return s.fail("login", s.loginError(err, "persist token failed"))
	}

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		return s.fail("login", s.loginError(err, "fetch current user after login failed"))
	}

	tr := s.settle(user)
	tr.Navigate = domain.RouteDashboard
	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("logged in")
	return s.finish("login", tr), nil
}

// Register creates an account and then logs in with the same credentials.
// The login outcome is returned unchanged.
func (s *SessionService) Register(ctx context.Context, in domain.RegisterInput) (domain.Transition, error) {
	if !s.begin() {
		return domain.Transition{State: s.Snapshot()}, domain.ErrSessionClosed
	}

	if _, err := s.backend.Register(ctx, in); err != nil {
		if _, ok := domain.AsAPIError(err); !ok {
			s.log.Error().Err(err).Msg("register request failed")
			err = domain.ErrRegisterFailed
		}
		return s.fail("register", err)
	}

	return s.Login(ctx, in.Email, in.Password)
}

// Logout purges the stored token and clears the user. Storage failures are
// logged, never returned.
func (s *SessionService) Logout(ctx context.Context) domain.Transition {
	if s.isClosed() {
		return domain.Transition{State: s.Snapshot()}
	}
	s.removeToken(ctx)
	tr := s.settle(nil)
	tr.Navigate = domain.RouteLanding
	return s.finish("logout", tr)
}

// RefreshUser re-fetches the current user. Any failure logs the client out and
// the cause is returned alongside the logout transition.
//
// The fetch ignores cancellation of ctx: an aborted caller must not turn into
// a transport failure that purges a valid token. The backend client timeout
// still bounds it.
func (s *SessionService) RefreshUser(ctx context.Context) (domain.Transition, error) {
	if s.isClosed() {
		return domain.Transition{State: s.Snapshot()}, domain.ErrSessionClosed
	}
	ctx = context.WithoutCancel(ctx)

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("refresh failed, logging out")
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "error").Inc()
		return s.Logout(ctx), err
	}
	return s.finish("refresh", s.settle(user)), nil
}

// Close ends the store lifecycle. Later operations leave the state untouched
// and, where they can fail, return domain.ErrSessionClosed.
func (s *SessionService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *SessionService) loginError(err error, msg string) error {
	if _, ok := domain.AsAPIError(err); ok {
		return err
	}
	s.log.Error().Err(err).Msg(msg)
	return domain.ErrLoginFailed
}

// begin marks the store as loading. It reports false once closed.
func (s *SessionService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.state.IsLoading = true
	return true
}

// fail clears the loading flag and keeps whatever user is held.
func (s *SessionService) fail(op string, err error) (domain.Transition, error) {
	s.mu.Lock()
	s.state.IsLoading = false
	if s.state.User == nil {
		s.state.Phase = domain.PhaseAnonymous
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(op, "error").Inc()
	return domain.Transition{State: st}, err
}

// settle stores user (nil for anonymous) and leaves the loading phase.
func (s *SessionService) settle(user *domain.User) domain.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.User = user
	s.state.IsLoading = false
	if user != nil {
		s.state.Phase = domain.PhaseAuthenticated
	} else {
		s.state.Phase = domain.PhaseAnonymous
	}
	return domain.Transition{State: s.snapshotLocked()}
}

func (s *SessionService) finish(op string, tr domain.Transition) domain.Transition {
	metrics.SessionTransitionsTotal.WithLabelValues(op, string(tr.State.Phase)).Inc()
	return tr
}

func (s *SessionService) snapshotLocked() domain.SessionState {
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *SessionService) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *SessionService) token(ctx context.Context) (string, bool) {
	token, ok, err := s.storage.Get(ctx, domain.TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read stored token failed")
		return "", false
	}
	return token, ok
}

func (s *SessionService) removeToken(ctx context.Context) {
	if err := s.storage.Remove(ctx, domain.TokenKey); err != nil {
		s.log.Warn().Err(err).Msg("remove stored token failed")
	}
}
