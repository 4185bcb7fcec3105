package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/api/metrics"
	"github.com/work21/portal/internal/core/ports"
)

// BackendFactory builds a backend client that authenticates with the token
// kept in ls.
type BackendFactory func(ls ports.LocalStorage) ports.Backend

// WorkspaceRegistry mounts one session store per browser session id. A
// workspace is created and initialised on first use and unmounted after it
// has been idle for the configured duration.
type WorkspaceRegistry struct {
	storage ports.StorageProvider
	backend BackendFactory
	idle    time.Duration
	log     zerolog.Logger
	now     func() time.Time
	// unmounted is called, under mu, with every sid Sweep removes.
	unmounted func(sid string)

	mu      sync.Mutex
	entries map[string]*workspaceEntry
	closed  bool
}

type workspaceEntry struct {
	ws       *ports.Workspace
	session  *SessionService
	init     sync.Once
	lastSeen time.Time
}

var _ ports.WorkspaceResolver = (*WorkspaceRegistry)(nil)

func NewWorkspaceRegistry(storage ports.StorageProvider, backend BackendFactory, idle time.Duration, log zerolog.Logger) *WorkspaceRegistry {
	return &WorkspaceRegistry{
		storage: storage,
		backend: backend,
		idle:    idle,
		log:     log.With().Str("component", "workspaces").Logger(),
		now:     time.Now,
		entries: make(map[string]*workspaceEntry),
	}
}

// Resolve returns the workspace of sid. The first caller for a new sid runs
// the session Init; concurrent callers wait for it to finish.
func (r *WorkspaceRegistry) Resolve(ctx context.Context, sid string) (*ports.Workspace, error) {
	if sid == "" {
		return nil, errors.New("workspace: empty session id")
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, errors.New("workspace: registry closed")
	}
	e, ok := r.entries[sid]
	if !ok {
		e = r.mount(sid)
		r.entries[sid] = e
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	// Init must not be cut short by a cancelled request: a transport failure
	// would purge a perfectly valid token.
	e.init.Do(func() {
		tr := e.session.Init(context.WithoutCancel(ctx))
		r.log.Debug().Str("sid", sid).Str("phase", string(tr.State.Phase)).Msg("workspace mounted")
	})
	return e.ws, nil
}

func (r *WorkspaceRegistry) mount(sid string) *workspaceEntry {
	ls := r.storage.Scope(sid)
	be := r.backend(ls)
	session := NewSessionService(be, ls, r.log)
	metrics.WorkspacesActive.Inc()
	return &workspaceEntry{
		ws:      &ports.Workspace{Session: session, Backend: be, Storage: ls},
		session: session,
	}
}

// OnUnmount registers fn to be called with the sid of every workspace Sweep
// unmounts. fn runs with the registry locked, so a Resolve of the same sid
// mounts only after fn returns; fn must not call back into the registry.
// Must be called before Run.
func (r *WorkspaceRegistry) OnUnmount(fn func(sid string)) {
	r.unmounted = fn
}

// Len returns the number of mounted workspaces.
func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep unmounts workspaces idle for longer than the idle timeout and returns
// how many were removed. Storage is left in place unless an OnUnmount hook
// discards it, so a returning browser restores its session.
func (r *WorkspaceRegistry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sid, e := range r.entries {
		if !e.lastSeen.Before(cutoff) {
			continue
		}
		e.session.Close()
		delete(r.entries, sid)
		metrics.WorkspacesActive.Dec()
		if r.unmounted != nil {
			r.unmounted(sid)
		}
		removed++
	}
	return removed
}

// Run sweeps idle workspaces until ctx is done.
func (r *WorkspaceRegistry) Run(ctx context.Context) {
	if r.idle <= 0 {
		return
	}
	interval := r.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info().Int("removed", n).Int("active", r.Len()).Msg("idle workspaces unmounted")
			}
		}
	}
}

// Shutdown closes every mounted session store and rejects further Resolve calls.
func (r *WorkspaceRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for sid, e := range r.entries {
		e.session.Close()
		delete(r.entries, sid)
		metrics.WorkspacesActive.Dec()
	}
	r.closed = true
}
