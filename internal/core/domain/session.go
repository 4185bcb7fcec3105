package domain

// Phase is the session state machine position.
type Phase string

const (
	PhaseUnknown       Phase = "unknown"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAnonymous     Phase = "anonymous"
)

// Route is a client-side navigation target requested by a session transition.
type Route string

const (
	RouteNone      Route = ""
	RouteLanding   Route = "/"
	RouteLogin     Route = "/login"
	RouteDashboard Route = "/dashboard"
)

// SessionState is the observable part of a session.
type SessionState struct {
	Phase     Phase `json:"phase"`
	User      *User `json:"user"`
	IsLoading bool  `json:"is_loading"`
}

// Authenticated reports whether a user is held.
func (s SessionState) Authenticated() bool {
	return s.User != nil
}

// Transition is the result of a session operation: the new state plus the
// navigation the caller should perform, if any.
type Transition struct {
	State    SessionState `json:"state"`
	Navigate Route        `json:"redirect,omitempty"`
}

const (
	// TokenKey is the client-local storage key of the credential token.
	TokenKey = "access_token"
	// ThemeKey is the client-local storage key of the theme preference.
	ThemeKey = "theme"
)

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates a stored or submitted theme value.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", ErrInvalidTheme
}
