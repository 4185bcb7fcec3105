package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrLoginFailed replaces any non-API failure during login.
	ErrLoginFailed = errors.New("Ошибка при входе")
	// ErrRegisterFailed replaces any non-API failure during registration.
	ErrRegisterFailed = errors.New("Ошибка при регистрации")
	// ErrBackendUnavailable is what the page layer shows for transport failures.
	ErrBackendUnavailable = errors.New("Сервис временно недоступен")
	// ErrSessionClosed is returned by a session store after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrUnauthenticated is returned for pages that need a logged-in user.
	ErrUnauthenticated = errors.New("Требуется вход в систему")
	// ErrForbidden is returned when the current role may not use a page action.
	ErrForbidden = errors.New("access forbidden")
	// ErrInvalidTheme rejects unknown theme preferences.
	ErrInvalidTheme = errors.New("invalid theme")
)

// APIError is a failure reported by the backend with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

// NewAPIError builds an APIError, falling back to the generic "Ошибка <status>" text.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("Ошибка %d", status)
	}
	return &APIError{Status: status, Message: message}
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuth reports whether the backend rejected the credential itself.
func (e *APIError) IsAuth() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AsAPIError unwraps err into an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError reports whether err is a 401/403 from the backend.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsAuth()
}
