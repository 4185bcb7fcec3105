package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/core/ports"
)

const (
	// ContextSID holds the browser session id.
	ContextSID = "sid"
	// ContextWorkspace holds the *ports.Workspace of the browser session.
	ContextWorkspace = "workspace"

	cookieIssuer = "work21-portal"
)

// CookieConfig describes the signed browser-session cookie.
type CookieConfig struct {
	Name   string
	Secret []byte
	Secure bool
	MaxAge time.Duration
}

// BrowserSession identifies the browser by a signed session cookie, issuing a
// fresh one when it is missing, forged or expired, and mounts the matching
// workspace into the echo context. The cookie is re-issued once half of its
// lifetime has passed.
func BrowserSession(cfg CookieConfig, resolver ports.WorkspaceResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			sid, issuedAt, err := readSessionCookie(c, cfg)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					log.Debug().Err(err).Msg("discarding invalid session cookie")
				}
				sid = uuid.NewString()
			}

			if err != nil || now.Sub(issuedAt) > cfg.MaxAge/2 {
				cookie, err := SignSessionCookie(cfg, sid, now)
				if err != nil {
					return err
				}
				c.SetCookie(cookie)
			}

			ws, err := resolver.Resolve(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			c.Set(ContextSID, sid)
			c.Set(ContextWorkspace, ws)
			return next(c)
		}
	}
}

// SignSessionCookie builds the cookie carrying sid.
func SignSessionCookie(cfg CookieConfig, sid string, now time.Time) (*http.Cookie, error) {
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Issuer:    cookieIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.MaxAge)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(cfg.MaxAge),
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func readSessionCookie(c echo.Context, cfg CookieConfig) (string, time.Time, error) {
	cookie, err := c.Cookie(cfg.Name)
	if err != nil {
		return "", time.Time{}, err
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(cookieIssuer))
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", time.Time{}, err
	}

	var issued time.Time
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	return claims.ID, issued, nil
}

// Workspace returns the workspace mounted by BrowserSession.
func Workspace(c echo.Context) (*ports.Workspace, bool) {
	ws, ok := c.Get(ContextWorkspace).(*ports.Workspace)
	return ws, ok && ws != nil
}
