package middlewares

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/awesome/internal"
	"github.com/dmitrymomot/awesome/pkg/session"
)

// SessionDecoder resolves a session token to a user.
type SessionDecoder interface {
	Decode(ctx context.Context, token string) (*session.Principal, error)
}

type sessionConfig struct {
	extractor internal.Extractor
	cookie    string
}

// SessionOption configures the Session middleware.
type SessionOption func(*sessionConfig)

// WithSessionCookie sets the cookie name read and cleared by Session.
func WithSessionCookie(name string) SessionOption {
	return func(cfg *sessionConfig) {
		if name != "" {
			cfg.cookie = name
			cfg.extractor = internal.NewExtractor(internal.FromCookie(name))
		}
	}
}

// WithSessionExtractor sets where the token is read from, e.g. a bearer
// token for API clients.
func WithSessionExtractor(sources ...internal.ExtractorSource) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.extractor = internal.NewExtractor(sources...)
	}
}

// Session resolves the session token into the request user. Requests with
// no token, or with one that fails verification, continue anonymously. A
// cookie that can never verify again is cleared.
func Session(dec SessionDecoder, opts ...SessionOption) internal.Middleware {
	cfg := &sessionConfig{
		cookie:    session.CookieName,
		extractor: internal.NewExtractor(internal.FromCookie(session.CookieName)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			token, ok := cfg.extractor.Extract(c)
			if !ok {
				return next(c)
			}

			user, err := dec.Decode(c, token)
			switch {
			case err == nil:
				c.SetUser(user)
				c.LogDebug("set current user", slog.String("user_id", user.ID))
			case errors.Is(err, session.ErrLookupFailed):
				c.LogError("session lookup failed", slog.String("error", err.Error()))
			default:
				c.LogDebug("invalid session", slog.String("error", err.Error()))
				if _, cerr := c.Cookie(cfg.cookie); cerr == nil {
					c.DeleteCookie(cfg.cookie)
				}
			}

			return next(c)
		}
	}
}
