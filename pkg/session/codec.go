package session

import (
	"context"
	"crypto/sha1" //nolint:gosec // token digest format
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/logger"
)

// CookieName is the cookie carrying the session token.
const CookieName = "awesession"

// DefaultMaxAge is how long an issued token stays valid.
const DefaultMaxAge = 24 * time.Hour

// LookupFunc loads a user by id. It returns ErrUnknownUser (or a nil
// Principal) when no such user exists.
type LookupFunc func(ctx context.Context, id string) (*Principal, error)

// Codec issues and verifies session tokens of the form
//
//	<id>-<expiry>-<sha1hex(<id>-<secret>-<expiry>-<key>)>
//
// where expiry is a unix timestamp in seconds, secret is the user's
// Principal.Secret and key is the application session key.
type Codec struct {
	key      string
	lookup   LookupFunc
	users    cache.Cache[Principal]
	cacheTTL time.Duration
	maxAge   time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithCache puts a cache in front of LookupFunc.
func WithCache(c cache.Cache[Principal], ttl time.Duration) Option {
	return func(cd *Codec) {
		cd.users = c
		cd.cacheTTL = ttl
	}
}

// WithMaxAge sets the lifetime of issued tokens.
func WithMaxAge(d time.Duration) Option {
	return func(cd *Codec) {
		if d > 0 {
			cd.maxAge = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(cd *Codec) {
		if now != nil {
			cd.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cd *Codec) {
		if l != nil {
			cd.log = l
		}
	}
}

// NewCodec creates a Codec signing with key and resolving users with lookup.
func NewCodec(key string, lookup LookupFunc, opts ...Option) *Codec {
	c := &Codec{
		key:    key,
		lookup: lookup,
		maxAge: DefaultMaxAge,
		now:    time.Now,
		log:    logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxAge returns the lifetime of issued tokens.
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode issues a token for p valid for MaxAge.
func (c *Codec) Encode(p *Principal) string {
	return c.EncodeUntil(p, c.now().Add(c.maxAge))
}

// EncodeUntil issues a token for p expiring at the given time.
func (c *Codec) EncodeUntil(p *Principal, expires time.Time) string {
	expiry := strconv.FormatInt(expires.Unix(), 10)
	return p.ID + "-" + expiry + "-" + c.digest(p.ID, p.Secret, expiry)
}

// Decode verifies a token and returns the user it names. The returned
// Principal has Secret cleared.
func (c *Codec) Decode(ctx context.Context, token string) (*Principal, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return nil, ErrMalformed
	}
	id, expiry, sum := parts[0], parts[1], parts[2]

	exp, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if exp < c.now().Unix() {
		return nil, ErrExpired
	}

	p, err := c.user(ctx, id)
	if err != nil {
		return nil, err
	}

	want := c.digest(id, p.Secret, expiry)
	if subtle.ConstantTimeCompare([]byte(sum), []byte(want)) != 1 {
		c.log.WarnContext(ctx, "invalid session digest", slog.String("user_id", id))
		return nil, ErrDigestMismatch
	}

	p.Secret = ""
	return &p, nil
}

// Forget drops a cached user so the next Decode reloads it.
func (c *Codec) Forget(ctx context.Context, id string) error {
	if c.users == nil {
		return nil
	}
	return c.users.Delete(ctx, id)
}

func (c *Codec) user(ctx context.Context, id string) (Principal, error) {
	load := func(ctx context.Context) (Principal, time.Duration, error) {
		p, err := c.lookup(ctx, id)
		switch {
		case errors.Is(err, ErrUnknownUser):
			return Principal{}, 0, ErrUnknownUser
		case err != nil:
			return Principal{}, 0, errors.Join(ErrLookupFailed, err)
		case p == nil:
			return Principal{}, 0, ErrUnknownUser
		}
		return *p, c.cacheTTL, nil
	}

	if c.users == nil {
		p, _, err := load(ctx)
		return p, err
	}
	return cache.GetOrSet(ctx, c.users, id, load)
}

func (c *Codec) digest(id, secret, expiry string) string {
	sum := sha1.Sum([]byte(id + "-" + secret + "-" + expiry + "-" + c.key))
	return hex.EncodeToString(sum[:])
}
