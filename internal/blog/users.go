package blog

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/pkg/id"
	"github.com/dmitrymomot/awesome/pkg/orm"
	"github.com/dmitrymomot/awesome/pkg/session"
)

var (
	emailPattern  = regexp.MustCompile(`^[a-z0-9.\-_]+@[a-z0-9\-_]+(\.[a-z0-9\-_]+){1,4}$`)
	passwdPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)
)

const hiddenPasswd = "******"

// LookupUser resolves session identities from the users table.
func LookupUser(ex orm.Executor) session.LookupFunc {
	return func(ctx context.Context, id string) (*session.Principal, error) {
		u, err := Users.Find(ctx, ex, id)
		if errors.Is(err, orm.ErrNotFound) {
			return nil, session.ErrUnknownUser
		}
		if err != nil {
			return nil, err
		}
		return u.Principal(), nil
	}
}

// PasswordHash is the stored form of a client password digest.
func PasswordHash(userID, passwd string) string {
	sum := sha1.Sum([]byte(userID + ":" + passwd))
	return hex.EncodeToString(sum[:])
}

func gravatar(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("http://www.gravatar.com/avatar/%x?d=mm&s=120", sum)
}

func publicUser(u *User) *User {
	cp := *u
	cp.Passwd = hiddenPasswd
	return &cp
}

func (h *Handler) index(ctx context.Context, args awesome.Args) (any, error) {
	p, blogs, err := listPage(ctx, h.pool, Blogs, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	users, err := Users.FindAll(ctx, h.pool, orm.OrderBy("`created_at` desc"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		awesome.TemplateKey: "index.html",
		"page":              p,
		"blogs":             blogs,
		"users":             users,
	}, nil
}

// page serves a template without data.
func (h *Handler) page(name string) awesome.Endpoint {
	return func(context.Context, awesome.Args) (any, error) {
		return map[string]any{awesome.TemplateKey: name}, nil
	}
}

func (h *Handler) signin(c awesome.Context, u *User) {
	token := h.codec.Encode(u.Principal())
	c.SetCookie(session.CookieName, token, int(h.codec.MaxAge()/time.Second))
}

func (h *Handler) authenticate(ctx context.Context, args awesome.Args) (any, error) {
	email := strings.ToLower(strings.TrimSpace(args.String("email")))
	passwd := args.String("passwd")
	if email == "" {
		return nil, awesome.ValueError("email", "Invalid email.")
	}
	if passwd == "" {
		return nil, awesome.ValueError("passwd", "Invalid password.")
	}

	users, err := Users.FindAll(ctx, h.pool, orm.Where("`email`=?", email), orm.Limit(1))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, awesome.ValueError("email", "Email not exist.")
	}
	u := users[0]
	if subtle.ConstantTimeCompare([]byte(u.Passwd), []byte(PasswordHash(u.ID, passwd))) != 1 {
		return nil, awesome.ValueError("passwd", "Invalid password.")
	}

	h.signin(args.Request(), u)
	h.log.InfoContext(ctx, "user signed in", "user_id", u.ID)
	return publicUser(u), nil
}

func (h *Handler) register(ctx context.Context, args awesome.Args) (any, error) {
	name := strings.TrimSpace(args.String("name"))
	email := strings.ToLower(strings.TrimSpace(args.String("email")))
	passwd := args.String("passwd")
	switch {
	case name == "":
		return nil, awesome.ValueError("name", "Name cannot be empty.")
	case !emailPattern.MatchString(email):
		return nil, awesome.ValueError("email", "Invalid email.")
	case !passwdPattern.MatchString(passwd):
		return nil, awesome.ValueError("passwd", "Invalid password.")
	}

	n, err := Users.Count(ctx, h.pool, orm.Where("`email`=?", email))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, awesome.ConflictError("email", "Email is already in use.")
	}

	uid := id.NextID()
	u := &User{
		ID:        uid,
		Email:     email,
		Passwd:    PasswordHash(uid, passwd),
		Name:      name,
		Image:     gravatar(email),
		CreatedAt: h.timestamp(),
	}
	if err := Users.Save(ctx, h.pool, u); err != nil {
		return nil, err
	}

	h.signin(args.Request(), u)
	h.log.InfoContext(ctx, "user registered", "user_id", u.ID)
	return publicUser(u), nil
}

func (h *Handler) signout(ctx context.Context, args awesome.Args) (any, error) {
	c := args.Request()
	c.DeleteCookie(session.CookieName)
	if u := c.User(); u != nil {
		if err := h.codec.Forget(ctx, u.ID); err != nil {
			h.log.WarnContext(ctx, "failed to forget cached user", "user_id", u.ID, "error", err)
		}
	}

	referer := c.Header("Referer")
	if referer == "" {
		referer = "/"
	}
	return awesome.RedirectPrefix + referer, nil
}

func (h *Handler) listUsers(ctx context.Context, args awesome.Args) (any, error) {
	p, users, err := listPage(ctx, h.pool, Users, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]*User, len(users))
	for i, u := range users {
		out[i] = publicUser(u)
	}
	return map[string]any{"page": p, "users": out}, nil
}

func (h *Handler) manageUsers(ctx context.Context, args awesome.Args) (any, error) {
	p, users, err := listPage(ctx, h.pool, Users, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		awesome.TemplateKey: "manage_users.html",
		"page":              p,
		"users":             users,
	}, nil
}

// listPage counts the matching rows and loads one page, newest first.
func listPage[T any](ctx context.Context, ex orm.Executor, m *orm.Model[T], index, size int, opts ...orm.QueryOption) (Page, []*T, error) {
	total, err := m.Count(ctx, ex, opts...)
	if err != nil {
		return Page{}, nil, err
	}
	p := NewPage(total, index, size)
	if p.Empty() {
		return p, []*T{}, nil
	}

	query := append(opts[:len(opts):len(opts)], orm.OrderBy("`created_at` desc"), orm.LimitOffset(p.Offset, p.Limit))
	items, err := m.FindAll(ctx, ex, query...)
	if err != nil {
		return Page{}, nil, err
	}
	return p, items, nil
}
