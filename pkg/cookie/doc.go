// Package cookie writes and reads HTTP cookies with shared attributes.
//
// A Manager carries the domain, path and security flags applied to every
// cookie it writes:
//
//	m := cookie.New(cookie.WithSecure(true))
//	m.SetUntil(w, "session", token, time.Now().Add(30*24*time.Hour))
//
//	token, err := m.Get(r, "session")
//	if errors.Is(err, cookie.ErrNotFound) {
//		// anonymous request
//	}
//
// Values are stored as given. Integrity of the session token is handled by
// the session package.
package cookie
