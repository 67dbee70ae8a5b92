package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/awesome/internal"
)

// Guard redirects requests under prefix to signin unless the user is an admin.
//
//	middlewares.Guard("/manage/", "/signin")
func Guard(prefix, signin string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, prefix) && !c.IsAdmin() {
				c.LogInfo("admin area denied", "path", c.Request().URL.Path)
				return c.Redirect(http.StatusFound, signin)
			}
			return next(c)
		}
	}
}
