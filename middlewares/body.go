package middlewares

import (
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrymomot/awesome/internal"
)

// Body parses JSON and form POST bodies before dispatch, so a malformed body
// is rejected with 400 even for endpoints taking no arguments. Other content
// types pass through untouched; routes that read keyword arguments from the
// body report them during binding.
func Body() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if r.Method == http.MethodPost && parsableBody(r.Header.Get("Content-Type")) {
				body, err := c.Body()
				if err != nil {
					return err
				}
				c.LogDebug("request body", "fields", len(body))
			}
			return next(c)
		}
	}
}

func parsableBody(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return true
	case mediaType == "application/x-www-form-urlencoded", mediaType == "multipart/form-data":
		return true
	}
	return false
}
