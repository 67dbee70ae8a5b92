package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		ugcPolicy = bluemonday.UGCPolicy()
		ugcPolicy.RequireNoFollowOnLinks(true)
	})
}

// FuncMap returns the functions available to every template:
//
//	{{ .created_at | datetime }}  relative age of a unix timestamp
//	{{ .content | markdown }}     sanitized HTML from markdown
//	{{ .summary | plaintext }}    text with all markup removed
func FuncMap(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"datetime": func(ts any) string {
			return Datetime(ts, now())
		},
		"markdown":  Markdown,
		"plaintext": StripTags,
	}
}

// Datetime formats a unix timestamp as its age relative to now:
// "1 minute ago" under a minute, then minutes, hours and days, and the
// calendar date once it is a week old.
func Datetime(ts any, now time.Time) string {
	var sec float64
	switch v := ts.(type) {
	case float64:
		sec = v
	case float32:
		sec = float64(v)
	case int64:
		sec = float64(v)
	case int:
		sec = float64(v)
	case time.Time:
		sec = float64(v.Unix())
	default:
		return fmt.Sprint(ts)
	}

	delta := int64(float64(now.Unix()) - sec)
	switch {
	case delta < 60:
		return "1 minute ago"
	case delta < 3600:
		return plural(delta/60, "minute")
	case delta < 86400:
		return plural(delta/3600, "hour")
	case delta < 604800:
		return plural(delta/86400, "day")
	}
	t := time.Unix(int64(sec), 0).In(now.Location())
	return fmt.Sprintf("%d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Markdown converts markdown to HTML safe for embedding in a page.
// Raw HTML in the source is sanitized.
func Markdown(src string) (template.HTML, error) {
	initPolicies()
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarkdown, err)
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// StripTags removes all markup, leaving plain text.
func StripTags(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}
