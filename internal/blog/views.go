package blog

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/pkg/render"
)

var (
	//go:embed templates
	templateFiles embed.FS

	//go:embed migrations/*.sql
	migrationFiles embed.FS

	//go:embed static
	staticFiles embed.FS
)

// NotFoundView is the name of the templ page rendered for unknown paths.
const NotFoundView = "404.html"

// Migrations returns the goose migrations of the blog schema.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the embedded assets. Files live under the "static" directory.
func Static() fs.FS {
	return staticFiles
}

// Templates parses the html/template pages of the blog.
func Templates(opts ...render.Option) (*render.Templates, error) {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}
	funcs := render.WithFuncs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	return render.New(sub, append([]render.Option{funcs}, opts...)...)
}

// Components registers the templ views of the blog.
func Components() *render.Components {
	return render.NewComponents().Register(NotFoundView, notFound)
}

// NotFound renders the not found page.
func NotFound(c awesome.Context) error {
	return c.Render(http.StatusNotFound, NotFoundView, map[string]any{"path": c.Request().URL.Path})
}

func notFound(data map[string]any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>Not Found - Awesome</title>`+
			`<link rel="stylesheet" href="/static/css/awesome.css"></head><body><main><h1>404</h1><p>`); err != nil {
			return err
		}
		if err := render.Text(fmt.Sprintf("%v was not found.", data["path"])).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</p><p><a href="/">Back to the home page</a></p></main></body></html>`)
		return err
	})
}
