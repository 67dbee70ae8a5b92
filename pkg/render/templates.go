package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"sync"
	"time"

	"github.com/dmitrymomot/awesome/pkg/logger"
)

// Templates renders html/template pages loaded from a file system.
//
// Every file matching the page pattern is a page, named by its path
// relative to the file system root. Files matching the layout pattern are
// parsed into every page, so pages can fill blocks a layout defines.
type Templates struct {
	fsys          fs.FS
	pagePattern   string
	layoutPattern string
	funcs         template.FuncMap
	reload        bool
	log           *slog.Logger

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// Option configures Templates.
type Option func(*Templates)

// WithPages sets the glob matching page files. Default: "*.html".
func WithPages(pattern string) Option {
	return func(t *Templates) {
		if pattern != "" {
			t.pagePattern = pattern
		}
	}
}

// WithLayouts sets the glob matching layout files. Default: "layouts/*.html".
func WithLayouts(pattern string) Option {
	return func(t *Templates) {
		t.layoutPattern = pattern
	}
}

// WithFuncs adds template functions, overriding built-in ones of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(t *Templates) {
		maps.Copy(t.funcs, funcs)
	}
}

// WithReload re-parses the templates on every render. Use in development.
func WithReload(reload bool) Option {
	return func(t *Templates) {
		t.reload = reload
	}
}

// WithClock overrides the time source of the datetime function.
func WithClock(now func() time.Time) Option {
	return func(t *Templates) {
		if now != nil {
			maps.Copy(t.funcs, FuncMap(now))
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Templates) {
		if l != nil {
			t.log = l
		}
	}
}

// New parses the templates in fsys.
//
//	//go:embed templates
//	var files embed.FS
//
//	sub, _ := fs.Sub(files, "templates")
//	tmpl, err := render.New(sub, render.WithReload(cfg.Debug))
func New(fsys fs.FS, opts ...Option) (*Templates, error) {
	t := &Templates{
		fsys:          fsys,
		pagePattern:   "*.html",
		layoutPattern: "layouts/*.html",
		funcs:         FuncMap(time.Now),
		log:           logger.NewNope(),
	}
	for _, opt := range opts {
		opt(t)
	}

	pages, err := t.parse()
	if err != nil {
		return nil, err
	}
	t.pages = pages
	return t, nil
}

// Has reports whether a page with the given name exists.
func (t *Templates) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pages[name]
	return ok
}

// Render executes the named page with data. Output is buffered, so a
// failing template writes nothing to w.
func (t *Templates) Render(w io.Writer, name string, data map[string]any) error {
	if t.reload {
		pages, err := t.parse()
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.pages = pages
		t.mu.Unlock()
	}

	t.mu.RLock()
	page, ok := t.pages[name]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, path.Base(name), data); err != nil {
		return errors.Join(ErrRender, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (t *Templates) parse() (map[string]*template.Template, error) {
	names, err := fs.Glob(t.fsys, t.pagePattern)
	if err != nil {
		return nil, errors.Join(ErrParseTemplates, err)
	}
	var layouts []string
	if t.layoutPattern != "" {
		if layouts, err = fs.Glob(t.fsys, t.layoutPattern); err != nil {
			return nil, errors.Join(ErrParseTemplates, err)
		}
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl := template.New(path.Base(name)).Funcs(t.funcs)
		if len(layouts) > 0 {
			if tmpl, err = tmpl.ParseFS(t.fsys, layouts...); err != nil {
				return nil, errors.Join(ErrParseTemplates, err)
			}
		}
		if tmpl, err = tmpl.ParseFS(t.fsys, name); err != nil {
			return nil, errors.Join(ErrParseTemplates, err)
		}
		pages[name] = tmpl
	}

	t.log.Debug("templates loaded", slog.Int("pages", len(pages)), slog.Int("layouts", len(layouts)))
	return pages, nil
}
