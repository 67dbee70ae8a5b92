package render

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// ComponentFunc builds a templ component from a template data map.
type ComponentFunc func(data map[string]any) templ.Component

// Components renders templ components registered under template names, so
// endpoints can return {"__template__": name} for either kind of view.
type Components struct {
	mu    sync.RWMutex
	views map[string]ComponentFunc
}

// NewComponents creates an empty registry.
func NewComponents() *Components {
	return &Components{views: make(map[string]ComponentFunc)}
}

// Register adds a view. Registering a name twice replaces the view.
func (c *Components) Register(name string, fn ComponentFunc) *Components {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[name] = fn
	return c
}

// Has reports whether a view is registered under name.
func (c *Components) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.views[name]
	return ok
}

// Render renders the named component.
func (c *Components) Render(w io.Writer, name string, data map[string]any) error {
	c.mu.RLock()
	fn, ok := c.views[name]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return fn(data).Render(context.Background(), w)
}

// Text is a component writing escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// NamedRenderer is a renderer that can tell whether it knows a name.
type NamedRenderer interface {
	Has(name string) bool
	Render(w io.Writer, name string, data map[string]any) error
}

// Chain renders through the first renderer that has the name.
type Chain []NamedRenderer

func (ch Chain) Has(name string) bool {
	for _, r := range ch {
		if r.Has(name) {
			return true
		}
	}
	return false
}

func (ch Chain) Render(w io.Writer, name string, data map[string]any) error {
	for _, r := range ch {
		if r.Has(name) {
			return r.Render(w, name, data)
		}
	}
	return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}
