// Package render turns content blocks into HTML. Renderers are looked up by
// block discriminator in a Registry; the page composer never needs to know
// which block types exist.
package render

import (
	"io"
	"sort"
	"sync"

	"github.com/Zachkp/folio/internal/cms"
)

// Renderer writes the markup for one block.
type Renderer interface {
	Render(w io.Writer, b cms.Block) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, b cms.Block) error

func (f RendererFunc) Render(w io.Writer, b cms.Block) error {
	return f(w, b)
}

// Registry maps discriminators to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{renderers: map[string]Renderer{}}
}

// Register binds a renderer to a discriminator, replacing any previous one.
func (r *Registry) Register(discriminator string, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[discriminator] = renderer
}

// Lookup returns the renderer for a discriminator.
func (r *Registry) Lookup(discriminator string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[discriminator]
	return renderer, ok
}

// Discriminators lists the registered discriminators, sorted.
func (r *Registry) Discriminators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.renderers))
	for d := range r.renderers {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
