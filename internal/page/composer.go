// Package page assembles one page view from independently fetched CMS
// documents.
//
// Header, body and footer are fetched concurrently. Each fetch settles on
// its own; a failed fetch only removes its region from the page.
package page

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/folio/internal/cms"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/query"
	"github.com/Zachkp/folio/internal/render"
)

const DefaultTimeout = 10 * time.Second

type fetch struct {
	resource string
	query    query.Values
}

// Composer fetches and assembles a page. The zero-value fetch for a region
// (empty resource) disables that region.
type Composer struct {
	source   cms.Getter
	registry *render.Registry
	header   fetch
	footer   fetch
	document fetch
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*Composer)

// WithHeader sets the header resource. An empty resource disables the header.
func WithHeader(resource string, q query.Values) Option {
	return func(c *Composer) { c.header = fetch{resource, q} }
}

// WithFooter sets the footer resource. An empty resource disables the footer.
func WithFooter(resource string, q query.Values) Option {
	return func(c *Composer) { c.footer = fetch{resource, q} }
}

// WithDocument sets the resource whose blocks make up the body.
func WithDocument(resource string, q query.Values) Option {
	return func(c *Composer) { c.document = fetch{resource, q} }
}

// WithTimeout bounds each fetch individually.
func WithTimeout(d time.Duration) Option {
	return func(c *Composer) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// NewComposer returns a composer for the home page unless options say
// otherwise.
func NewComposer(source cms.Getter, registry *render.Registry, opts ...Option) *Composer {
	c := &Composer{
		source:   source,
		registry: registry,
		header:   fetch{cms.ResourceHeader, query.Header()},
		footer:   fetch{cms.ResourceFooter, nil},
		document: fetch{cms.ResourceHome, query.Home()},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger).Named("page")
	if c.registry == nil {
		c.registry = render.NewRegistry()
	}
	return c
}

// Snapshot is the settled result of one Fetch. A nil field is a region
// whose fetch failed or is disabled.
type Snapshot struct {
	Header   *cms.HeaderDocument
	Footer   *cms.FooterDocument
	Document *cms.HomeDocument
}

// Fetch issues the configured fetches concurrently and returns once all of
// them have settled. It never fails; failures leave their field nil.
func (c *Composer) Fetch(ctx context.Context) Snapshot {
	var (
		s Snapshot
		g errgroup.Group
	)

	if c.header.resource != "" {
		g.Go(func() error {
			s.Header = one[cms.HeaderDocument](ctx, c, c.header)
			return nil
		})
	}
	if c.footer.resource != "" {
		g.Go(func() error {
			s.Footer = one[cms.FooterDocument](ctx, c, c.footer)
			return nil
		})
	}
	if c.document.resource != "" {
		g.Go(func() error {
			s.Document = one[cms.HomeDocument](ctx, c, c.document)
			return nil
		})
	}

	_ = g.Wait()
	return s
}

func one[T any](ctx context.Context, c *Composer, f fetch) *T {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return cms.One[T](ctx, c.source, f.resource, f.query)
}

// Entry is one renderable block of the body.
type Entry struct {
	Key      string
	Block    cms.Block
	Renderer render.Renderer
}

type Page struct {
	Header  *cms.HeaderDocument
	Footer  *cms.FooterDocument
	Entries []Entry
}

// Assemble dispatches the snapshot's blocks to renderers, keeping CMS order
// and skipping blocks with no registered renderer. It performs no I/O.
func (c *Composer) Assemble(s Snapshot) Page {
	p := Page{Header: s.Header, Footer: s.Footer, Entries: []Entry{}}
	if s.Document == nil {
		return p
	}

	for _, b := range s.Document.Blocks {
		r, ok := c.registry.Lookup(b.Component)
		if !ok {
			c.logger.Debug("skipping block without renderer",
				zap.String("component", b.Component), zap.Int("id", b.ID))
			continue
		}
		p.Entries = append(p.Entries, Entry{Key: b.Key(), Block: b, Renderer: r})
	}
	return p
}

func (c *Composer) Compose(ctx context.Context) Page {
	return c.Assemble(c.Fetch(ctx))
}

// Keys lists the render keys in order.
func (p Page) Keys() []string {
	keys := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Section is the rendered markup of one entry.
type Section struct {
	Key  string
	HTML template.HTML
}

// RenderSections renders every entry in order. An entry whose renderer
// fails is logged and left out.
func (p Page) RenderSections(logger *zap.Logger) []Section {
	logger = logging.OrNop(logger)

	out := make([]Section, 0, len(p.Entries))
	for _, e := range p.Entries {
		var buf bytes.Buffer
		if err := e.Renderer.Render(&buf, e.Block); err != nil {
			logger.Error("error rendering section", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		out = append(out, Section{Key: e.Key, HTML: template.HTML(buf.String())})
	}
	return out
}
