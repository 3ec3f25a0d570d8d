package render

import (
	"html/template"
	"io"

	"github.com/Zachkp/folio/internal/cms"
	"github.com/Zachkp/folio/internal/query"
)

// View is what a section template receives.
type View[T any] struct {
	Key  string
	ID   int
	Data T
}

// Section renders blocks whose fields decode into T with a named template.
type Section[T any] struct {
	tmpl *template.Template
	name string
}

func NewSection[T any](tmpl *template.Template, name string) *Section[T] {
	return &Section[T]{tmpl: tmpl, name: name}
}

func (s *Section[T]) Render(w io.Writer, b cms.Block) error {
	var data T
	if err := b.Decode(&data); err != nil {
		return err
	}
	return s.tmpl.ExecuteTemplate(w, s.name, View[T]{Key: b.Key(), ID: b.ID, Data: data})
}

// DefaultRegistry binds the site's block variants to their templates.
func DefaultRegistry(tmpl *template.Template) *Registry {
	r := NewRegistry()
	r.Register(query.HeroSection, NewSection[cms.HeroBlock](tmpl, "hero.html"))
	r.Register(query.AboutSection, NewSection[cms.AboutBlock](tmpl, "about.html"))
	r.Register(query.ProjectsSection, NewSection[cms.ProjectsBlock](tmpl, "projects.html"))
	r.Register(query.TechnologiesSection, NewSection[cms.TechnologiesBlock](tmpl, "technologies.html"))
	r.Register(query.ContactSection, NewSection[cms.ContactBlock](tmpl, "contact.html"))
	return r
}
