package cms

import (
	"encoding/json"
	"fmt"
)

// Meta is the metadata half of every response envelope.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

type Pagination struct {
	Page      int `json:"page"      yaml:"page"`
	PageSize  int `json:"pageSize"  yaml:"pageSize"`
	PageCount int `json:"pageCount" yaml:"pageCount"`
	Total     int `json:"total"     yaml:"total"`
}

// Envelope is the {data, meta} wrapper returned by every read endpoint.
type Envelope[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Block is one entry of a dynamic zone. Component is the discriminator that
// selects a renderer; the type-specific fields stay in Raw until a renderer
// decodes them.
type Block struct {
	Component string          `json:"__component" yaml:"component"`
	ID        int             `json:"id"          yaml:"id"`
	Raw       json.RawMessage `json:"-"           yaml:"-"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var head struct {
		Component string `json:"__component"`
		ID        int    `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	b.Component = head.Component
	b.ID = head.ID
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	if len(b.Raw) > 0 {
		return b.Raw, nil
	}
	return json.Marshal(struct {
		Component string `json:"__component"`
		ID        int    `json:"id"`
	}{b.Component, b.ID})
}

// MarshalYAML emits the block's full field set, not just its head.
func (b Block) MarshalYAML() (any, error) {
	if len(b.Raw) == 0 {
		return map[string]any{"__component": b.Component, "id": b.ID}, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(b.Raw, &fields); err != nil {
		return nil, fmt.Errorf("decode %s block %d: %w", b.Component, b.ID, err)
	}
	return fields, nil
}

// Decode unmarshals the block's type-specific fields into v. Fields the
// query did not populate are left at their zero values.
func (b Block) Decode(v any) error {
	if len(b.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(b.Raw, v); err != nil {
		return fmt.Errorf("decode %s block %d: %w", b.Component, b.ID, err)
	}
	return nil
}

// Key is the stable render key of the block: discriminator and id.
func (b Block) Key() string {
	return fmt.Sprintf("%s-%d", b.Component, b.ID)
}

type HomeDocument struct {
	ID     int     `json:"id"     yaml:"id"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

type HeaderDocument struct {
	ID         int       `json:"id"         yaml:"id"`
	DocumentID string    `json:"documentId" yaml:"documentId,omitempty"`
	Logo       Logo      `json:"logo"       yaml:"logo"`
	NavLinks   []NavLink `json:"navLinks"   yaml:"navLinks"`
}

type Logo struct {
	Image *MediaAsset `json:"image" yaml:"image,omitempty"`
}

// NavLink.Order is carried as returned; links are rendered in sequence order.
type NavLink struct {
	Order int    `json:"order" yaml:"order"`
	ID    int    `json:"id"    yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href"  yaml:"href"`
}

type FooterDocument struct {
	ID         int    `json:"id"         yaml:"id"`
	DocumentID string `json:"documentId" yaml:"documentId,omitempty"`
	Heading    string `json:"heading"    yaml:"heading"`
}

// MediaAsset is an uploaded file. URL may be relative to the CMS or absolute.
type MediaAsset struct {
	ID              int                    `json:"id"              yaml:"id"`
	Name            string                 `json:"name"            yaml:"name,omitempty"`
	URL             string                 `json:"url"             yaml:"url"`
	AlternativeText string                 `json:"alternativeText" yaml:"alternativeText,omitempty"`
	Caption         string                 `json:"caption"         yaml:"caption,omitempty"`
	Width           int                    `json:"width"           yaml:"width,omitempty"`
	Height          int                    `json:"height"          yaml:"height,omitempty"`
	Mime            string                 `json:"mime"            yaml:"mime,omitempty"`
	Formats         map[string]MediaFormat `json:"formats"         yaml:"formats,omitempty"`
}

type MediaFormat struct {
	Name   string  `json:"name"   yaml:"name"`
	URL    string  `json:"url"    yaml:"url"`
	Width  int     `json:"width"  yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Size   float64 `json:"size"   yaml:"size"`
}

// Text is a repeatable single-string component.
type Text struct {
	Text string `json:"text" yaml:"text"`
}

type Link struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}

// Block variants of the home document.

type HeroBlock struct {
	Heading      string `json:"heading"`
	SubtextWords []Text `json:"subtextWords"`
}

// Words returns the rotator word list in order.
func (h HeroBlock) Words() []string {
	words := make([]string, 0, len(h.SubtextWords))
	for _, w := range h.SubtextWords {
		words = append(words, w.Text)
	}
	return words
}

type AboutBlock struct {
	Name         string       `json:"name"`
	Title        string       `json:"title"`
	AboutText    string       `json:"aboutText"`
	ProfileImage *MediaAsset  `json:"profileImage"`
	SocialLinks  []SocialLink `json:"socialLinks"`
}

type ProjectsBlock struct {
	Heading      string        `json:"heading"`
	ProjectCards []ProjectCard `json:"projectCards"`
}

type ProjectCard struct {
	ProjectName        string      `json:"projectName"`
	ProjectDescription string      `json:"projectDescription"`
	ProjectImage       *MediaAsset `json:"projectImage"`
	Technologies       []Text      `json:"technologies"`
	GithubLink         *Link       `json:"githubLink"`
	ProjectLink        *Link       `json:"projectLink"`
	LiveURL            string      `json:"liveUrl"`
}

type TechnologiesBlock struct {
	Heading         string           `json:"heading"`
	Subheading      string           `json:"subheading"`
	TechnologyCards []TechnologyCard `json:"technologyCards"`
}

type TechnologyCard struct {
	Title        string `json:"title"`
	Technologies []Text `json:"technologies"`
}

type ContactBlock struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	Email      string `json:"email"`
}

// Collection types.

// Entity is a collection entry with its fields under attributes.
type Entity[T any] struct {
	ID         int `json:"id"         yaml:"id"`
	Attributes T   `json:"attributes" yaml:"attributes"`
}

// Relation wraps a single related entity.
type Relation[T any] struct {
	Data *Entity[T] `json:"data" yaml:"data"`
}

type Project struct {
	Title           string               `json:"title"           yaml:"title"`
	Description     string               `json:"description"     yaml:"description"`
	LongDescription string               `json:"longDescription" yaml:"longDescription,omitempty"`
	Technologies    []string             `json:"technologies"    yaml:"technologies"`
	Image           Relation[MediaAsset] `json:"image"           yaml:"image"`
	GithubURL       string               `json:"githubUrl"       yaml:"githubUrl,omitempty"`
	LiveURL         string               `json:"liveUrl"         yaml:"liveUrl,omitempty"`
	Featured        bool                 `json:"featured"        yaml:"featured"`
	Order           int                  `json:"order"           yaml:"order"`
}

type TechnologyCategory struct {
	Name         string   `json:"name"         yaml:"name"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Order        int      `json:"order"        yaml:"order"`
}

type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url"      yaml:"url"`
	Icon     string `json:"icon"     yaml:"icon,omitempty"`
	Order    int    `json:"order"    yaml:"order"`
}

type Profile struct {
	Name         string               `json:"name"         yaml:"name"`
	Title        string               `json:"title"        yaml:"title"`
	Subtitle     string               `json:"subtitle"     yaml:"subtitle,omitempty"`
	Email        string               `json:"email"        yaml:"email,omitempty"`
	ProfileImage Relation[MediaAsset] `json:"profileImage" yaml:"profileImage"`
	SocialLinks  []SocialLink         `json:"socialLinks"  yaml:"socialLinks,omitempty"`
	ResumeURL    string               `json:"resumeUrl"    yaml:"resumeUrl,omitempty"`
}

// ContactMessage is the body of a contact submission.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
