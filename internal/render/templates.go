package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// FallbackProjectImage is shown for project cards without an image.
const FallbackProjectImage = "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=600&h=400&fit=crop"

type CardColor struct {
	Background string
	Hover      string
}

var cardColors = []CardColor{
	{Background: "#FCBF28", Hover: "#F5A623"},
	{Background: "#C8E6A0", Hover: "#B8D690"},
	{Background: "#7A95A8", Hover: "#6A8598"},
	{Background: "#F5C9C9", Hover: "#EFADAD"},
}

var categoryIcons = map[string]string{
	"Front End":          "code-2",
	"Back End":           "server",
	"Testing/Deployment": "rocket",
	"Dev Tools":          "wrench",
}

var socialIcons = map[string]string{
	"twitter":       "twitter",
	"linkedin":      "linkedin",
	"github":        "github",
	"stackoverflow": "code-2",
}

// Templates parses every embedded template. mediaURL resolves CMS asset
// paths for the "media" template function.
func Templates(mediaURL func(string) string) (*template.Template, error) {
	if mediaURL == nil {
		mediaURL = func(u string) string { return u }
	}

	funcs := template.FuncMap{
		"media": mediaURL,
		"upper": strings.ToUpper,
		"year":  func() int { return time.Now().Year() },
		"cardColor": func(i int) CardColor {
			return cardColors[i%len(cardColors)]
		},
		"categoryIcon": func(title string) string {
			if icon, ok := categoryIcons[title]; ok {
				return icon
			}
			return "code-2"
		},
		"socialIcon": func(name string) string {
			return socialIcons[strings.ToLower(name)]
		},
		"typewriterURL": TypewriterURL,
		"fallbackImage": func() string { return FallbackProjectImage },
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// TypewriterURL is the event stream the hero section subscribes to.
func TypewriterURL(words []string) string {
	q := url.Values{}
	for _, w := range words {
		q.Add("w", w)
	}
	return "/widgets/typewriter?" + q.Encode()
}
