package cms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeFixture = `{
  "id": 4,
  "blocks": [
    {"__component": "blocks.hero-section", "id": 1, "subtextWords": [{"id": 1, "text": "Go"}, {"id": 2, "text": "Rust"}]},
    {"__component": "blocks.unknown", "id": 2, "whatever": true},
    {"__component": "blocks.projects-section", "id": 3, "heading": "Projects",
     "projectCards": [{"projectName": "folio", "technologies": [{"text": "Go"}], "githubLink": {"text": "Code", "href": "https://github.com/x"}}]},
    {"__component": "blocks.about-section", "id": 5, "aboutText": "hello"}
  ]
}`

func TestHomeDocumentKeepsBlockOrder(t *testing.T) {
	var home HomeDocument
	require.NoError(t, json.Unmarshal([]byte(homeFixture), &home))

	require.Len(t, home.Blocks, 4)
	var keys []string
	for _, b := range home.Blocks {
		keys = append(keys, b.Key())
	}
	assert.Equal(t, []string{
		"blocks.hero-section-1",
		"blocks.unknown-2",
		"blocks.projects-section-3",
		"blocks.about-section-5",
	}, keys)
}

func TestBlockDecodeVariants(t *testing.T) {
	var home HomeDocument
	require.NoError(t, json.Unmarshal([]byte(homeFixture), &home))

	var hero HeroBlock
	require.NoError(t, home.Blocks[0].Decode(&hero))
	assert.Equal(t, []string{"Go", "Rust"}, hero.Words())

	var projects ProjectsBlock
	require.NoError(t, home.Blocks[2].Decode(&projects))
	require.Len(t, projects.ProjectCards, 1)
	card := projects.ProjectCards[0]
	assert.Equal(t, "folio", card.ProjectName)
	assert.Nil(t, card.ProjectImage, "unpopulated relation is absent, not an error")
	assert.Nil(t, card.ProjectLink)
	require.NotNil(t, card.GithubLink)
	assert.Equal(t, "https://github.com/x", card.GithubLink.Href)

	var about AboutBlock
	require.NoError(t, home.Blocks[3].Decode(&about))
	assert.Equal(t, "hello", about.AboutText)
	assert.Nil(t, about.ProfileImage)
}

func TestBlockDecodeTypeMismatch(t *testing.T) {
	b := Block{Component: "blocks.hero-section", ID: 9, Raw: json.RawMessage(`{"subtextWords": "nope"}`)}
	var hero HeroBlock
	assert.Error(t, b.Decode(&hero))
}

func TestBlockWithoutRaw(t *testing.T) {
	b := Block{Component: "hero", ID: 1}
	var hero HeroBlock
	assert.NoError(t, b.Decode(&hero))
	assert.Empty(t, hero.Words())

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"__component":"hero","id":1}`, string(data))
}

func TestResolveMediaURL(t *testing.T) {
	base := "https://cms.example.com"

	assert.Equal(t, "https://cms.example.com/uploads/x.png", ResolveMediaURL(base, "/uploads/x.png"))
	assert.Equal(t, "https://cdn.example.com/x.png", ResolveMediaURL(base, "https://cdn.example.com/x.png"))
	assert.Equal(t, "http://cdn.example.com/x.png", ResolveMediaURL(base, "http://cdn.example.com/x.png"))
	assert.Equal(t, "https://cms.example.com/uploads/x.png", ResolveMediaURL(base+"/", "/uploads/x.png"))
	assert.Equal(t, "", ResolveMediaURL(base, ""))

	c := New(Options{BaseURL: base})
	assert.Equal(t, "https://cms.example.com/uploads/x.png", c.MediaURL("/uploads/x.png"))
}
