package cms

import (
	"context"
	"strconv"

	"github.com/Zachkp/folio/internal/query"
)

// Resource paths under the API prefix.
const (
	ResourceHeader       = "header"
	ResourceHome         = "home"
	ResourceFooter       = "footer"
	ResourceProjects     = "projects"
	ResourceTechnologies = "technology-categories"
	ResourceProfile      = "profile"
)

func (c *Client) Header(ctx context.Context) *HeaderDocument {
	return One[HeaderDocument](ctx, c, ResourceHeader, query.Header())
}

func (c *Client) Home(ctx context.Context) *HomeDocument {
	return One[HomeDocument](ctx, c, ResourceHome, query.Home())
}

func (c *Client) Footer(ctx context.Context) *FooterDocument {
	return One[FooterDocument](ctx, c, ResourceFooter, nil)
}

// Projects returns every project ordered by its order field.
func (c *Client) Projects(ctx context.Context) []Entity[Project] {
	q := query.PopulateAll().Merge(query.Sorted("order:asc"))
	return List[Entity[Project]](ctx, c, ResourceProjects, q)
}

// FeaturedProjects returns only projects flagged as featured.
func (c *Client) FeaturedProjects(ctx context.Context) []Entity[Project] {
	q := query.PopulateAll().Merge(query.Featured()).Merge(query.Sorted("order:asc"))
	return List[Entity[Project]](ctx, c, ResourceProjects, q)
}

func (c *Client) Project(ctx context.Context, id int) *Entity[Project] {
	return One[Entity[Project]](ctx, c, ResourceProjects+"/"+strconv.Itoa(id), query.PopulateAll())
}

func (c *Client) TechnologyCategories(ctx context.Context) []Entity[TechnologyCategory] {
	return List[Entity[TechnologyCategory]](ctx, c, ResourceTechnologies, query.Sorted("order:asc"))
}

func (c *Client) Profile(ctx context.Context) *Entity[Profile] {
	return One[Entity[Profile]](ctx, c, ResourceProfile, query.PopulateAll())
}
