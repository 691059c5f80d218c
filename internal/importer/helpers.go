package importer

import (
	"context"
	"errors"
	"strings"

	"github.com/mwnf/legacy-importer/internal/compat"
	"github.com/mwnf/legacy-importer/internal/target"
)

// Page bounds for the conflict-recovery search. A create that hits a
// uniqueness conflict means the entity already exists but its
// backward-compatibility key differs from ours, so the helpers page
// through the collection matching on the unique fields instead.
const (
	defaultMaxSearchPages    = 100
	exhaustiveMaxSearchPages = 200
	searchPerPage            = 100
)

// Searcher is the optional read-back capability of a write strategy.
// The API backend implements it; the SQL backend resolves conflicts
// through FindByBackwardCompatibility alone.
type Searcher interface {
	Index(ctx context.Context, entity string, page, perPage int) ([]target.Resource, error)
}

// SplitTags splits a legacy free-text field into individual tag names.
// A value containing a colon is one structured tag, never split:
// "Warp: Light brown wool; Weft: Red wool" is a single weaving
// description. Otherwise the field splits on semicolons when any are
// present, falling back to commas.
func SplitTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.Contains(raw, ":") {
		return []string{raw}
	}

	sep := ","
	if strings.Contains(raw, ";") {
		sep = ";"
	}

	var out []string
	for _, part := range strings.Split(raw, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitList splits a multi-value legacy field (artists, preparators) on
// semicolons.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// TagHelper resolves tag names to identifiers in the new system,
// creating tags on first sight. Tag identity is the lowercased name
// within a category and language; the original casing is kept as the
// tag description.
type TagHelper struct {
	ctx *Context
}

func NewTagHelper(ctx *Context) *TagHelper {
	return &TagHelper{ctx: ctx}
}

// FindOrCreateTag returns the identifier of the named tag, creating it
// when it does not exist yet.
func (h *TagHelper) FindOrCreateTag(ctx context.Context, name, category string) (string, error) {
	c := h.ctx

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty tag name")
	}
	lowered := strings.ToLower(name)

	languageID, err := c.defaultLanguageID()
	if err != nil {
		return "", err
	}

	key := compat.Format(compat.Reference{
		Schema:   c.Schema,
		Table:    "tags",
		PKValues: []string{category, languageID, lowered},
	})

	if id, ok := c.Tracker.GetUUID(key); ok {
		return id, nil
	}

	id, err := c.Strategy.FindByBackwardCompatibility(ctx, target.EntityTag, key)
	if err != nil {
		return "", err
	}
	if id != "" {
		c.register(id, key, target.EntityTag)
		return id, nil
	}

	id, err = c.Strategy.WriteTag(ctx, target.TagData{
		InternalName:          lowered,
		BackwardCompatibility: key,
		Category:              category,
		LanguageID:            languageID,
		Description:           name,
	})
	if err != nil {
		var conflict *target.ConflictError
		if errors.As(err, &conflict) {
			return h.searchByFields(ctx, key, lowered, category, languageID)
		}
		return "", err
	}

	c.register(id, key, target.EntityTag)
	return id, nil
}

// searchByFields pages through the tag collection matching on the unique
// triple (name, category, language). The first pass is bounded; when it
// comes up empty an exhaustive pass covers collections large enough that
// the tag sits past the default bound.
func (h *TagHelper) searchByFields(ctx context.Context, key, lowered, category, languageID string) (string, error) {
	searcher, ok := h.ctx.Strategy.(Searcher)
	if !ok {
		return "", errors.New("tag " + lowered + ": conflict on create and backend cannot search")
	}

	for _, maxPages := range []int{defaultMaxSearchPages, exhaustiveMaxSearchPages} {
		for page := 1; page <= maxPages; page++ {
			resources, err := searcher.Index(ctx, target.EntityTag, page, searchPerPage)
			if err != nil {
				return "", err
			}
			for _, res := range resources {
				if res.BackwardCompatibility == key ||
					(strings.ToLower(res.InternalName) == lowered &&
						res.Category == category && res.LanguageID == languageID) {
					h.ctx.register(res.ID, key, target.EntityTag)
					return res.ID, nil
				}
			}
			if len(resources) < searchPerPage {
				break
			}
		}
	}
	return "", errors.New("tag " + lowered + ": conflict on create but not found by search")
}

// AuthorHelper resolves author names to identifiers, creating authors on
// first sight. Author identity is the lowercased name.
type AuthorHelper struct {
	ctx *Context
}

func NewAuthorHelper(ctx *Context) *AuthorHelper {
	return &AuthorHelper{ctx: ctx}
}

func (h *AuthorHelper) FindOrCreateAuthor(ctx context.Context, name string) (string, error) {
	c := h.ctx

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty author name")
	}
	lowered := strings.ToLower(name)

	key := compat.Format(compat.Reference{
		Schema:   c.Schema,
		Table:    "authors",
		PKValues: []string{lowered},
	})

	if id, ok := c.Tracker.GetUUID(key); ok {
		return id, nil
	}

	id, err := c.Strategy.FindByBackwardCompatibility(ctx, target.EntityAuthor, key)
	if err != nil {
		return "", err
	}
	if id != "" {
		c.register(id, key, target.EntityAuthor)
		return id, nil
	}

	id, err = c.Strategy.WriteAuthor(ctx, target.AuthorData{
		InternalName:          lowered,
		BackwardCompatibility: key,
		Name:                  name,
	})
	if err != nil {
		var conflict *target.ConflictError
		if errors.As(err, &conflict) {
			return findByName(ctx, c, target.EntityAuthor, key, lowered)
		}
		return "", err
	}

	c.register(id, key, target.EntityAuthor)
	return id, nil
}

// ArtistHelper resolves artist names to identifiers, creating artists on
// first sight.
type ArtistHelper struct {
	ctx *Context
}

func NewArtistHelper(ctx *Context) *ArtistHelper {
	return &ArtistHelper{ctx: ctx}
}

func (h *ArtistHelper) FindOrCreateArtist(ctx context.Context, name string) (string, error) {
	c := h.ctx

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty artist name")
	}
	lowered := strings.ToLower(name)

	key := compat.Format(compat.Reference{
		Schema:   c.Schema,
		Table:    "artists",
		PKValues: []string{lowered},
	})

	if id, ok := c.Tracker.GetUUID(key); ok {
		return id, nil
	}

	id, err := c.Strategy.FindByBackwardCompatibility(ctx, target.EntityArtist, key)
	if err != nil {
		return "", err
	}
	if id != "" {
		c.register(id, key, target.EntityArtist)
		return id, nil
	}

	id, err = c.Strategy.WriteArtist(ctx, target.ArtistData{
		InternalName:          lowered,
		BackwardCompatibility: key,
		Name:                  name,
	})
	if err != nil {
		var conflict *target.ConflictError
		if errors.As(err, &conflict) {
			return findByName(ctx, c, target.EntityArtist, key, lowered)
		}
		return "", err
	}

	c.register(id, key, target.EntityArtist)
	return id, nil
}

// findByName is the conflict-recovery search for name-keyed entities
// (authors, artists).
func findByName(ctx context.Context, c *Context, entity, key, lowered string) (string, error) {
	searcher, ok := c.Strategy.(Searcher)
	if !ok {
		return "", errors.New(entity + " " + lowered + ": conflict on create and backend cannot search")
	}

	for page := 1; page <= defaultMaxSearchPages; page++ {
		resources, err := searcher.Index(ctx, entity, page, searchPerPage)
		if err != nil {
			return "", err
		}
		for _, res := range resources {
			if res.BackwardCompatibility == key || strings.ToLower(res.InternalName) == lowered {
				c.register(res.ID, key, entity)
				return res.ID, nil
			}
		}
		if len(resources) < searchPerPage {
			break
		}
	}
	return "", errors.New(entity + " " + lowered + ": conflict on create but not found by search")
}
