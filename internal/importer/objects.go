package importer

import (
	"context"
	"strings"

	"github.com/mwnf/legacy-importer/internal/codes"
	"github.com/mwnf/legacy-importer/internal/compat"
	"github.com/mwnf/legacy-importer/internal/legacy"
	"github.com/mwnf/legacy-importer/internal/markdown"
	"github.com/mwnf/legacy-importer/internal/target"
)

// objectPKOrder is the column order of the legacy objects primary key.
// The last column is the locale and drops out of the item-level key.
var objectPKOrder = []string{"project_id", "country", "museum_id", "number", "lang"}

// objectGroup is one logical object: every language row sharing the
// non-locale primary key, in query order.
type objectGroup struct {
	rows []legacy.ObjectRow
}

// ObjectImporter migrates the denormalized objects table. The legacy
// table holds one row per object per language; rows are grouped into one
// item plus one translation per language. Tags come from the material,
// dynasty and keyword fields, artists from the artist field, and the
// text preparator becomes the translation's author.
type ObjectImporter struct {
	ctx     *Context
	tags    *TagHelper
	authors *AuthorHelper
	artists *ArtistHelper
}

func NewObjectImporter(ctx *Context) *ObjectImporter {
	return &ObjectImporter{
		ctx:     ctx,
		tags:    NewTagHelper(ctx),
		authors: NewAuthorHelper(ctx),
		artists: NewArtistHelper(ctx),
	}
}

func (i *ObjectImporter) Name() string { return "ObjectImporter" }

func (i *ObjectImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	rows, err := c.Legacy.Objects(ctx)
	if err != nil {
		result.RecordError("query objects: %v", err)
		result.Success = false
		return result
	}

	groups, order := groupObjects(c.Schema, rows)
	c.Log.Info("Importing objects", "rows", len(rows), "objects", len(order))

	defaultLang, err := c.defaultLanguageID()
	if err != nil {
		result.RecordError("%v", err)
		result.Success = false
		return result
	}
	contextID, err := c.defaultContextID()
	if err != nil {
		result.RecordError("%v", err)
		result.Success = false
		return result
	}

	for _, key := range order {
		i.importGroup(ctx, groups[key], key, defaultLang, contextID, result)
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}

// groupObjects collapses language rows into one group per object,
// preserving first-appearance order. Keys are the item-level
// backward-compatibility keys.
func groupObjects(schema string, rows []legacy.ObjectRow) (map[string]*objectGroup, []string) {
	groups := make(map[string]*objectGroup)
	var order []string

	for _, row := range rows {
		key := objectKey(schema, row)
		g, ok := groups[key]
		if !ok {
			g = &objectGroup{}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}
	return groups, order
}

func objectKey(schema string, row legacy.ObjectRow) string {
	return compat.FormatDenormalized(schema, "objects", objectPKOrder, map[string]string{
		"project_id": row.ProjectID,
		"country":    row.Country,
		"museum_id":  row.MuseumID,
		"number":     row.Number,
		"lang":       row.Lang,
	})
}

// importGroup migrates one object and its translations. A failure on the
// item aborts the group; a failure on one translation does not.
func (i *ObjectImporter) importGroup(ctx context.Context, g *objectGroup, itemKey, defaultLang, contextID string, result *Result) {
	c := i.ctx

	if c.Tracker.Exists(itemKey) {
		result.Skipped++
		return
	}

	base := i.baseRow(g, defaultLang, itemKey)

	itemID, err := i.writeItem(ctx, base, itemKey)
	if err != nil {
		result.RecordError("Object %s: %v", itemKey, err)
		c.Log.Error("Failed to import object", "key", itemKey, "error", err)
		return
	}
	result.Imported++

	for _, row := range g.rows {
		if err := i.writeTranslation(ctx, row, itemID, contextID); err != nil {
			result.RecordError("Object %s lang %s: %v", itemKey, row.Lang, err)
			c.Log.Error("Failed to import object translation",
				"key", itemKey, "lang", row.Lang, "error", err)
		}
	}

	if err := i.attachTags(ctx, base, itemID); err != nil {
		result.RecordError("Object %s tags: %v", itemKey, err)
	}
	if err := i.attachArtists(ctx, base, itemID); err != nil {
		result.RecordError("Object %s artists: %v", itemKey, err)
	}
}

// baseRow picks the row item-level fields come from: the default
// language when present, otherwise the first row with a warning.
func (i *ObjectImporter) baseRow(g *objectGroup, defaultLang, itemKey string) legacy.ObjectRow {
	for _, row := range g.rows {
		mapped, err := codes.MapLanguageCode(row.Lang)
		if err == nil && mapped == defaultLang {
			return row
		}
	}
	i.ctx.Log.Warn("Object has no default-language row, using first",
		"key", itemKey, "lang", g.rows[0].Lang)
	return g.rows[0]
}

func (i *ObjectImporter) writeItem(ctx context.Context, base legacy.ObjectRow, itemKey string) (string, error) {
	c := i.ctx

	name := strings.TrimSpace(base.Name.String)
	if name == "" {
		name = base.Number
	}

	data := target.ItemData{
		Type:                  "object",
		InternalName:          name,
		BackwardCompatibility: itemKey,
	}
	if countryID, err := codes.MapCountryCode(base.Country); err == nil {
		data.CountryID = &countryID
	} else {
		c.Log.Warn("Object country not mapped", "key", itemKey, "country", base.Country)
	}
	if base.ProjectID != "" {
		projectID := base.ProjectID
		data.ProjectID = &projectID
	}
	if base.MuseumID != "" {
		partnerID := base.MuseumID
		data.PartnerID = &partnerID
	}
	if base.Number != "" {
		ref := base.Number
		data.MWNFReference = &ref
	}

	if c.skipWrites() {
		c.Log.Info("Would import object",
			"mode", c.mode(), "key", itemKey, "name", name)
		c.register("", itemKey, target.EntityItem)
		return "", nil
	}

	id, err := c.Strategy.WriteItem(ctx, data)
	if err != nil {
		return "", err
	}
	c.register(id, itemKey, target.EntityItem)
	return id, nil
}

func (i *ObjectImporter) writeTranslation(ctx context.Context, row legacy.ObjectRow, itemID, contextID string) error {
	c := i.ctx

	key := compat.Format(compat.Reference{
		Schema:   c.Schema,
		Table:    "objects",
		PKValues: []string{row.ProjectID, row.Country, row.MuseumID, row.Number, row.Lang},
	})
	if c.Tracker.Exists(key) {
		return nil
	}

	languageID, err := codes.MapLanguageCode(row.Lang)
	if err != nil {
		return err
	}

	description, err := markdown.ConvertHTML(row.Description.String)
	if err != nil {
		return err
	}

	data := target.ItemTranslationData{
		ItemID:                itemID,
		LanguageID:            languageID,
		ContextID:             contextID,
		BackwardCompatibility: key,
		Name:                  strings.TrimSpace(row.Name.String),
		Description:           description,
	}

	if c.skipWrites() {
		c.register("", key, target.EntityItemTranslation)
		return nil
	}

	if prep := strings.TrimSpace(row.Preparator.String); prep != "" {
		names := SplitList(prep)
		if len(names) > 0 {
			authorID, err := i.authors.FindOrCreateAuthor(ctx, names[0])
			if err != nil {
				c.Log.Warn("Could not resolve author", "name", names[0], "error", err)
			} else {
				data.AuthorID = &authorID
			}
		}
	}

	if err := c.Strategy.WriteItemTranslation(ctx, data); err != nil {
		return err
	}
	c.register("", key, target.EntityItemTranslation)
	return nil
}

// tagSource pairs a legacy free-text field with its tag category.
type tagSource struct {
	category string
	raw      string
}

func tagSources(base legacy.ObjectRow) []tagSource {
	return []tagSource{
		{"material", base.Material.String},
		{"dynasty", base.Dynasty.String},
		{"keyword", base.Keywords.String},
	}
}

func (i *ObjectImporter) attachTags(ctx context.Context, base legacy.ObjectRow, itemID string) error {
	c := i.ctx
	if c.skipWrites() {
		return nil
	}

	var tagIDs []string
	for _, src := range tagSources(base) {
		for _, name := range SplitTags(src.raw) {
			id, err := i.tags.FindOrCreateTag(ctx, name, src.category)
			if err != nil {
				return err
			}
			tagIDs = append(tagIDs, id)
		}
	}
	if len(tagIDs) == 0 {
		return nil
	}
	return c.Strategy.AttachTagsToItem(ctx, itemID, tagIDs)
}

func (i *ObjectImporter) attachArtists(ctx context.Context, base legacy.ObjectRow, itemID string) error {
	c := i.ctx
	if c.skipWrites() {
		return nil
	}

	var artistIDs []string
	for _, name := range SplitList(base.Artist.String) {
		id, err := i.artists.FindOrCreateArtist(ctx, name)
		if err != nil {
			return err
		}
		artistIDs = append(artistIDs, id)
	}
	if len(artistIDs) == 0 {
		return nil
	}
	return c.Strategy.AttachArtistsToItem(ctx, itemID, artistIDs)
}
