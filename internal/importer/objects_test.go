package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/mwnf/legacy-importer/internal/legacy"
	"github.com/mwnf/legacy-importer/internal/target"
)

func objectRow(lang, name, desc string) legacy.ObjectRow {
	return legacy.ObjectRow{
		ProjectID:   "isl",
		Country:     "tr",
		MuseumID:    "34",
		Number:      "12",
		Lang:        lang,
		Name:        ns(name),
		Description: ns(desc),
	}
}

func seedDefaults(c *Context) {
	c.Tracker.SetMeta(MetaDefaultLanguageID, "eng")
	c.Tracker.SetMeta(MetaDefaultContextID, "ctx-1")
}

func TestObjectImporterGroupsLanguageRows(t *testing.T) {
	q := &fakeQuerier{objects: []legacy.ObjectRow{
		objectRow("en", "Bowl", "<p>A glazed bowl.</p>"),
		objectRow("fr", "Bol", "<p>Un bol.</p>"),
		objectRow("ar", "Zubdiya", "<p>Zubdiya.</p>"),
	}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	res := NewObjectImporter(c).Import(context.Background())

	if !res.Success {
		t.Fatalf("errors: %v", res.Errors)
	}
	if res.Imported != 1 {
		t.Fatalf("imported = %d, want 1 item for 3 language rows", res.Imported)
	}
	if got := s.countByEntity(target.EntityItem); got != 1 {
		t.Fatalf("item writes = %d, want 1", got)
	}
	if got := s.countByEntity(target.EntityItemTranslation); got != 3 {
		t.Fatalf("translation writes = %d, want 3", got)
	}
	if !c.Tracker.Exists("mwnf3:objects:isl:tr:34:12") {
		t.Fatal("item key should exclude the language column")
	}
}

func TestObjectImporterPrefersDefaultLanguageRow(t *testing.T) {
	q := &fakeQuerier{objects: []legacy.ObjectRow{
		objectRow("fr", "Bol", "desc"),
		objectRow("en", "Bowl", "desc"),
	}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	NewObjectImporter(c).Import(context.Background())

	var item target.ItemData
	for _, w := range s.writes {
		if w.entity == target.EntityItem {
			item = w.data.(target.ItemData)
		}
	}
	if item.InternalName != "Bowl" {
		t.Fatalf("internal name = %q, want the English row's name", item.InternalName)
	}
	if item.CountryID == nil || *item.CountryID != "tur" {
		t.Fatalf("country = %v, want tur", item.CountryID)
	}
}

func TestObjectImporterFallsBackToFirstRow(t *testing.T) {
	q := &fakeQuerier{objects: []legacy.ObjectRow{
		objectRow("fr", "Bol", "desc"),
		objectRow("ar", "Zubdiya", "desc"),
	}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	res := NewObjectImporter(c).Import(context.Background())

	if res.Imported != 1 {
		t.Fatalf("imported = %d, want 1", res.Imported)
	}
	var item target.ItemData
	for _, w := range s.writes {
		if w.entity == target.EntityItem {
			item = w.data.(target.ItemData)
		}
	}
	if item.InternalName != "Bol" {
		t.Fatalf("internal name = %q, want the first row's name", item.InternalName)
	}
}

func TestObjectImporterConvertsDescriptions(t *testing.T) {
	q := &fakeQuerier{objects: []legacy.ObjectRow{
		objectRow("en", "Bowl", "<p>A <strong>glazed</strong> bowl.</p>"),
	}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	NewObjectImporter(c).Import(context.Background())

	var tr target.ItemTranslationData
	for _, w := range s.writes {
		if w.entity == target.EntityItemTranslation {
			tr = w.data.(target.ItemTranslationData)
		}
	}
	if strings.Contains(tr.Description, "<") {
		t.Fatalf("description still contains markup: %q", tr.Description)
	}
	if !strings.Contains(tr.Description, "**glazed**") {
		t.Fatalf("description = %q, want strong emphasis", tr.Description)
	}
	if tr.ContextID != "ctx-1" {
		t.Fatalf("context = %q, want ctx-1", tr.ContextID)
	}
}

func TestObjectImporterAttachesTagsAndArtists(t *testing.T) {
	row := objectRow("en", "Carpet", "desc")
	row.Material = ns("wool; silk")
	row.Dynasty = ns("Ottoman")
	row.Artist = ns("Sinan; Unknown Master")
	q := &fakeQuerier{objects: []legacy.ObjectRow{row}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	res := NewObjectImporter(c).Import(context.Background())
	if !res.Success {
		t.Fatalf("errors: %v", res.Errors)
	}

	if got := s.countByEntity(target.EntityTag); got != 3 {
		t.Fatalf("tag writes = %d, want 3", got)
	}
	if got := s.countByEntity(target.EntityArtist); got != 2 {
		t.Fatalf("artist writes = %d, want 2", got)
	}

	var itemID string
	for _, w := range s.writes {
		if w.entity == target.EntityItem {
			itemID = w.id
		}
	}
	if len(s.attachedTags[itemID]) != 3 {
		t.Fatalf("attached tags = %d, want 3", len(s.attachedTags[itemID]))
	}
	if len(s.attachedArt[itemID]) != 2 {
		t.Fatalf("attached artists = %d, want 2", len(s.attachedArt[itemID]))
	}
}

func TestObjectImporterStructuredMaterialIsOneTag(t *testing.T) {
	row := objectRow("en", "Kilim", "desc")
	row.Material = ns("Warp: Light brown wool; Weft: Red wool")
	q := &fakeQuerier{objects: []legacy.ObjectRow{row}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	NewObjectImporter(c).Import(context.Background())

	if got := s.countByEntity(target.EntityTag); got != 1 {
		t.Fatalf("tag writes = %d, want 1 structured tag", got)
	}
}

func TestObjectImporterPreparatorBecomesAuthor(t *testing.T) {
	row := objectRow("en", "Bowl", "desc")
	row.Preparator = ns("Maria Rossi")
	q := &fakeQuerier{objects: []legacy.ObjectRow{row}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	NewObjectImporter(c).Import(context.Background())

	var tr target.ItemTranslationData
	for _, w := range s.writes {
		if w.entity == target.EntityItemTranslation {
			tr = w.data.(target.ItemTranslationData)
		}
	}
	if tr.AuthorID == nil {
		t.Fatal("translation should carry the preparator as author")
	}
	if got := s.countByEntity(target.EntityAuthor); got != 1 {
		t.Fatalf("author writes = %d, want 1", got)
	}
}

func TestObjectImporterSecondRunSkips(t *testing.T) {
	q := &fakeQuerier{objects: []legacy.ObjectRow{
		objectRow("en", "Bowl", "desc"),
		objectRow("fr", "Bol", "desc"),
	}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)
	imp := NewObjectImporter(c)

	imp.Import(context.Background())
	second := imp.Import(context.Background())

	if second.Imported != 0 || second.Skipped != 1 {
		t.Fatalf("second run imported = %d skipped = %d, want 0/1",
			second.Imported, second.Skipped)
	}
}

func TestObjectImporterUnknownLanguageRowIsIsolated(t *testing.T) {
	q := &fakeQuerier{objects: []legacy.ObjectRow{
		objectRow("en", "Bowl", "desc"),
		objectRow("xx", "???", "desc"),
	}}
	s := newFakeStrategy()
	c := testContext(q, s)
	seedDefaults(c)

	res := NewObjectImporter(c).Import(context.Background())

	if res.Imported != 1 {
		t.Fatalf("imported = %d, want 1", res.Imported)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1 for the unknown language row", len(res.Errors))
	}
	if got := s.countByEntity(target.EntityItemTranslation); got != 1 {
		t.Fatalf("translation writes = %d, want 1", got)
	}
}
