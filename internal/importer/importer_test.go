package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mwnf/legacy-importer/internal/legacy"
	"github.com/mwnf/legacy-importer/internal/target"
	"github.com/mwnf/legacy-importer/internal/tracker"
	"github.com/mwnf/legacy-importer/pkg/logger"
)

// fakeQuerier serves canned legacy rows.
type fakeQuerier struct {
	words     []legacy.GlossaryWord
	defs      []legacy.GlossaryDefinition
	spellings []legacy.GlossarySpelling
	objects   []legacy.ObjectRow
	err       error
}

func (f *fakeQuerier) GlossaryWords(ctx context.Context) ([]legacy.GlossaryWord, error) {
	return f.words, f.err
}

func (f *fakeQuerier) GlossaryDefinitions(ctx context.Context) ([]legacy.GlossaryDefinition, error) {
	return f.defs, f.err
}

func (f *fakeQuerier) GlossarySpellings(ctx context.Context) ([]legacy.GlossarySpelling, error) {
	return f.spellings, f.err
}

func (f *fakeQuerier) Objects(ctx context.Context) ([]legacy.ObjectRow, error) {
	return f.objects, f.err
}

// created is one recorded write.
type created struct {
	entity string
	id     string
	key    string
	data   interface{}
}

// fakeStrategy records writes and hands out sequential identifiers.
// conflictKeys makes specific creates fail with ConflictError; indexed
// backs the Searcher fallback.
type fakeStrategy struct {
	seq          int
	writes       []created
	byKey        map[string]string
	conflictKeys map[string]bool
	indexed      map[string][]target.Resource
	attachedTags map[string][]string
	attachedArt  map[string][]string
	failWith     error
}

func newFakeStrategy() *fakeStrategy {
	return &fakeStrategy{
		byKey:        make(map[string]string),
		conflictKeys: make(map[string]bool),
		indexed:      make(map[string][]target.Resource),
		attachedTags: make(map[string][]string),
		attachedArt:  make(map[string][]string),
	}
}

func (f *fakeStrategy) create(entity, key string, data interface{}) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	if f.conflictKeys[key] {
		return "", &target.ConflictError{Entity: entity, Detail: key}
	}
	f.seq++
	id := fmt.Sprintf("%s-%d", entity, f.seq)
	f.writes = append(f.writes, created{entity: entity, id: id, key: key, data: data})
	if key != "" {
		f.byKey[entity+"|"+key] = id
	}
	return id, nil
}

func (f *fakeStrategy) WriteLanguage(ctx context.Context, data target.LanguageData) (string, error) {
	if _, err := f.create(target.EntityLanguage, data.BackwardCompatibility, data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func (f *fakeStrategy) WriteLanguageTranslation(ctx context.Context, data target.LanguageTranslationData) error {
	_, err := f.create(target.EntityLanguageTranslation, data.BackwardCompatibility, data)
	return err
}

func (f *fakeStrategy) WriteCountry(ctx context.Context, data target.CountryData) (string, error) {
	if _, err := f.create(target.EntityCountry, data.BackwardCompatibility, data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func (f *fakeStrategy) WriteCountryTranslation(ctx context.Context, data target.CountryTranslationData) error {
	_, err := f.create(target.EntityCountryTranslation, data.BackwardCompatibility, data)
	return err
}

func (f *fakeStrategy) WriteContext(ctx context.Context, data target.ContextData) (string, error) {
	return f.create(target.EntityContext, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) WriteGlossary(ctx context.Context, data target.GlossaryData) (string, error) {
	return f.create(target.EntityGlossary, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) WriteGlossaryTranslation(ctx context.Context, data target.GlossaryTranslationData) error {
	_, err := f.create(target.EntityGlossaryTranslation, data.BackwardCompatibility, data)
	return err
}

func (f *fakeStrategy) WriteGlossarySpelling(ctx context.Context, data target.GlossarySpellingData) (string, error) {
	return f.create(target.EntityGlossarySpelling, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) WriteItem(ctx context.Context, data target.ItemData) (string, error) {
	return f.create(target.EntityItem, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) WriteItemTranslation(ctx context.Context, data target.ItemTranslationData) error {
	_, err := f.create(target.EntityItemTranslation, data.BackwardCompatibility, data)
	return err
}

func (f *fakeStrategy) WriteTag(ctx context.Context, data target.TagData) (string, error) {
	return f.create(target.EntityTag, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) WriteAuthor(ctx context.Context, data target.AuthorData) (string, error) {
	return f.create(target.EntityAuthor, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) WriteArtist(ctx context.Context, data target.ArtistData) (string, error) {
	return f.create(target.EntityArtist, data.BackwardCompatibility, data)
}

func (f *fakeStrategy) AttachTagsToItem(ctx context.Context, itemID string, tagIDs []string) error {
	f.attachedTags[itemID] = append(f.attachedTags[itemID], tagIDs...)
	return nil
}

func (f *fakeStrategy) AttachArtistsToItem(ctx context.Context, itemID string, artistIDs []string) error {
	f.attachedArt[itemID] = append(f.attachedArt[itemID], artistIDs...)
	return nil
}

func (f *fakeStrategy) FindByBackwardCompatibility(ctx context.Context, entity, key string) (string, error) {
	return f.byKey[entity+"|"+key], nil
}

func (f *fakeStrategy) Index(ctx context.Context, entity string, page, perPage int) ([]target.Resource, error) {
	all := f.indexed[entity]
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// countByEntity tallies recorded writes for one entity type.
func (f *fakeStrategy) countByEntity(entity string) int {
	n := 0
	for _, w := range f.writes {
		if w.entity == entity {
			n++
		}
	}
	return n
}

var errBackend = errors.New("backend unavailable")

func testContext(q legacy.Querier, s target.Strategy) *Context {
	return &Context{
		Legacy:          q,
		Strategy:        s,
		Tracker:         tracker.NewMemory(),
		Log:             logger.New("error", "text"),
		Schema:          "mwnf3",
		DefaultLanguage: "eng",
		DefaultContext:  "legacy import",
	}
}

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
