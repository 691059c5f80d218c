package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mwnf/legacy-importer/internal/codes"
	"github.com/mwnf/legacy-importer/internal/compat"
	"github.com/mwnf/legacy-importer/internal/target"
)

// glossaryKey builds the backward-compatibility key for a glossary word.
func glossaryKey(schema string, wordID int64) string {
	return compat.Format(compat.Reference{
		Schema:   schema,
		Table:    "glossary",
		PKValues: []string{strconv.FormatInt(wordID, 10)},
	})
}

// GlossaryImporter migrates glossary words. A word with an empty name
// gets the synthetic name word_{id} so the record is still reachable in
// the new system.
type GlossaryImporter struct {
	ctx *Context
}

func NewGlossaryImporter(ctx *Context) *GlossaryImporter {
	return &GlossaryImporter{ctx: ctx}
}

func (i *GlossaryImporter) Name() string { return "GlossaryImporter" }

func (i *GlossaryImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	words, err := c.Legacy.GlossaryWords(ctx)
	if err != nil {
		result.RecordError("query glossary words: %v", err)
		result.Success = false
		return result
	}

	c.Log.Info("Importing glossary words", "count", len(words))

	for _, word := range words {
		key := glossaryKey(c.Schema, word.WordID)

		if c.Tracker.Exists(key) {
			result.Skipped++
			continue
		}

		name := strings.TrimSpace(word.Name.String)
		if name == "" {
			name = fmt.Sprintf("word_%d", word.WordID)
		}

		if c.skipWrites() {
			c.Log.Info("Would import glossary word",
				"mode", c.mode(), "word_id", word.WordID, "name", name)
			c.register("", key, target.EntityGlossary)
			result.Imported++
			continue
		}

		id, err := c.Strategy.WriteGlossary(ctx, target.GlossaryData{
			InternalName:          name,
			BackwardCompatibility: key,
		})
		if err != nil {
			result.RecordError("Glossary word %d: %v", word.WordID, err)
			c.Log.Error("Failed to import glossary word", "word_id", word.WordID, "error", err)
			continue
		}

		c.register(id, key, target.EntityGlossary)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}

// GlossaryTranslationImporter migrates glossary definitions. Rows with an
// empty definition are skipped, not errors: the legacy schema holds one
// row per (word, language) whether or not a definition was ever written.
type GlossaryTranslationImporter struct {
	ctx *Context
}

func NewGlossaryTranslationImporter(ctx *Context) *GlossaryTranslationImporter {
	return &GlossaryTranslationImporter{ctx: ctx}
}

func (i *GlossaryTranslationImporter) Name() string { return "GlossaryTranslationImporter" }

func (i *GlossaryTranslationImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	defs, err := c.Legacy.GlossaryDefinitions(ctx)
	if err != nil {
		result.RecordError("query glossary definitions: %v", err)
		result.Success = false
		return result
	}

	c.Log.Info("Importing glossary definitions", "count", len(defs))

	for _, def := range defs {
		definition := strings.TrimSpace(def.Definition.String)
		if definition == "" {
			result.Skipped++
			continue
		}

		key := compat.Format(compat.Reference{
			Schema:   c.Schema,
			Table:    "gl_definitions",
			PKValues: []string{strconv.FormatInt(def.WordID, 10), def.LangID},
		})
		if c.Tracker.Exists(key) {
			result.Skipped++
			continue
		}

		languageID, err := codes.MapLanguageCode(def.LangID)
		if err != nil {
			result.RecordError("Definition %d/%s: %v", def.WordID, def.LangID, err)
			continue
		}

		parentKey := glossaryKey(c.Schema, def.WordID)
		glossaryID, ok := c.Tracker.GetUUID(parentKey)
		if !ok {
			result.RecordError("Definition %d/%s: glossary word %d not imported",
				def.WordID, def.LangID, def.WordID)
			continue
		}

		if c.skipWrites() {
			c.register("", key, target.EntityGlossaryTranslation)
			result.Imported++
			continue
		}

		err = c.Strategy.WriteGlossaryTranslation(ctx, target.GlossaryTranslationData{
			GlossaryID:            glossaryID,
			LanguageID:            languageID,
			Definition:            definition,
			BackwardCompatibility: key,
		})
		if err != nil {
			result.RecordError("Definition %d/%s: %v", def.WordID, def.LangID, err)
			c.Log.Error("Failed to import glossary definition",
				"word_id", def.WordID, "lang", def.LangID, "error", err)
			continue
		}

		c.register("", key, target.EntityGlossaryTranslation)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}

// GlossarySpellingImporter migrates alternative spellings of glossary
// words. Empty spellings are skipped.
type GlossarySpellingImporter struct {
	ctx *Context
}

func NewGlossarySpellingImporter(ctx *Context) *GlossarySpellingImporter {
	return &GlossarySpellingImporter{ctx: ctx}
}

func (i *GlossarySpellingImporter) Name() string { return "GlossarySpellingImporter" }

func (i *GlossarySpellingImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	spellings, err := c.Legacy.GlossarySpellings(ctx)
	if err != nil {
		result.RecordError("query glossary spellings: %v", err)
		result.Success = false
		return result
	}

	c.Log.Info("Importing glossary spellings", "count", len(spellings))

	for _, sp := range spellings {
		spelling := strings.TrimSpace(sp.Spelling)
		if spelling == "" {
			result.Skipped++
			continue
		}

		key := compat.Format(compat.Reference{
			Schema:   c.Schema,
			Table:    "gl_spellings",
			PKValues: []string{strconv.FormatInt(sp.SpellingID, 10)},
		})
		if c.Tracker.Exists(key) {
			result.Skipped++
			continue
		}

		languageID, err := codes.MapLanguageCode(sp.LangID)
		if err != nil {
			result.RecordError("Spelling %d: %v", sp.SpellingID, err)
			continue
		}

		parentKey := glossaryKey(c.Schema, sp.WordID)
		glossaryID, ok := c.Tracker.GetUUID(parentKey)
		if !ok {
			result.RecordError("Spelling %d: glossary word %d not imported",
				sp.SpellingID, sp.WordID)
			continue
		}

		if c.skipWrites() {
			c.register("", key, target.EntityGlossarySpelling)
			result.Imported++
			continue
		}

		id, err := c.Strategy.WriteGlossarySpelling(ctx, target.GlossarySpellingData{
			GlossaryID:            glossaryID,
			LanguageID:            languageID,
			Spelling:              spelling,
			BackwardCompatibility: key,
		})
		if err != nil {
			result.RecordError("Spelling %d: %v", sp.SpellingID, err)
			c.Log.Error("Failed to import glossary spelling",
				"spelling_id", sp.SpellingID, "error", err)
			continue
		}

		c.register(id, key, target.EntityGlossarySpelling)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}
