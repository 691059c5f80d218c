package importer

import (
	"context"

	"github.com/mwnf/legacy-importer/internal/target"
)

// languageSeed is the reference data for the languages the legacy system
// used. Languages are imported from this embedded table rather than the
// legacy database: the legacy schema has no language master table, only
// 2-character codes scattered across denormalized rows. The
// backward-compatibility key of a language is its legacy code.
type languageSeed struct {
	ID           string // ISO 639-3
	InternalName string
	Legacy       string // legacy 2-character code
}

var languageSeeds = []languageSeed{
	{ID: "eng", InternalName: "English", Legacy: "en"},
	{ID: "ara", InternalName: "Arabic", Legacy: "ar"},
	{ID: "ces", InternalName: "Czech", Legacy: "cs"},
	{ID: "deu", InternalName: "German", Legacy: "de"},
	{ID: "ell", InternalName: "Greek", Legacy: "el"},
	{ID: "spa", InternalName: "Spanish", Legacy: "es"},
	{ID: "fas", InternalName: "Persian", Legacy: "fa"},
	{ID: "fra", InternalName: "French", Legacy: "fr"},
	{ID: "heb", InternalName: "Hebrew", Legacy: "he"},
	{ID: "hrv", InternalName: "Croatian", Legacy: "hr"},
	{ID: "hun", InternalName: "Hungarian", Legacy: "hu"},
	{ID: "ita", InternalName: "Italian", Legacy: "it"},
	{ID: "jpn", InternalName: "Japanese", Legacy: "ja"},
	{ID: "por", InternalName: "Portuguese", Legacy: "pt"},
	{ID: "rus", InternalName: "Russian", Legacy: "ru"},
	{ID: "swe", InternalName: "Swedish", Legacy: "se"},
	{ID: "slv", InternalName: "Slovenian", Legacy: "si"},
	{ID: "tur", InternalName: "Turkish", Legacy: "tr"},
	{ID: "zho", InternalName: "Chinese", Legacy: "zh"},
}

// LanguageImporter writes the language reference data and records the
// configured default language in the tracker metadata. Runs first.
type LanguageImporter struct {
	ctx *Context
}

func NewLanguageImporter(ctx *Context) *LanguageImporter {
	return &LanguageImporter{ctx: ctx}
}

func (i *LanguageImporter) Name() string { return "LanguageImporter" }

func (i *LanguageImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	c.Log.Info("Importing languages from reference data", "count", len(languageSeeds))

	for _, seed := range languageSeeds {
		isDefault := seed.ID == c.DefaultLanguage
		if isDefault {
			c.Tracker.SetMeta(MetaDefaultLanguageID, seed.ID)
		}

		if c.Tracker.Exists(seed.Legacy) {
			result.Skipped++
			continue
		}

		if c.skipWrites() {
			c.Log.Info("Would import language",
				"mode", c.mode(), "id", seed.ID, "name", seed.InternalName)
			c.register(seed.ID, seed.Legacy, target.EntityLanguage)
			result.Imported++
			continue
		}

		id, err := c.Strategy.WriteLanguage(ctx, target.LanguageData{
			ID:                    seed.ID,
			InternalName:          seed.InternalName,
			BackwardCompatibility: seed.Legacy,
			IsDefault:             isDefault,
		})
		if err != nil {
			result.RecordError("Language %s: %v", seed.ID, err)
			c.Log.Error("Failed to import language", "id", seed.ID, "error", err)
			continue
		}

		c.register(id, seed.Legacy, target.EntityLanguage)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}

// LanguageTranslationImporter writes the display name of every language
// in the default language. Runs after LanguageImporter.
type LanguageTranslationImporter struct {
	ctx *Context
}

func NewLanguageTranslationImporter(ctx *Context) *LanguageTranslationImporter {
	return &LanguageTranslationImporter{ctx: ctx}
}

func (i *LanguageTranslationImporter) Name() string { return "LanguageTranslationImporter" }

func (i *LanguageTranslationImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	defaultLang, err := c.defaultLanguageID()
	if err != nil {
		result.RecordError("%v", err)
		result.Success = false
		return result
	}

	for _, seed := range languageSeeds {
		key := seed.Legacy + ":" + defaultLang

		if c.Tracker.Exists(key) {
			result.Skipped++
			continue
		}

		if c.skipWrites() {
			c.Log.Info("Would import language translation",
				"mode", c.mode(), "language", seed.ID)
			c.register("", key, target.EntityLanguageTranslation)
			result.Imported++
			continue
		}

		err := c.Strategy.WriteLanguageTranslation(ctx, target.LanguageTranslationData{
			LanguageID:            seed.ID,
			DisplayLanguageID:     defaultLang,
			Name:                  seed.InternalName,
			BackwardCompatibility: key,
		})
		if err != nil {
			result.RecordError("Language translation %s: %v", seed.ID, err)
			c.Log.Error("Failed to import language translation", "id", seed.ID, "error", err)
			continue
		}

		c.register("", key, target.EntityLanguageTranslation)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}
