package importer

import (
	"context"

	"github.com/mwnf/legacy-importer/internal/target"
)

// countrySeed is the reference data for one country. Legacy is the
// primary legacy 2-character code and becomes the backward-compatibility
// key; Aliases are additional legacy codes that resolve to the same
// country and are registered in the tracker so per-row lookups succeed.
type countrySeed struct {
	ID           string // ISO 3166-1 alpha-3
	InternalName string
	Legacy       string
	Aliases      []string
}

var countrySeeds = []countrySeed{
	{ID: "alb", InternalName: "Albania", Legacy: "ab"},
	{ID: "arg", InternalName: "Argentina", Legacy: "ag"},
	{ID: "aus", InternalName: "Australia", Legacy: "al"},
	{ID: "aut", InternalName: "Austria", Legacy: "at"},
	{ID: "aze", InternalName: "Azerbaijan", Legacy: "az"},
	{ID: "bel", InternalName: "Belgium", Legacy: "be"},
	{ID: "bgd", InternalName: "Bangladesh", Legacy: "bg"},
	{ID: "bgr", InternalName: "Bulgaria", Legacy: "bu"},
	{ID: "bhr", InternalName: "Bahrain", Legacy: "bh"},
	{ID: "bih", InternalName: "Bosnia and Herzegovina", Legacy: "bs"},
	{ID: "blr", InternalName: "Belarus", Legacy: "bl"},
	{ID: "bra", InternalName: "Brazil", Legacy: "br"},
	{ID: "can", InternalName: "Canada", Legacy: "ca"},
	{ID: "che", InternalName: "Switzerland", Legacy: "sw"},
	{ID: "chn", InternalName: "China", Legacy: "ch"},
	{ID: "com", InternalName: "Comoros", Legacy: "co"},
	{ID: "cyp", InternalName: "Cyprus", Legacy: "cy"},
	{ID: "cze", InternalName: "Czech Republic", Legacy: "cz"},
	{ID: "deu", InternalName: "Germany", Legacy: "de"},
	{ID: "dji", InternalName: "Djibouti", Legacy: "dj"},
	{ID: "dnk", InternalName: "Denmark", Legacy: "dn"},
	{ID: "dza", InternalName: "Algeria", Legacy: "dz"},
	{ID: "egy", InternalName: "Egypt", Legacy: "eg"},
	{ID: "esp", InternalName: "Spain", Legacy: "es"},
	{ID: "est", InternalName: "Estonia", Legacy: "et"},
	{ID: "fin", InternalName: "Finland", Legacy: "fn"},
	{ID: "fra", InternalName: "France", Legacy: "fr"},
	{ID: "gbr", InternalName: "United Kingdom", Legacy: "uk"},
	{ID: "geo", InternalName: "Georgia", Legacy: "ge"},
	{ID: "grc", InternalName: "Greece", Legacy: "gr"},
	{ID: "hrv", InternalName: "Croatia", Legacy: "hr"},
	{ID: "hun", InternalName: "Hungary", Legacy: "hu"},
	{ID: "irn", InternalName: "Iran", Legacy: "ia"},
	{ID: "irq", InternalName: "Iraq", Legacy: "iq"},
	{ID: "isr", InternalName: "Israel", Legacy: "is"},
	{ID: "ita", InternalName: "Italy", Legacy: "ix"},
	{ID: "jor", InternalName: "Jordan", Legacy: "jo"},
	{ID: "jpn", InternalName: "Japan", Legacy: "jp"},
	{ID: "lbn", InternalName: "Lebanon", Legacy: "lb"},
	{ID: "lby", InternalName: "Libya", Legacy: "ly"},
	{ID: "ltu", InternalName: "Lithuania", Legacy: "ln"},
	{ID: "lux", InternalName: "Luxembourg", Legacy: "lx"},
	{ID: "lva", InternalName: "Latvia", Legacy: "lt"},
	{ID: "mar", InternalName: "Morocco", Legacy: "ma"},
	{ID: "mda", InternalName: "Moldova", Legacy: "md"},
	{ID: "mkd", InternalName: "North Macedonia", Legacy: "mc"},
	{ID: "mlt", InternalName: "Malta", Legacy: "ml"},
	{ID: "mne", InternalName: "Montenegro", Legacy: "mn"},
	{ID: "mrt", InternalName: "Mauritania", Legacy: "mt"},
	{ID: "nld", InternalName: "Netherlands", Legacy: "nt"},
	{ID: "omn", InternalName: "Oman", Legacy: "on"},
	{ID: "pol", InternalName: "Poland", Legacy: "pl"},
	{ID: "prt", InternalName: "Portugal", Legacy: "pt"},
	{ID: "pse", InternalName: "Palestine", Legacy: "pa", Aliases: []string{"px"}},
	{ID: "qat", InternalName: "Qatar", Legacy: "qt"},
	{ID: "rou", InternalName: "Romania", Legacy: "ro", Aliases: []string{"rm"}},
	{ID: "rus", InternalName: "Russia", Legacy: "ru"},
	{ID: "sau", InternalName: "Saudi Arabia", Legacy: "sa"},
	{ID: "sdn", InternalName: "Sudan", Legacy: "sd"},
	{ID: "som", InternalName: "Somalia", Legacy: "so"},
	{ID: "srb", InternalName: "Serbia", Legacy: "sb"},
	{ID: "svk", InternalName: "Slovakia", Legacy: "sl"},
	{ID: "syr", InternalName: "Syria", Legacy: "sy"},
	{ID: "tun", InternalName: "Tunisia", Legacy: "tn"},
	{ID: "tur", InternalName: "Turkey", Legacy: "tr"},
	{ID: "ukr", InternalName: "Ukraine", Legacy: "uc"},
	{ID: "vat", InternalName: "Vatican City", Legacy: "va"},
	{ID: "yem", InternalName: "Yemen", Legacy: "ym"},
	{ID: "zaf", InternalName: "South Africa", Legacy: "sf"},
	{ID: "zzzpd", InternalName: "Public Domain", Legacy: "pd"},
	{ID: "zzzww", InternalName: "Worldwide", Legacy: "ww"},
}

// CountryImporter writes the country reference data.
type CountryImporter struct {
	ctx *Context
}

func NewCountryImporter(ctx *Context) *CountryImporter {
	return &CountryImporter{ctx: ctx}
}

func (i *CountryImporter) Name() string { return "CountryImporter" }

func (i *CountryImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	c.Log.Info("Importing countries from reference data", "count", len(countrySeeds))

	for _, seed := range countrySeeds {
		if c.Tracker.Exists(seed.Legacy) {
			result.Skipped++
			continue
		}

		if c.skipWrites() {
			c.Log.Info("Would import country",
				"mode", c.mode(), "id", seed.ID, "name", seed.InternalName)
			i.registerAll(seed, seed.ID)
			result.Imported++
			continue
		}

		id, err := c.Strategy.WriteCountry(ctx, target.CountryData{
			ID:                    seed.ID,
			InternalName:          seed.InternalName,
			BackwardCompatibility: seed.Legacy,
		})
		if err != nil {
			result.RecordError("Country %s: %v", seed.ID, err)
			c.Log.Error("Failed to import country", "id", seed.ID, "error", err)
			continue
		}

		i.registerAll(seed, id)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}

// registerAll records the primary legacy code and every alias against the
// same country.
func (i *CountryImporter) registerAll(seed countrySeed, id string) {
	i.ctx.register(id, seed.Legacy, target.EntityCountry)
	for _, alias := range seed.Aliases {
		i.ctx.register(id, alias, target.EntityCountry)
	}
}

// CountryTranslationImporter writes the display name of every country in
// the default language.
type CountryTranslationImporter struct {
	ctx *Context
}

func NewCountryTranslationImporter(ctx *Context) *CountryTranslationImporter {
	return &CountryTranslationImporter{ctx: ctx}
}

func (i *CountryTranslationImporter) Name() string { return "CountryTranslationImporter" }

func (i *CountryTranslationImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	defaultLang, err := c.defaultLanguageID()
	if err != nil {
		result.RecordError("%v", err)
		result.Success = false
		return result
	}

	for _, seed := range countrySeeds {
		key := seed.Legacy + ":" + defaultLang

		if c.Tracker.Exists(key) {
			result.Skipped++
			continue
		}

		if c.skipWrites() {
			c.Log.Info("Would import country translation",
				"mode", c.mode(), "country", seed.ID)
			c.register("", key, target.EntityCountryTranslation)
			result.Imported++
			continue
		}

		err := c.Strategy.WriteCountryTranslation(ctx, target.CountryTranslationData{
			CountryID:             seed.ID,
			LanguageID:            defaultLang,
			Name:                  seed.InternalName,
			BackwardCompatibility: key,
		})
		if err != nil {
			result.RecordError("Country translation %s: %v", seed.ID, err)
			c.Log.Error("Failed to import country translation", "id", seed.ID, "error", err)
			continue
		}

		c.register("", key, target.EntityCountryTranslation)
		result.Imported++
	}

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}
