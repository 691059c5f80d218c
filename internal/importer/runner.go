package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwnf/legacy-importer/internal/target"
)

// phase groups importers that run together; -phases selects by name.
type phase struct {
	name      string
	importers func(c *Context) []Importer
}

var phases = []phase{
	{"languages", func(c *Context) []Importer {
		return []Importer{NewLanguageImporter(c), NewLanguageTranslationImporter(c)}
	}},
	{"countries", func(c *Context) []Importer {
		return []Importer{NewCountryImporter(c), NewCountryTranslationImporter(c)}
	}},
	{"contexts", func(c *Context) []Importer {
		return []Importer{NewContextImporter(c)}
	}},
	{"glossary", func(c *Context) []Importer {
		return []Importer{NewGlossaryImporter(c), NewGlossaryTranslationImporter(c), NewGlossarySpellingImporter(c)}
	}},
	{"objects", func(c *Context) []Importer {
		return []Importer{NewObjectImporter(c)}
	}},
}

// PhaseNames lists the valid -phases values in execution order.
func PhaseNames() []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.name
	}
	return names
}

// warmupEntities are the entity types read back into the tracker before a
// run, so a re-run against a populated target skips migrated rows instead
// of hitting uniqueness conflicts one by one. Translation entities carry
// backward-compatibility keys too and must be warmed, or a fresh process
// would re-insert every translation row.
var warmupEntities = []string{
	target.EntityLanguage,
	target.EntityLanguageTranslation,
	target.EntityCountry,
	target.EntityCountryTranslation,
	target.EntityContext,
	target.EntityGlossary,
	target.EntityGlossaryTranslation,
	target.EntityGlossarySpelling,
	target.EntityItem,
	target.EntityItemTranslation,
	target.EntityTag,
	target.EntityAuthor,
	target.EntityArtist,
}

// Runner executes the import phases in dependency order. A failed
// importer never stops the run; later importers record their own errors
// for whatever the failure left missing.
type Runner struct {
	ctx *Context
}

func NewRunner(ctx *Context) *Runner {
	return &Runner{ctx: ctx}
}

// WarmTracker pages the target store's collections into the tracker.
// The tracker is not persisted between runs; this rebuilds it from what
// the target already holds.
func (r *Runner) WarmTracker(ctx context.Context) error {
	c := r.ctx

	searcher, ok := c.Strategy.(Searcher)
	if !ok {
		c.Log.Debug("Write backend cannot list entities, skipping tracker warm-up")
		return nil
	}

	before := c.Tracker.Len()
	for _, entity := range warmupEntities {
		for page := 1; page <= exhaustiveMaxSearchPages; page++ {
			resources, err := searcher.Index(ctx, entity, page, searchPerPage)
			if err != nil {
				return fmt.Errorf("failed to warm tracker for %s: %w", entity, err)
			}
			for _, res := range resources {
				if res.BackwardCompatibility == "" {
					continue
				}
				c.register(res.ID, res.BackwardCompatibility, entity)
			}
			if len(resources) < searchPerPage {
				break
			}
		}
	}

	c.Log.Info("Tracker warmed from target store", "entities", c.Tracker.Len()-before)
	return nil
}

// Run executes the selected phases (all when the list is empty) and
// returns the per-importer results. The boolean reports whether every
// importer finished without errors.
func (r *Runner) Run(ctx context.Context, selected []string) (map[string]*Result, bool) {
	c := r.ctx

	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[strings.TrimSpace(name)] = true
	}

	results := make(map[string]*Result)
	ok := true

	for _, p := range phases {
		if len(want) > 0 && !want[p.name] {
			continue
		}
		c.Log.Info("Running import phase", "phase", p.name)

		for _, imp := range p.importers(c) {
			select {
			case <-ctx.Done():
				c.Log.Warn("Import interrupted", "phase", p.name, "importer", imp.Name())
				return results, false
			default:
			}

			res := imp.Import(ctx)
			results[imp.Name()] = res
			if !res.Success {
				ok = false
				c.Log.Error("Importer finished with errors",
					"importer", imp.Name(), "errors", len(res.Errors))
			}
		}
	}

	logTotals(c, results)
	return results, ok
}

func logTotals(c *Context, results map[string]*Result) {
	var imported, skipped, errs int
	for _, res := range results {
		imported += res.Imported
		skipped += res.Skipped
		errs += len(res.Errors)
	}
	c.Log.Info("Import run complete",
		"imported", imported, "skipped", skipped, "errors", errs)
}

// ValidatePhases rejects unknown -phases values before any work starts.
func ValidatePhases(selected []string) error {
	known := make(map[string]bool, len(phases))
	for _, p := range phases {
		known[p.name] = true
	}
	for _, name := range selected {
		name = strings.TrimSpace(name)
		if name != "" && !known[name] {
			return fmt.Errorf("unknown phase %q, valid phases: %s",
				name, strings.Join(PhaseNames(), ", "))
		}
	}
	return nil
}
