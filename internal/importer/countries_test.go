package importer

import (
	"context"
	"testing"

	"github.com/mwnf/legacy-importer/internal/codes"
)

func TestCountrySeedsAgreeWithCodeTable(t *testing.T) {
	table := codes.CountryCodes()

	seen := make(map[string]string)
	for _, seed := range countrySeeds {
		for _, code := range append([]string{seed.Legacy}, seed.Aliases...) {
			mapped, ok := table[code]
			if !ok {
				t.Errorf("seed %s: legacy code %q missing from the code table", seed.ID, code)
				continue
			}
			if mapped != seed.ID {
				t.Errorf("seed %s: code table maps %q to %q", seed.ID, code, mapped)
			}
			if prev, dup := seen[code]; dup {
				t.Errorf("legacy code %q claimed by both %s and %s", code, prev, seed.ID)
			}
			seen[code] = seed.ID
		}
	}

	// Every legacy code in the table must resolve through some seed.
	for code := range table {
		if _, ok := seen[code]; !ok {
			t.Errorf("legacy code %q has no country seed", code)
		}
	}
}

func TestCountryImporterRegistersAliases(t *testing.T) {
	s := newFakeStrategy()
	c := testContext(&fakeQuerier{}, s)

	res := NewCountryImporter(c).Import(context.Background())
	if !res.Success {
		t.Fatalf("errors: %v", res.Errors)
	}

	primary, ok := c.Tracker.GetUUID("pa")
	if !ok {
		t.Fatal("primary legacy code not registered")
	}
	alias, ok := c.Tracker.GetUUID("px")
	if !ok {
		t.Fatal("alias legacy code not registered")
	}
	if primary != alias {
		t.Fatalf("alias resolves to %q, primary to %q", alias, primary)
	}
}

func TestCountryImporterSecondRunSkips(t *testing.T) {
	s := newFakeStrategy()
	c := testContext(&fakeQuerier{}, s)
	imp := NewCountryImporter(c)

	imp.Import(context.Background())
	second := imp.Import(context.Background())

	if second.Imported != 0 || second.Skipped != len(countrySeeds) {
		t.Fatalf("second run imported = %d skipped = %d, want 0/%d",
			second.Imported, second.Skipped, len(countrySeeds))
	}
}
