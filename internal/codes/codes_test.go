package codes

import (
	"errors"
	"testing"
)

func TestMapLanguageCode(t *testing.T) {
	cases := map[string]string{
		"en": "eng",
		"fr": "fra",
		"ar": "ara",
		// Non-standard legacy codes
		"se": "swe",
		"ch": "zho",
		"si": "slv",
	}
	for legacy, want := range cases {
		got, err := MapLanguageCode(legacy)
		if err != nil {
			t.Fatalf("MapLanguageCode(%q) failed: %v", legacy, err)
		}
		if got != want {
			t.Errorf("MapLanguageCode(%q) = %q, want %q", legacy, got, want)
		}
	}
}

func TestMapCountryCode(t *testing.T) {
	cases := map[string]string{
		"ma": "mar",
		"eg": "egy",
		// Non-standard legacy codes
		"ab": "alb",
		"uk": "gbr",
		"sw": "che",
		"pd": "zzzpd",
	}
	for legacy, want := range cases {
		got, err := MapCountryCode(legacy)
		if err != nil {
			t.Fatalf("MapCountryCode(%q) failed: %v", legacy, err)
		}
		if got != want {
			t.Errorf("MapCountryCode(%q) = %q, want %q", legacy, got, want)
		}
	}
}

func TestUnknownCodes(t *testing.T) {
	if _, err := MapLanguageCode("xx"); err == nil {
		t.Fatal("expected error for unknown language code")
	} else {
		var unknown *UnknownCodeError
		if !errors.As(err, &unknown) {
			t.Fatalf("error type = %T, want *UnknownCodeError", err)
		}
		if unknown.Code != "xx" || unknown.Kind != "language" {
			t.Errorf("error fields = %+v", unknown)
		}
	}

	if _, err := MapCountryCode("zz"); err == nil {
		t.Fatal("expected error for unknown country code")
	}
}

// Every mapped value must be a valid 3-character code (the zzz* special
// codes excepted, which are deliberately longer).
func TestMappingTotality(t *testing.T) {
	for legacy, iso := range LanguageCodes() {
		if len(iso) != 3 {
			t.Errorf("language %q maps to %q, want 3 characters", legacy, iso)
		}
	}
	for legacy, iso := range CountryCodes() {
		if len(iso) != 3 && iso != "zzzpd" && iso != "zzzww" {
			t.Errorf("country %q maps to %q, want 3 characters", legacy, iso)
		}
	}
}
