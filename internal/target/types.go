// Package target persists migrated entities into the new system. Two
// interchangeable backends implement the same write contract: direct SQL
// statements for bulk offline migration, and HTTP calls against the
// system's REST API.
package target

import (
	"context"
	"fmt"
)

// Entity type names, used as tracker entity types and API path segments.
const (
	EntityLanguage            = "language"
	EntityLanguageTranslation = "language_translation"
	EntityCountry             = "country"
	EntityCountryTranslation  = "country_translation"
	EntityContext             = "context"
	EntityGlossary            = "glossary"
	EntityGlossaryTranslation = "glossary_translation"
	EntityGlossarySpelling    = "glossary_spelling"
	EntityItem                = "item"
	EntityItemTranslation     = "item_translation"
	EntityTag                 = "tag"
	EntityAuthor              = "author"
	EntityArtist              = "artist"
)

// ConflictError reports a uniqueness conflict from the write backend
// (HTTP 422, or a duplicate-key database error). Callers run the bounded
// search fallback instead of treating it as terminal.
type ConflictError struct {
	Entity string
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Detail)
}

// LanguageData describes a language record. The ID is the ISO 639-3 code.
type LanguageData struct {
	ID                    string `json:"id"`
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
	IsDefault             bool   `json:"is_default"`
}

// LanguageTranslationData describes the name of one language in another.
type LanguageTranslationData struct {
	LanguageID            string `json:"language_id"`
	DisplayLanguageID     string `json:"display_language_id"`
	Name                  string `json:"name"`
	BackwardCompatibility string `json:"backward_compatibility"`
}

// CountryData describes a country record. The ID is the ISO 3166-1
// alpha-3 code.
type CountryData struct {
	ID                    string `json:"id"`
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
}

// CountryTranslationData describes the name of a country in one language.
type CountryTranslationData struct {
	CountryID             string `json:"country_id"`
	LanguageID            string `json:"language_id"`
	Name                  string `json:"name"`
	BackwardCompatibility string `json:"backward_compatibility"`
}

// ContextData describes a content context.
type ContextData struct {
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
	IsDefault             bool   `json:"is_default"`
}

// GlossaryData describes a glossary word.
type GlossaryData struct {
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
}

// GlossaryTranslationData describes a glossary definition in one language.
type GlossaryTranslationData struct {
	GlossaryID            string `json:"glossary_id"`
	LanguageID            string `json:"language_id"`
	Definition            string `json:"definition"`
	BackwardCompatibility string `json:"backward_compatibility"`
}

// GlossarySpellingData describes one spelling of a glossary word.
type GlossarySpellingData struct {
	GlossaryID            string `json:"glossary_id"`
	LanguageID            string `json:"language_id"`
	Spelling              string `json:"spelling"`
	BackwardCompatibility string `json:"backward_compatibility"`
}

// ItemData describes an inventory item (object, monument, detail or
// picture).
type ItemData struct {
	Type                  string  `json:"type"`
	InternalName          string  `json:"internal_name"`
	BackwardCompatibility string  `json:"backward_compatibility"`
	CountryID             *string `json:"country_id,omitempty"`
	PartnerID             *string `json:"partner_id,omitempty"`
	ProjectID             *string `json:"project_id,omitempty"`
	ParentID              *string `json:"parent_id,omitempty"`
	OwnerReference        *string `json:"owner_reference,omitempty"`
	MWNFReference         *string `json:"mwnf_reference,omitempty"`
}

// ItemTranslationData describes an item's content in one language.
type ItemTranslationData struct {
	ItemID                string  `json:"item_id"`
	LanguageID            string  `json:"language_id"`
	ContextID             string  `json:"context_id"`
	BackwardCompatibility string  `json:"backward_compatibility"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	AlternateName         *string `json:"alternate_name,omitempty"`
	Holder                *string `json:"holder,omitempty"`
	Dates                 *string `json:"dates,omitempty"`
	Location              *string `json:"location,omitempty"`
	Dimensions            *string `json:"dimensions,omitempty"`
	PlaceOfProduction     *string `json:"place_of_production,omitempty"`
	Bibliography          *string `json:"bibliography,omitempty"`
	AuthorID              *string `json:"author_id,omitempty"`
}

// TagData describes a tag. InternalName is the lowercase identity; the
// original casing is preserved in Description for display.
type TagData struct {
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
	Category              string `json:"category"`
	LanguageID            string `json:"language_id"`
	Description           string `json:"description,omitempty"`
}

// AuthorData describes an author (of item texts).
type AuthorData struct {
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
	Name                  string `json:"name"`
}

// ArtistData describes an artist.
type ArtistData struct {
	InternalName          string  `json:"internal_name"`
	BackwardCompatibility string  `json:"backward_compatibility"`
	Name                  string  `json:"name"`
	PlaceOfBirth          *string `json:"place_of_birth,omitempty"`
	PlaceOfDeath          *string `json:"place_of_death,omitempty"`
	DateOfBirth           *string `json:"date_of_birth,omitempty"`
	DateOfDeath           *string `json:"date_of_death,omitempty"`
	PeriodOfActivity      *string `json:"period_of_activity,omitempty"`
}

// Strategy is the entity-creation contract both backends implement. Every
// create returns the identifier assigned in the new system. Idempotence
// lives at the caller: importers consult the tracker (and
// FindByBackwardCompatibility) before writing, so each logical source row
// is written at most once per run.
type Strategy interface {
	WriteLanguage(ctx context.Context, data LanguageData) (string, error)
	WriteLanguageTranslation(ctx context.Context, data LanguageTranslationData) error
	WriteCountry(ctx context.Context, data CountryData) (string, error)
	WriteCountryTranslation(ctx context.Context, data CountryTranslationData) error
	WriteContext(ctx context.Context, data ContextData) (string, error)
	WriteGlossary(ctx context.Context, data GlossaryData) (string, error)
	WriteGlossaryTranslation(ctx context.Context, data GlossaryTranslationData) error
	WriteGlossarySpelling(ctx context.Context, data GlossarySpellingData) (string, error)
	WriteItem(ctx context.Context, data ItemData) (string, error)
	WriteItemTranslation(ctx context.Context, data ItemTranslationData) error
	WriteTag(ctx context.Context, data TagData) (string, error)
	WriteAuthor(ctx context.Context, data AuthorData) (string, error)
	WriteArtist(ctx context.Context, data ArtistData) (string, error)

	AttachTagsToItem(ctx context.Context, itemID string, tagIDs []string) error
	AttachArtistsToItem(ctx context.Context, itemID string, artistIDs []string) error

	// FindByBackwardCompatibility looks the entity up in the target store
	// by its backward-compatibility key. Returns "" with a nil error when
	// absent.
	FindByBackwardCompatibility(ctx context.Context, entity, key string) (string, error)
}
