// Package codes maps legacy 2-character language and country codes to
// their ISO 639-3 / ISO 3166-1 alpha-3 equivalents.
//
// The tables map the ACTUAL codes found in the legacy database, not
// standard ISO alpha-2 codes: several legacy codes are custom (e.g. 'se'
// for Swedish instead of 'sv', 'ab' for Albania instead of 'al'). An
// unknown code is a hard error, never a silent pass-through, because a
// silently skipped mapping would corrupt referential integrity downstream.
package codes

import "fmt"

// UnknownCodeError reports a legacy code with no mapping entry.
type UnknownCodeError struct {
	Kind string // "language" or "country"
	Code string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown %s code %q: add a mapping to the %s table in package codes",
		e.Kind, e.Code, e.Kind)
}

// languageCodes maps legacy 2-character language codes to ISO 639-3.
var languageCodes = map[string]string{
	// Legacy codes that match ISO 639-1
	"ar": "ara", // Arabic
	"cs": "ces", // Czech
	"de": "deu", // German
	"en": "eng", // English
	"es": "spa", // Spanish
	"fa": "fas", // Farsi/Persian
	"fr": "fra", // French
	"he": "heb", // Hebrew
	"hr": "hrv", // Croatian
	"hu": "hun", // Hungarian
	"it": "ita", // Italian
	"ja": "jpn", // Japanese
	"pt": "por", // Portuguese
	"ru": "rus", // Russian
	"tr": "tur", // Turkish
	"zh": "zho", // Chinese
	"el": "ell", // Greek

	// Legacy-specific non-standard codes
	"ch": "zho", // Chinese (legacy 'ch', standard ISO 'zh')
	"se": "swe", // Swedish (legacy 'se', standard ISO 'sv')
	"si": "slv", // Slovenian (legacy 'si', standard ISO 'sl')
}

// countryCodes maps legacy 2-character country codes to ISO 3166-1 alpha-3.
var countryCodes = map[string]string{
	// Legacy codes that happen to match ISO 3166-1 alpha-2
	"at": "aut", // Austria
	"az": "aze", // Azerbaijan
	"be": "bel", // Belgium
	"br": "bra", // Brazil
	"ca": "can", // Canada
	"cz": "cze", // Czech Republic
	"de": "deu", // Germany
	"dz": "dza", // Algeria
	"eg": "egy", // Egypt
	"es": "esp", // Spain
	"fr": "fra", // France
	"gr": "grc", // Greece
	"hr": "hrv", // Croatia
	"hu": "hun", // Hungary
	"iq": "irq", // Iraq
	"jo": "jor", // Jordan
	"jp": "jpn", // Japan
	"lb": "lbn", // Lebanon
	"ly": "lby", // Libya
	"ma": "mar", // Morocco
	"pl": "pol", // Poland
	"pt": "prt", // Portugal
	"ro": "rou", // Romania
	"ru": "rus", // Russia
	"sa": "sau", // Saudi Arabia
	"sy": "syr", // Syria
	"tn": "tun", // Tunisia
	"tr": "tur", // Turkey

	// Legacy-specific non-standard codes
	"ab": "alb",   // Albania (standard ISO 'al')
	"ag": "arg",   // Argentina (standard ISO 'ar')
	"al": "aus",   // Australia (standard ISO 'au')
	"bg": "bgd",   // Bangladesh (standard ISO 'bd')
	"bh": "bhr",   // Bahrain
	"bl": "blr",   // Belarus (standard ISO 'by')
	"bs": "bih",   // Bosnia-Herzegovina (standard ISO 'ba')
	"bu": "bgr",   // Bulgaria (standard ISO 'bg')
	"ch": "chn",   // China (standard ISO 'cn')
	"co": "com",   // Comoros (standard ISO 'km')
	"cy": "cyp",   // Cyprus
	"dj": "dji",   // Djibouti
	"dn": "dnk",   // Denmark (standard ISO 'dk')
	"et": "est",   // Estonia (standard ISO 'ee')
	"fn": "fin",   // Finland (standard ISO 'fi')
	"ge": "geo",   // Georgia
	"ia": "irn",   // Iran (standard ISO 'ir')
	"is": "isr",   // Israel (standard ISO 'il')
	"ix": "ita",   // Italy/Sicily (legacy regional variant)
	"ln": "ltu",   // Lithuania (standard ISO 'lt')
	"lt": "lva",   // Latvia (standard ISO 'lv')
	"lx": "lux",   // Luxembourg (standard ISO 'lu')
	"mc": "mkd",   // North Macedonia (standard ISO 'mk')
	"md": "mda",   // Moldova
	"ml": "mlt",   // Malta (standard ISO 'mt')
	"mn": "mne",   // Montenegro (standard ISO 'me')
	"mt": "mrt",   // Mauritania (standard ISO 'mr')
	"nt": "nld",   // Netherlands (standard ISO 'nl')
	"on": "omn",   // Oman (standard ISO 'om')
	"pa": "pse",   // Palestine (standard ISO 'ps')
	"pd": "zzzpd", // Public domain (special: no specific country)
	"px": "pse",   // Palestinian Territories (alternative)
	"qt": "qat",   // Qatar (standard ISO 'qa')
	"rm": "rou",   // Romania (standard ISO 'ro')
	"sb": "srb",   // Serbia (standard ISO 'rs')
	"sd": "sdn",   // Sudan
	"sf": "zaf",   // South Africa (standard ISO 'za')
	"sl": "svk",   // Slovakia (standard ISO 'sk')
	"so": "som",   // Somalia
	"sw": "che",   // Switzerland (standard ISO 'ch')
	"uc": "ukr",   // Ukraine (standard ISO 'ua')
	"uk": "gbr",   // United Kingdom (standard ISO 'gb')
	"va": "vat",   // Vatican City
	"ww": "zzzww", // Other/Worldwide (special: no specific country)
	"ym": "yem",   // Yemen (standard ISO 'ye')
}

// MapLanguageCode maps a legacy 2-character language code to its ISO 639-3
// code. Returns an UnknownCodeError when no mapping exists.
func MapLanguageCode(legacy string) (string, error) {
	mapped, ok := languageCodes[legacy]
	if !ok {
		return "", &UnknownCodeError{Kind: "language", Code: legacy}
	}
	return mapped, nil
}

// MapCountryCode maps a legacy 2-character country code to its ISO 3166-1
// alpha-3 code. Returns an UnknownCodeError when no mapping exists.
func MapCountryCode(legacy string) (string, error) {
	mapped, ok := countryCodes[legacy]
	if !ok {
		return "", &UnknownCodeError{Kind: "country", Code: legacy}
	}
	return mapped, nil
}

// LanguageCodes returns a copy of the legacy-to-ISO language table, used
// by the language importer to seed reference data.
func LanguageCodes() map[string]string {
	out := make(map[string]string, len(languageCodes))
	for k, v := range languageCodes {
		out[k] = v
	}
	return out
}

// CountryCodes returns a copy of the legacy-to-ISO country table.
func CountryCodes() map[string]string {
	out := make(map[string]string, len(countryCodes))
	for k, v := range countryCodes {
		out[k] = v
	}
	return out
}
