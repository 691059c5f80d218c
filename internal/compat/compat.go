// Package compat builds and parses backward-compatibility keys.
//
// A backward-compatibility key is the stable composite identifier that
// records which legacy source row an entity in the new system was migrated
// from. It serializes as "schema:table:pk1:pk2:..." and is used both to
// deduplicate re-runs and to resolve cross-entity references.
package compat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat is returned when a string cannot be parsed as a
// backward-compatibility key.
var ErrFormat = errors.New("invalid backward-compatibility format")

// Separator joins the key segments. Values must not contain unescaped
// colons; the formatter does not escape them, matching the legacy data
// shape constraint documented in DESIGN.md.
const Separator = ":"

// minSegments is schema + table + at least one primary-key value.
const minSegments = 3

// Columns excluded by default when formatting denormalized keys, so that
// per-language rows of the same source entity collapse to one key.
var defaultLocaleColumns = []string{"lang", "language", "language_id"}

// Reference identifies a legacy source row: its schema, table, and the
// ordered primary-key values.
type Reference struct {
	Schema   string
	Table    string
	PKValues []string
}

// Format serializes a reference as schema:table:pk1:pk2:...
// Values are joined verbatim; embedded colons are not escaped.
func Format(ref Reference) string {
	parts := make([]string, 0, len(ref.PKValues)+2)
	parts = append(parts, ref.Schema, ref.Table)
	parts = append(parts, ref.PKValues...)
	return strings.Join(parts, Separator)
}

// Parse splits a backward-compatibility key back into a Reference.
// Fewer than three colon-delimited segments is an error.
func Parse(s string) (Reference, error) {
	parts := strings.Split(s, Separator)
	if len(parts) < minSegments {
		return Reference{}, fmt.Errorf("%w: %q has %d segments, need at least %d",
			ErrFormat, s, len(parts), minSegments)
	}
	return Reference{
		Schema:   parts[0],
		Table:    parts[1],
		PKValues: parts[2:],
	}, nil
}

// FormatDenormalized formats a key from a denormalized table whose primary
// key includes a locale column. Columns named in exclude (default: lang,
// language, language_id) are dropped so that all per-language rows of one
// source entity share a key. pkOrder fixes the segment order; pk maps
// column name to value.
func FormatDenormalized(schema, table string, pkOrder []string, pk map[string]string, exclude ...string) string {
	if len(exclude) == 0 {
		exclude = defaultLocaleColumns
	}

	excluded := make(map[string]bool, len(exclude))
	for _, col := range exclude {
		excluded[col] = true
	}

	values := make([]string, 0, len(pkOrder))
	for _, col := range pkOrder {
		if excluded[col] {
			continue
		}
		values = append(values, pk[col])
	}

	return Format(Reference{Schema: schema, Table: table, PKValues: values})
}

// FormatImage formats a key for the index-th image of a source row. The
// 1-based index becomes the final segment so that multiple images of one
// row get distinct keys.
func FormatImage(schema, table string, itemPK []string, index int) string {
	values := make([]string, 0, len(itemPK)+1)
	values = append(values, itemPK...)
	values = append(values, fmt.Sprintf("%d", index))
	return Format(Reference{Schema: schema, Table: table, PKValues: values})
}
