// Package markdown normalizes legacy rich-text fields into the new
// content format. Legacy descriptions carry ad hoc HTML (<br/>, <i>, <b>,
// occasional lists and links); the target system stores Markdown.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ConversionError wraps a converter failure on malformed input. Content is
// never silently dropped or replaced at this layer; callers decide whether
// to fall back.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("html to markdown conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// converter is configured once; ConvertString is safe for concurrent use.
// ATX headings, dash bullets, fenced code, star emphasis and --- rules are
// the conversion contract the rest of the pipeline relies on.
var converter = md.NewConverter("", true, &md.Options{
	HeadingStyle:     "atx",
	BulletListMarker: "-",
	CodeBlockStyle:   "fenced",
	EmDelimiter:      "*",
	StrongDelimiter:  "**",
	HorizontalRule:   "---",
})

// ConvertHTML converts legacy HTML to Markdown. Empty input yields an
// empty string; input without any '<' is already plain text (or Markdown)
// and is returned unchanged apart from trimming.
func ConvertHTML(html string) (string, error) {
	if html == "" {
		return "", nil
	}
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html), nil
	}

	out, err := converter.ConvertString(html)
	if err != nil {
		return "", &ConversionError{Err: err}
	}
	return strings.TrimSpace(out), nil
}

var (
	imageRe       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	fenceRe       = regexp.MustCompile("(?m)^\\s*```.*$")
	inlineCodeRe  = regexp.MustCompile("`([^`]*)`")
	headerRe      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquoteRe  = regexp.MustCompile(`(?m)^>\s?`)
	bulletRe      = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	orderedRe     = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	ruleRe        = regexp.MustCompile(`(?m)^[ \t]*(-{3,}|\*{3,}|_{3,})[ \t]*$`)
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	emphasisRe    = regexp.MustCompile(`\*([^*]+)\*`)
	boldAltRe     = regexp.MustCompile(`__([^_]+)__`)
	emphasisAltRe = regexp.MustCompile(`_([^_]+)_`)
	strikeRe      = regexp.MustCompile(`~~([^~]+)~~`)
	newlinesRe    = regexp.MustCompile(`\n{3,}`)
)

// StripHTML reduces legacy HTML to plain text: the input is converted to
// Markdown first, then all Markdown syntax tokens are removed and runs of
// 3+ newlines collapse to exactly 2.
func StripHTML(html string) (string, error) {
	text, err := ConvertHTML(html)
	if err != nil {
		return "", err
	}
	return StripMarkdown(text), nil
}

// StripMarkdown removes Markdown syntax from text: headers, emphasis,
// strikethrough, inline and fenced code markers, links (keeping the text),
// images (removed entirely), list markers, blockquote markers, and
// horizontal rules.
func StripMarkdown(text string) string {
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = fenceRe.ReplaceAllString(text, "")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headerRe.ReplaceAllString(text, "")
	text = ruleRe.ReplaceAllString(text, "")
	text = blockquoteRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = orderedRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = boldAltRe.ReplaceAllString(text, "$1")
	text = emphasisRe.ReplaceAllString(text, "$1")
	text = emphasisAltRe.ReplaceAllString(text, "$1")
	text = strikeRe.ReplaceAllString(text, "$1")
	text = newlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ConvertFields returns a shallow copy of fields with the named entries
// converted from HTML to Markdown. Fields not named, or absent, pass
// through unchanged; the input map is never mutated. A conversion failure
// reports the offending field name.
func ConvertFields(fields map[string]string, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	for _, name := range names {
		value, ok := out[name]
		if !ok {
			continue
		}
		converted, err := ConvertHTML(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = converted
	}

	return out, nil
}
