// Package normalize canonicalizes free-text chemical names into
// comparison keys. Two modes coexist on purpose: a strict
// alphanumeric-only key for substring/suggestion matching, and a
// punctuation-light key for classification scoring that preserves
// hyphens and commas because many chemical names are hyphen-significant
// (e.g. "2,4-D"). Callers must not mix the two within one comparison.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9]`)
	punctuationRe = regexp.MustCompile(`[^a-z0-9\s,-]`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)

	// NFKD decomposition followed by combining-mark removal, so accented
	// and compatibility variants fold to a stable form before the ASCII
	// filters run.
	foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

func fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// ForSubstringMatch collapses s to lowercase ASCII alphanumerics only.
// Used for lookup, suggestions, and the builder's CAS join. Idempotent.
func ForSubstringMatch(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(fold(s)), "")
}

// ForClassification lowercases s, strips punctuation except hyphens and
// commas, and collapses runs of whitespace. Used by the classification
// matcher and evidence logger. Idempotent.
func ForClassification(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(fold(s))
	out = punctuationRe.ReplaceAllString(out, "")
	out = multiSpaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Tokens splits a classification-normalized string into its
// whitespace-delimited token set.
func Tokens(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
