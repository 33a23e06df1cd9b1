package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphanumericRegex strips everything outside lowercase letters, digits and spaces
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)

// NameNormalizer reduces a display name to a canonical matching key:
// lowercase, diacritic-free, unit tokens and stopwords removed. The key
// is used only for fuzzy matching, never for display, so collisions
// between distinct inputs are acceptable.
type NameNormalizer struct {
	unitPattern     *regexp.Regexp
	stopwordPattern *regexp.Regexp
}

// NewNameNormalizer compiles the caller-supplied unit-token pattern and
// stopword set. Both are matched case-insensitively; an empty stopword
// set disables stopword removal.
func NewNameNormalizer(stopwords []string, unitPattern string) (*NameNormalizer, error) {
	unitRe, err := regexp.Compile(`(?i)` + unitPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid unit pattern: %w", err)
	}

	var stopwordRe *regexp.Regexp
	if len(stopwords) > 0 {
		quoted := make([]string, 0, len(stopwords))
		for _, word := range stopwords {
			word = strings.TrimSpace(word)
			if word != "" {
				quoted = append(quoted, regexp.QuoteMeta(word))
			}
		}
		if len(quoted) > 0 {
			stopwordRe, err = regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
			if err != nil {
				return nil, fmt.Errorf("invalid stopword set: %w", err)
			}
		}
	}

	return &NameNormalizer{
		unitPattern:     unitRe,
		stopwordPattern: stopwordRe,
	}, nil
}

// Simplify produces the matching key for a display name. The pipeline
// runs in a fixed order: lowercase, drop diacritics, remove unit tokens,
// remove stopwords, strip non-alphanumerics, collapse whitespace.
// Applying Simplify to its own output yields the same result.
func (n *NameNormalizer) Simplify(name string) string {
	s := strings.ToLower(name)
	s = removeDiacritics(s)
	s = n.unitPattern.ReplaceAllString(s, "")
	if n.stopwordPattern != nil {
		s = n.stopwordPattern.ReplaceAllString(s, "")
	}
	s = nonAlphanumericRegex.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// removeDiacritics decomposes to NFD and drops combining marks, so
// "café" becomes "cafe". The transformer chain is stateful and not safe
// for concurrent use, so a fresh one is built per call.
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
