// Package normalize canonicalizes free-text identity fields (track names,
// horse names) into join keys that are robust to punctuation, diacritics,
// casing, locale suffixes, bookmaker prefixes, and word order.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Trailing parenthesized 2-3 letter country/locale code, e.g. "(NZ)".
	localeSuffixRe = regexp.MustCompile(`\s*\([a-z]{2,3}\)\s*$`)
	// Anything that is not a word character or whitespace.
	nonWordRe = regexp.MustCompile(`[^\w\s]`)
	// Leading field-position prefix such as "3." or "12 ".
	leadingNumRe = regexp.MustCompile(`^\d+\.?\s*`)
)

// Bookmaker names that pollute track names in tipster exports.
var trackStopWords = map[string]struct{}{
	"ladbrokes": {},
	"sportsbet": {},
	"bet365":    {},
	"tabtouch":  {},
	"tab":       {},
}

// Known bookmaker-prefixed aliases collapsed to a canonical spelling before
// the generic key derivation.
var trackAliases = []struct{ from, to string }{
	{"sportsbet-ballarat", "ballarat"},
	{"royal randwick", "randwick"},
}

// stripAccents decomposes the string and removes combining marks, then drops
// any rune still outside ASCII. Deterministic and idempotent.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, out)
}

// Key derives a canonical join key from a raw string. Tokens in the stop set
// are dropped and the remaining tokens are sorted alphabetically, so keys are
// insensitive to word order. Empty or unusable input yields "", never an
// error; empty keys are treated as always-distinct by the linkage engine.
func Key(s string, stop map[string]struct{}) string {
	s = stripAccents(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = localeSuffixRe.ReplaceAllString(s, "")
	s = nonWordRe.ReplaceAllString(s, " ")
	s = leadingNumRe.ReplaceAllString(s, "")

	fields := strings.Fields(s)
	tokens := fields[:0]
	for _, tok := range fields {
		if _, skip := stop[tok]; !skip {
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TrackKey canonicalizes a track name: collapses known bookmaker-prefixed
// aliases, then applies Key with the bookmaker stop-word set.
func TrackKey(name string) string {
	s := strings.ToLower(name)
	for _, a := range trackAliases {
		s = strings.ReplaceAll(s, a.from, a.to)
	}
	return Key(s, trackStopWords)
}

// HorseKey canonicalizes a horse name with the generic normalizer and no
// stop-words.
func HorseKey(name string) string {
	return Key(name, nil)
}
