package wxrport

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify returns a lowercase, URL-safe ASCII slug of s.
// Accents are folded ("Qué" becomes "que"); any other run of characters
// outside [a-z0-9] becomes a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ReplaceAll(folded, "&", " and ")

	var sb strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// SlugFor returns the slug of title, falling back to the last path segment
// of rawURL when the title has no ASCII-representable characters.
func SlugFor(title, rawURL string) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	segs := pathSegments(rawURL)
	if len(segs) == 0 {
		return "home"
	}
	if slug := Slugify(segs[len(segs)-1]); slug != "" {
		return slug
	}
	return "untitled"
}
