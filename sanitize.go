package wxrport

import "strings"

// Sanitizer removes one kind of non-content fragment from extracted HTML.
// Sanitizers are pure and idempotent; a site's cleaning pipeline is an
// ordered list of them.
type Sanitizer func(fragment string) string

// Sanitize applies sanitizers in order and trims surrounding whitespace.
func Sanitize(fragment string, sanitizers ...Sanitizer) string {
	for _, fn := range sanitizers {
		if fragment == "" {
			break
		}
		fragment = fn(fragment)
	}
	return strings.TrimSpace(fragment)
}
