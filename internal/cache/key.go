package cache

import (
	"sort"
	"strings"
)

// Key derives a deterministic cache key from an endpoint prefix and an
// unordered parameter set. Parameters are rendered in lexicographic key
// order, so two requests that differ only in query-string ordering collide
// on the same key. Values must already be sanitized; the builder embeds
// them as-is.
func Key(prefix string, params map[string]string) string {
	if len(params) == 0 {
		return prefix
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(prefix)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(params[k])
	}
	return b.String()
}

// FamilyPredicate returns a predicate matching every key in an endpoint
// family, i.e. the bare prefix and any key derived from it.
func FamilyPredicate(prefix string) func(string) bool {
	return func(key string) bool {
		return key == prefix || strings.HasPrefix(key, prefix+"|")
	}
}
