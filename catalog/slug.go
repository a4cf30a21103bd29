package catalog

import "strings"

// SlugFromName derives a catalog slug from a display name: lower-cased,
// spaces to hyphens, apostrophes dropped. This transformation does not
// round-trip for every name, so it only backs the legacy fallback lookup —
// the stored race id is the canonical link.
func SlugFromName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "'", "")
	return s
}
