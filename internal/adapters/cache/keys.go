package cache

import "strings"

// uniqueKeys trims and deduplicates keys, preserving first-seen order, and
// returns a matching "?,?,..." placeholder list.
func uniqueKeys(keys []string) ([]string, string) {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}

	if len(uniq) == 0 {
		return nil, ""
	}
	return uniq, strings.TrimSuffix(strings.Repeat("?,", len(uniq)), ",")
}
