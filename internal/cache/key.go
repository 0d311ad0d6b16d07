package cache

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPrivateParam is left out of keys when the caller names no private params.
const DefaultPrivateParam = "key"

// Key builds a cache identifier for a request: the public params sorted by
// name, rendered as name-value and joined with "_", appended to base.
// Params named in private never reach the key.
func Key(base string, params map[string]string, private ...string) string {
	if len(private) == 0 {
		private = []string{DefaultPrivateParam}
	}
	skip := make(map[string]bool, len(private))
	for _, p := range private {
		skip[p] = true
	}

	names := make([]string, 0, len(params))
	for k := range params {
		if skip[k] {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s-%s", k, params[k]))
	}
	return base + strings.Join(parts, "_")
}
