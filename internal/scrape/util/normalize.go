package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// ContainsAnyFold reports the first needle found in s, ignoring case.
func ContainsAnyFold(s string, needles []string) (string, bool) {
	low := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(low, n) {
			return n, true
		}
	}
	return "", false
}
