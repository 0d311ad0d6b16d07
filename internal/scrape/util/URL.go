package util

import (
	"net/url"
	"strings"
)

// ResolveURL makes href absolute against base and drops the fragment and
// common tracking params. Unparseable input is returned as base+href.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return base + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return strings.TrimRight(base, "/") + href
	}

	u := b.ResolveReference(ref)
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	dropped := false
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "gclid" || lk == "fbclid" || lk == "msclkid" {
			q.Del(k)
			dropped = true
		}
	}
	// keep the original query encoding unless something was removed
	if dropped {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
