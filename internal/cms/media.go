package cms

import "strings"

// ResolveMediaURL returns u unchanged when it already has an http or https
// scheme, otherwise it prefixes u with base. Empty input stays empty.
func ResolveMediaURL(base, u string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(base, "/") + u
}
