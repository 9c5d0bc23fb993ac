// Package urltools classifies input URLs.
package urltools

import (
	"net/url"
	"strings"
)

// LocalPath returns the filesystem path of urlString if it refers to a
// local file.
func LocalPath(urlString string) (string, bool) {
	u, err := url.Parse(urlString)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		return urlString, true
	case "file":
		if u.Path != "" {
			return u.Path, true
		}
		return u.Opaque, u.Opaque != ""
	default:
		return "", false
	}
}
