package catalog

import (
	"regexp"
	"strings"
)

var separatorRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify derives an id from a display name: lower-cased, every run of characters
// other than letters and digits replaced by "-". The result is safe as a path segment.
func Slugify(name string) string {
	return strings.Trim(separatorRe.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// validID reports whether id is already in slug form.
func validID(id string) bool {
	return id != "" && Slugify(id) == id
}
