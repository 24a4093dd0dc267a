package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes every tag and attribute.
var StrictPolicy = bluemonday.StrictPolicy()

// Text strips all HTML and returns trimmed plain text. bluemonday escapes the
// surviving text, so entities are decoded again to keep "Rock & Roll" intact.
// A "<" followed by a letter opens a tag, so "Tom<Jerry" comes back as "Tom".
func Text(input string) string {
	if input == "" {
		return input
	}
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// IsPlain reports whether input survives Text unchanged apart from
// surrounding whitespace.
func IsPlain(input string) bool {
	return Text(input) == strings.TrimSpace(input)
}
