package api

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag. Free text is stored as plain text.
var textPolicy = bluemonday.StrictPolicy()

// maxCleanPasses bounds how many layers of entity encoding are peeled off.
const maxCleanPasses = 3

// cleanText returns s as plain text. Entities are decoded before the policy
// runs so encoded markup such as "&lt;script&gt;" is stripped too. The
// result must survive another pass unchanged; input that keeps changing is
// treated as markup and dropped.
func cleanText(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		plain := html.UnescapeString(textPolicy.Sanitize(html.UnescapeString(s)))
		if plain == s {
			return strings.TrimSpace(plain)
		}
		s = plain
	}
	return ""
}

func cleanTextPtr(s *string) {
	if s != nil {
		*s = cleanText(*s)
	}
}
