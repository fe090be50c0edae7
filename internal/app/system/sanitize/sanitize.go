// Package sanitize cleans free-text names before they are stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Name strips every HTML tag from s, decodes entities the policy escaped and
// collapses runs of whitespace. "<b>Sam</b>  de Vries" becomes "Sam de Vries".
func Name(s string) string {
	clean := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}
