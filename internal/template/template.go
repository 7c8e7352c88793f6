// internal/template/template.go
package template

import (
	"regexp"
	"strings"

	"github.com/leadflow/sequencer-backend/internal/model"
)

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes {{field}} placeholders in template with the lead's
// attributes. Missing attributes become "". The nombre placeholder resolves
// to the first name only (first whitespace-separated token), since templates
// address the lead directly. Single pass, no recursion.
func Render(template string, lead *model.Lead) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		value := lead.Attr(key)
		if key == "nombre" {
			return FirstName(value)
		}
		return value
	})
}

// FirstName returns the first whitespace-delimited token of a full name.
func FirstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
