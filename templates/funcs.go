// templates/funcs.go
package templates

import (
	"encoding/json"
	"html/template"
	"strings"
)

// Funcs returns helpers available to all templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"join":  strings.Join,

		// {{ .State | toJSON }} embeds a value for the page script. The
		// result is safe inside <script type="application/json">.
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
	}
}
