package mcpsurface

import "regexp"

// placeholderRe matches "{{name}}" placeholders in a human-rendering
// template. The template engine itself is out of scope per spec §1 ("a
// pure string substitution"); this is the minimal substitution step that
// still belongs to the tool surface producing the text variant.
var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// render fills tmpl's "{{name}}" placeholders from fields. An unknown
// placeholder is left untouched so a caller can see what didn't resolve.
func render(tmpl string, fields map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := fields[name]; ok {
			return v
		}
		return m
	})
}
