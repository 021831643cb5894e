package idl

import (
	"strings"
	"unicode"
)

// Identifier is a name split into lowercase components so it can be
// re-rendered in each target language's convention.
type Identifier struct {
	Comps []string
}

// FromCamel splits before every uppercase letter after the first rune.
//
//	FromCamel("helloPrettyWorld").Comps == []string{"hello", "pretty", "world"}
func FromCamel(camel string) Identifier {
	var comps []string
	start := 0
	for i, r := range camel {
		if i > start && unicode.IsUpper(r) {
			comps = append(comps, strings.ToLower(camel[start:i]))
			start = i
		}
	}
	if start < len(camel) {
		comps = append(comps, strings.ToLower(camel[start:]))
	}
	return Identifier{Comps: comps}
}

// Snake joins the components with underscores.
func (id Identifier) Snake() string {
	return strings.Join(id.Comps, "_")
}

// Kebab joins the components with dashes.
func (id Identifier) Kebab() string {
	return strings.Join(id.Comps, "-")
}
