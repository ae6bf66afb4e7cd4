// Package taxonomy implements the hierarchy resolution and mapping engine
// over a single-inheritance schema: an immutable index built once from a
// parsed schema document, memoized traversals over the induced forest, and
// ancestor-intersection resolution of external identifiers.
package taxonomy

import (
	"slices"

	"github.com/patrickkwang/bmt-lite/internal/propbag"
)

const (
	// EdgeLabelSubset is the subset tag identifying the minimal
	// relationship subset.
	EdgeLabelSubset = "translator_minimal"

	// CategoryRoot is the name of the root entity type. An element is a
	// category when this name is an ancestor-or-self.
	CategoryRoot = "named thing"
)

// Element is a named node in the taxonomy: a relationship type or an
// entity type.
type Element struct {
	Name     string
	Parent   string // is_a value; "" means root
	Subsets  []string
	Mappings []string
	Extra    map[string]any // all other schema properties, opaque
}

// elementProps is the bag shape of a schema element entry.
type elementProps struct {
	IsA      string         `bag:"is_a,omitempty"`
	Subsets  []string       `bag:"in_subset,omitempty"`
	Mappings []string       `bag:"mappings,omitempty"`
	Rest     map[string]any `bag:",rest"`
}

// HasSubset reports whether the element carries the given subset tag.
func (e *Element) HasSubset(tag string) bool {
	return slices.Contains(e.Subsets, tag)
}

// IsRoot reports whether the element has no recorded parent.
func (e *Element) IsRoot() bool {
	return e.Parent == ""
}

// HasMapping reports whether the element claims the given external
// identifier.
func (e *Element) HasMapping(identifier string) bool {
	return slices.Contains(e.Mappings, identifier)
}

// Document returns the element as a flat property bag mirroring its source
// schema entry, with the name included under "name".
func (e *Element) Document() map[string]any {
	doc := propbag.From(elementProps{
		IsA:      e.Parent,
		Subsets:  e.Subsets,
		Mappings: e.Mappings,
		Rest:     e.Extra,
	})
	doc["name"] = e.Name
	return doc
}

// AsName coerces an arbitrary decoded value (JSON, YAML, tool arguments)
// to an element name. Non-string values coerce to ("", false); callers
// treat that as the absent result, so pathological inputs soft-fail the
// same way unknown names do.
func AsName(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
