package taxonomy

import (
	"sort"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/internal/propbag"
	"github.com/patrickkwang/bmt-lite/logger"
)

// Document is a parsed schema document: category name to element table,
// as produced by decoding the schema YAML.
type Document map[string]any

// categoryOrder fixes the merge order. Later categories overwrite earlier
// ones on name collision unless WithStrictNames is set.
var categoryOrder = [...]string{"slots", "classes"}

// Index is the immutable structural view of a schema: the merged element
// table and the exact inverse of the parent relation. Build one with
// BuildIndex; fields never change afterwards, so an Index is safe for
// concurrent readers.
type Index struct {
	elements map[string]*Element
	children map[string][]string // parent name -> sorted child names; "" keys the roots
	names    []string            // all element names, sorted
}

// IndexOption configures BuildIndex.
type IndexOption func(*indexOptions)

type indexOptions struct {
	strictNames bool
}

// WithStrictNames makes BuildIndex fail with a name-conflict error when
// the same element name appears in more than one category, instead of
// letting the later category win.
func WithStrictNames() IndexOption {
	return func(o *indexOptions) {
		o.strictNames = true
	}
}

// BuildIndex validates a schema document and assembles the element table,
// the child lists, and the sorted name list. It fails with a schema-format
// error when the document does not have the two-level mapping shape, with
// a name-conflict error under WithStrictNames when categories collide, and
// with a cycle error when the is_a chains do not form a forest.
func BuildIndex(doc Document, opts ...IndexOption) (*Index, error) {
	var options indexOptions
	for _, opt := range opts {
		opt(&options)
	}

	if doc == nil {
		return nil, errors.NewSchemaFormatError("schema document is empty")
	}

	elements := make(map[string]*Element)
	for _, category := range categoryOrder {
		raw, ok := doc[category]
		if !ok {
			return nil, errors.NewSchemaFormatError("schema document has no %q category", category)
		}
		table, err := categoryTable(category, raw)
		if err != nil {
			return nil, err
		}
		for _, name := range sortedKeys(table) {
			props, err := elementTable(category, name, table[name])
			if err != nil {
				return nil, err
			}
			if _, exists := elements[name]; exists {
				if options.strictNames {
					return nil, errors.NewNameConflictError("element %q is defined in more than one category", name)
				}
				logger.Debugw("Element defined in more than one category, keeping the later definition",
					"element", name,
					"category", category)
			}
			elements[name] = decodeElement(name, props)
		}
	}

	if err := checkAcyclic(elements); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(elements))
	for name := range elements {
		names = append(names, name)
	}
	sort.Strings(names)

	// Appending in sorted name order keeps every child list sorted.
	children := make(map[string][]string)
	for _, name := range names {
		parent := elements[name].Parent
		children[parent] = append(children[parent], name)
	}

	return &Index{elements: elements, children: children, names: names}, nil
}

// categoryTable coerces a category value to its element table. A missing
// body (nil) reads as an empty category.
func categoryTable(category string, raw any) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.NewSchemaFormatError("category %q is not a mapping of element names (got %T)", category, raw)
	}
	return table, nil
}

// elementTable coerces an element value to its property table. A missing
// body (nil) reads as an element with no properties.
func elementTable(category, name string, raw any) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	props, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.NewSchemaFormatError("element %q in category %q is not a property mapping (got %T)", name, category, raw)
	}
	return props, nil
}

func decodeElement(name string, props map[string]any) *Element {
	var p elementProps
	propbag.Scan(props, &p)
	if raw, ok := props["is_a"]; ok && raw != nil {
		if _, isString := raw.(string); !isString {
			logger.Warnw("Ignoring non-string is_a value",
				"element", name,
				"is_a", raw)
		}
	}
	return &Element{
		Name:     name,
		Parent:   p.IsA,
		Subsets:  p.Subsets,
		Mappings: p.Mappings,
		Extra:    p.Rest,
	}
}

// checkAcyclic walks every is_a chain once. Chains end at a root, at a
// parent name with no definition, or at an element already cleared by an
// earlier walk; revisiting a name within one walk is a cycle.
func checkAcyclic(elements map[string]*Element) error {
	cleared := make(map[string]bool, len(elements))
	var chain []string
	for name := range elements {
		if cleared[name] {
			continue
		}
		chain = chain[:0]
		onChain := make(map[string]bool)
		cur := name
		for cur != "" && !cleared[cur] {
			if onChain[cur] {
				return errors.NewCycleDetectedError("element %q participates in an is_a cycle", cur)
			}
			el, ok := elements[cur]
			if !ok {
				break
			}
			onChain[cur] = true
			chain = append(chain, cur)
			cur = el.Parent
		}
		for _, n := range chain {
			cleared[n] = true
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Element returns the named element, or nil when the name is not defined.
func (ix *Index) Element(name string) *Element {
	return ix.elements[name]
}

// Names returns all element names in sorted order. The returned slice is
// shared; callers must not modify it.
func (ix *Index) Names() []string {
	return ix.names
}

// Len returns the number of elements in the index.
func (ix *Index) Len() int {
	return len(ix.elements)
}

// childrenOf returns the sorted direct children of name. The "" name keys
// the roots of the forest.
func (ix *Index) childrenOf(name string) []string {
	return ix.children[name]
}

// ancestorChain lists ancestors nearest first. A parent reference to an
// undefined element is included and ends the chain, matching how an
// undefined name has no ancestors of its own.
func (ix *Index) ancestorChain(name string) []string {
	el, ok := ix.elements[name]
	if !ok {
		return nil
	}
	var chain []string
	cur := el.Parent
	for cur != "" {
		chain = append(chain, cur)
		next, ok := ix.elements[cur]
		if !ok {
			break
		}
		cur = next.Parent
	}
	return chain
}

// descendantList lists the subtree below name in depth-first order: each
// child followed by its own subtree, children in sorted order. The ""
// name yields the whole forest.
func (ix *Index) descendantList(name string) []string {
	roots := ix.children[name]
	if len(roots) == 0 {
		return nil
	}
	var out []string
	stack := make([]string, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		kids := ix.children[n]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}
