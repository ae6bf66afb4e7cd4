package taxonomy

import "slices"

// Toolkit is the query surface over an Index. Traversal and resolution
// results are memoized per toolkit, so a long-lived toolkit answers
// repeated queries in constant time. All methods are safe for concurrent
// use.
//
// Every query is total: unknown names and identifiers yield the absent
// result (nil element, empty list, false), never an error.
type Toolkit struct {
	idx *Index

	ancestors   *memo[[]string]
	descendants *memo[[]string]
	matches     *memo[[]string]
	resolved    *memo[resolution]
}

type resolution struct {
	name string
	ok   bool
}

// NewToolkit wraps an index in a fresh toolkit with empty caches.
func NewToolkit(idx *Index) *Toolkit {
	return &Toolkit{
		idx:         idx,
		ancestors:   newMemo[[]string](),
		descendants: newMemo[[]string](),
		matches:     newMemo[[]string](),
		resolved:    newMemo[resolution](),
	}
}

// New builds an index from a schema document and returns a toolkit over
// it.
func New(doc Document, opts ...IndexOption) (*Toolkit, error) {
	idx, err := BuildIndex(doc, opts...)
	if err != nil {
		return nil, err
	}
	return NewToolkit(idx), nil
}

// Index returns the underlying index.
func (t *Toolkit) Index() *Index {
	return t.idx
}

// Len returns the number of elements.
func (t *Toolkit) Len() int {
	return t.idx.Len()
}

// Names returns all element names in sorted order.
func (t *Toolkit) Names() []string {
	return slices.Clone(t.idx.Names())
}

// Element returns the named element, or nil when the name is not defined.
func (t *Toolkit) Element(name string) *Element {
	return t.idx.Element(name)
}

// Parent returns the recorded parent of name. The second result reports
// whether the name is defined at all, so a defined root ("", true) is
// distinguishable from an unknown name ("", false).
func (t *Toolkit) Parent(name string) (string, bool) {
	el := t.idx.Element(name)
	if el == nil {
		return "", false
	}
	return el.Parent, true
}

// Children returns the sorted direct children of name. The "" name
// returns the roots of the forest.
func (t *Toolkit) Children(name string) []string {
	return slices.Clone(t.idx.childrenOf(name))
}

// Roots returns the sorted root elements, those with no recorded parent.
func (t *Toolkit) Roots() []string {
	return t.Children("")
}

// Ancestors returns the ancestors of name ordered nearest first, ending
// at a root or at a parent reference with no definition. Unknown names
// have no ancestors.
func (t *Toolkit) Ancestors(name string) []string {
	return slices.Clone(t.ancestorsOf(name))
}

// Descendants returns the subtree below name in depth-first order, each
// child followed by its own subtree. The "" name returns the whole
// forest.
func (t *Toolkit) Descendants(name string) []string {
	return slices.Clone(t.descendantsOf(name))
}

// Lineage returns name's ancestors nearest first, then name itself, then
// its descendants. Unknown names yield nil.
func (t *Toolkit) Lineage(name string) []string {
	if t.idx.Element(name) == nil {
		return nil
	}
	up := t.ancestorsOf(name)
	down := t.descendantsOf(name)
	out := make([]string, 0, len(up)+1+len(down))
	out = append(out, up...)
	out = append(out, name)
	out = append(out, down...)
	return out
}

// IsEdgeLabel reports whether name is a defined element carrying the
// minimal relationship subset tag.
func (t *Toolkit) IsEdgeLabel(name string) bool {
	el := t.idx.Element(name)
	return el != nil && el.HasSubset(EdgeLabelSubset)
}

// IsCategory reports whether name is the root entity type or has it as an
// ancestor.
func (t *Toolkit) IsCategory(name string) bool {
	if name == CategoryRoot {
		return true
	}
	return slices.Contains(t.ancestorsOf(name), CategoryRoot)
}

// ancestorsOf returns the memoized ancestor chain. The cached slice is
// shared; exported callers clone before returning.
func (t *Toolkit) ancestorsOf(name string) []string {
	if cached, ok := t.ancestors.get(name); ok {
		return cached
	}
	return t.ancestors.put(name, t.idx.ancestorChain(name))
}

func (t *Toolkit) descendantsOf(name string) []string {
	if cached, ok := t.descendants.get(name); ok {
		return cached
	}
	return t.descendants.put(name, t.idx.descendantList(name))
}
