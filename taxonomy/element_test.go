package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementPredicates(t *testing.T) {
	el := &Element{
		Name:     "affects",
		Parent:   "related to",
		Subsets:  []string{"translator_minimal"},
		Mappings: []string{"SEMMEDDB:AFFECTS"},
	}

	assert.True(t, el.HasSubset("translator_minimal"))
	assert.False(t, el.HasSubset("samples"))
	assert.False(t, el.IsRoot())
	assert.True(t, el.HasMapping("SEMMEDDB:AFFECTS"))
	assert.False(t, el.HasMapping("RO:0002410"))

	root := &Element{Name: "related to"}
	assert.True(t, root.IsRoot())
	assert.False(t, root.HasSubset("translator_minimal"))
}

func TestElementDocument(t *testing.T) {
	el := &Element{
		Name:     "affects",
		Parent:   "related to",
		Subsets:  []string{"translator_minimal"},
		Mappings: []string{"SEMMEDDB:AFFECTS"},
		Extra:    map[string]any{"description": "has an effect"},
	}

	doc := el.Document()
	assert.Equal(t, "affects", doc["name"])
	assert.Equal(t, "related to", doc["is_a"])
	assert.Equal(t, []string{"translator_minimal"}, doc["in_subset"])
	assert.Equal(t, []string{"SEMMEDDB:AFFECTS"}, doc["mappings"])
	assert.Equal(t, "has an effect", doc["description"])
}

func TestElementDocumentOmitsEmpty(t *testing.T) {
	doc := (&Element{Name: "related to"}).Document()

	assert.Equal(t, map[string]any{"name": "related to"}, doc)
}

func TestAsName(t *testing.T) {
	name, ok := AsName("affects")
	assert.True(t, ok)
	assert.Equal(t, "affects", name)

	for _, v := range []any{nil, 7, 1.5, true, []any{"affects"}, map[string]any{}} {
		name, ok := AsName(v)
		assert.False(t, ok, "%T should not coerce", v)
		assert.Empty(t, name)
	}
}
