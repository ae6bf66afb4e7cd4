package propbag

import (
	"reflect"
	"testing"
)

type elementProps struct {
	IsA      string         `bag:"is_a,omitempty"`
	Subsets  []string       `bag:"in_subset,omitempty"`
	Mappings []string       `bag:"mappings,omitempty"`
	Rest     map[string]any `bag:",rest"`
}

func TestScanBasic(t *testing.T) {
	m := map[string]any{
		"is_a":      "related to",
		"in_subset": []any{"translator_minimal"},
		"mappings":  []any{"RO:0002410", "SEMMEDDB:CAUSES"},
	}

	var p elementProps
	Scan(m, &p)

	if p.IsA != "related to" {
		t.Errorf("IsA = %q, want %q", p.IsA, "related to")
	}
	if len(p.Subsets) != 1 || p.Subsets[0] != "translator_minimal" {
		t.Errorf("Subsets = %v", p.Subsets)
	}
	if len(p.Mappings) != 2 || p.Mappings[1] != "SEMMEDDB:CAUSES" {
		t.Errorf("Mappings = %v", p.Mappings)
	}
	if p.Rest != nil {
		t.Errorf("Rest should be nil when every key is claimed, got %v", p.Rest)
	}
}

func TestScanCollectsRest(t *testing.T) {
	m := map[string]any{
		"is_a":        "contributes to",
		"description": "causal relationship",
		"exact_mappings": []any{
			"RO:0002410",
		},
	}

	var p elementProps
	Scan(m, &p)

	if p.IsA != "contributes to" {
		t.Errorf("IsA = %q", p.IsA)
	}
	if p.Rest["description"] != "causal relationship" {
		t.Errorf("Rest[description] = %v", p.Rest["description"])
	}
	if _, ok := p.Rest["exact_mappings"]; !ok {
		t.Error("unclaimed sequence key should land in Rest")
	}
	if _, ok := p.Rest["is_a"]; ok {
		t.Error("claimed key must not appear in Rest")
	}
}

func TestScanSkipsNonStringSequenceEntries(t *testing.T) {
	m := map[string]any{
		"in_subset": []any{"translator_minimal", 7, nil, "samples"},
	}

	var p elementProps
	Scan(m, &p)

	want := []string{"translator_minimal", "samples"}
	if !reflect.DeepEqual(p.Subsets, want) {
		t.Errorf("Subsets = %v, want %v", p.Subsets, want)
	}
}

func TestScanLeavesNonStringScalarAtZero(t *testing.T) {
	m := map[string]any{
		"is_a": 42,
	}

	var p elementProps
	Scan(m, &p)

	if p.IsA != "" {
		t.Errorf("IsA = %q, want empty for non-string value", p.IsA)
	}
}

func TestScanNilMap(t *testing.T) {
	var p elementProps
	Scan(nil, &p) // should not panic
	if p.IsA != "" {
		t.Errorf("expected zero value")
	}
}

func TestFromFlattensRest(t *testing.T) {
	p := elementProps{
		IsA:      "related to",
		Mappings: []string{"WD:P1542"},
		Rest: map[string]any{
			"description": "a causal slot",
			"aliases":     []any{"leads to"},
		},
	}

	m := From(p)

	if m["is_a"] != "related to" {
		t.Errorf("is_a = %v", m["is_a"])
	}
	if m["description"] != "a causal slot" {
		t.Errorf("description = %v", m["description"])
	}
	if _, ok := m["in_subset"]; ok {
		t.Error("omitempty field should be absent at zero value")
	}
}

func TestFromTaggedFieldsWinOverRest(t *testing.T) {
	p := elementProps{
		IsA: "affects",
		Rest: map[string]any{
			"is_a": "stale value",
		},
	}

	m := From(p)

	if m["is_a"] != "affects" {
		t.Errorf("is_a = %v, tagged field must win collisions", m["is_a"])
	}
}

func TestRoundtrip(t *testing.T) {
	original := elementProps{
		IsA:      "regulates",
		Subsets:  []string{"translator_minimal"},
		Mappings: []string{"biolink:probe1"},
		Rest:     map[string]any{"description": "toy"},
	}

	m := From(original)
	var back elementProps
	Scan(m, &back)

	if !reflect.DeepEqual(back, original) {
		t.Errorf("roundtrip failed: got %+v, want %+v", back, original)
	}
}

type mixedProps struct {
	Tagged   string `bag:"tagged"`
	Untagged string
	Weight   *float64 `bag:"weight,omitempty"`
}

func TestFromSkipsUntaggedFields(t *testing.T) {
	m := From(mixedProps{Tagged: "yes", Untagged: "no"})

	if m["tagged"] != "yes" {
		t.Errorf("tagged = %v", m["tagged"])
	}
	if _, ok := m["Untagged"]; ok {
		t.Error("untagged field should not appear in map")
	}
}

func TestScanPointerFloat(t *testing.T) {
	m := map[string]any{"weight": 0.5}

	var p mixedProps
	Scan(m, &p)

	if p.Weight == nil || *p.Weight != 0.5 {
		t.Errorf("Weight = %v, want 0.5", p.Weight)
	}
}

func TestFromSkipsNilPointers(t *testing.T) {
	m := From(mixedProps{Tagged: "x"})

	if _, ok := m["weight"]; ok {
		t.Error("nil pointer should not appear in map")
	}
}
