package doctree

import "testing"

func TestGetNested(t *testing.T) {
	m := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": "value",
			},
			"leaf": 3,
		},
	}

	if v, ok := GetNested(m, Path{"a", "b", "c"}); !ok || v != "value" {
		t.Errorf("GetNested(a.b.c) = (%v, %v), want (value, true)", v, ok)
	}
	if v, ok := GetNested(m, Path{"a", "leaf"}); !ok || v != 3 {
		t.Errorf("GetNested(a.leaf) = (%v, %v), want (3, true)", v, ok)
	}
	if _, ok := GetNested(m, Path{"a", "missing"}); ok {
		t.Error("missing key should not resolve")
	}
	if _, ok := GetNested(m, Path{"a", "leaf", "deeper"}); ok {
		t.Error("walking through a non-map should not resolve")
	}
	if _, ok := GetNested(nil, Path{"a"}); ok {
		t.Error("nil map should not resolve")
	}
	if _, ok := GetNested(m, nil); ok {
		t.Error("empty path should not resolve")
	}
}

func TestSetNestedCreatesIntermediates(t *testing.T) {
	m := map[string]interface{}{}
	SetNested(m, Path{"properties", "attributes", "className"}, "foo bar")

	v, ok := GetNested(m, Path{"properties", "attributes", "className"})
	if !ok || v != "foo bar" {
		t.Fatalf("round trip = (%v, %v), want (foo bar, true)", v, ok)
	}
}

func TestSetNestedReplacesNonMapIntermediate(t *testing.T) {
	m := map[string]interface{}{"a": "scalar"}
	SetNested(m, Path{"a", "b"}, 1)

	if v, ok := GetNested(m, Path{"a", "b"}); !ok || v != 1 {
		t.Fatalf("SetNested over a scalar intermediate = (%v, %v), want (1, true)", v, ok)
	}
}
