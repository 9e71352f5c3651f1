package validate

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func hasCode(issues []Issue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

const validTree = `{
	"root": {
		"id": 1,
		"data": {"type": "root", "properties": null},
		"children": [
			{"id": 100, "data": {"type": "EssentialElements\\Heading", "properties": {"content": {"content": {"text": "Hi"}}}}, "children": [], "parentId": 1}
		]
	},
	"status": "exported"
}`

func TestValidateEndToEnd(t *testing.T) {
	result := Validate(decode(t, validTree))

	if !result.Valid {
		t.Fatalf("valid tree rejected: %v", codes(result.Errors))
	}
	if result.ErrorCount != 0 || len(result.Errors) != 0 {
		t.Errorf("errors = %v", result.Errors)
	}
	if result.WarningCount != 0 || len(result.Warnings) != 0 {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateNonObject(t *testing.T) {
	for _, raw := range []interface{}{nil, "tree", float64(4), []interface{}{}} {
		result := Validate(raw)
		if result.Valid {
			t.Errorf("Validate(%v) should fail", raw)
		}
		if len(result.Errors) != 1 || result.Errors[0].Code != "invalid_tree_type" {
			t.Errorf("Validate(%v) errors = %v, want single invalid_tree_type", raw, codes(result.Errors))
		}
	}
}

func TestValidateMissingStatusExactlyOnce(t *testing.T) {
	tree := decode(t, validTree).(map[string]interface{})
	delete(tree, "status")

	result := Validate(tree)
	if result.Valid {
		t.Fatal("tree without status accepted")
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != "missing_status" {
		t.Fatalf("errors = %v, want exactly one missing_status", codes(result.Errors))
	}

	// Adding status back flips validity.
	tree["status"] = "exported"
	if result := Validate(tree); !result.Valid {
		t.Errorf("restored tree still invalid: %v", codes(result.Errors))
	}
}

func TestValidateWrongStatus(t *testing.T) {
	tree := decode(t, validTree).(map[string]interface{})
	tree["status"] = "draft"

	result := Validate(tree)
	if !hasCode(result.Errors, "invalid_status") {
		t.Errorf("errors = %v, want invalid_status", codes(result.Errors))
	}
}

func TestValidateMissingRoot(t *testing.T) {
	result := Validate(map[string]interface{}{"status": "exported"})
	if !hasCode(result.Errors, "missing_root") {
		t.Errorf("errors = %v, want missing_root", codes(result.Errors))
	}

	result = Validate(map[string]interface{}{"root": "nope", "status": "exported"})
	if !hasCode(result.Errors, "invalid_root_type") {
		t.Errorf("errors = %v, want invalid_root_type", codes(result.Errors))
	}
}

func TestValidateRootIssues(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": "el-root",
			"data": {"type": "EssentialElements\\Root", "properties": {"x": 1}},
			"children": []
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	if !hasCode(result.Errors, "invalid_root_id_type") {
		t.Errorf("string root id must be an error, got %v", codes(result.Errors))
	}
	if !hasCode(result.Errors, "invalid_root_type_value") {
		t.Errorf("namespaced root type must be an error, got %v", codes(result.Errors))
	}
	if !hasCode(result.Warnings, "root_properties_not_null") {
		t.Errorf("non-null root properties must warn, got %v", codes(result.Warnings))
	}
}

func TestValidateMissingRootPieces(t *testing.T) {
	result := Validate(decode(t, `{"root": {}, "status": "exported"}`))
	for _, want := range []string{"missing_root_id", "missing_root_data", "missing_root_children"} {
		if !hasCode(result.Errors, want) {
			t.Errorf("errors = %v, want %s", codes(result.Errors), want)
		}
	}
}

func TestValidateElementIssuesCollected(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": 1,
			"data": {"type": "root", "properties": null},
			"children": [
				{"data": {"type": "EssentialElements\\Text"}, "children": []},
				{"id": "el-x", "data": {"type": "EssentialElements\\Text", "properties": null}, "parentId": 1}
			]
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	wantErrors := map[string]bool{
		"missing_element_id":         true, // first child
		"missing_element_properties": true, // first child
		"missing_parent_id":          true, // first child
		"invalid_element_id_type":    true, // second child: string id
		"missing_element_children":   true, // second child
	}
	for code := range wantErrors {
		if !hasCode(result.Errors, code) {
			t.Errorf("errors = %v, want %s", codes(result.Errors), code)
		}
	}
}

func TestValidateIssuePaths(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": 1,
			"data": {"type": "root", "properties": null},
			"children": [
				{"id": 2, "data": {"type": "EssentialElements\\Div", "properties": null}, "parentId": 1, "children": [
					{"id": 3, "data": {"properties": null}, "children": [], "parentId": 2}
				]}
			]
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	found := false
	for _, issue := range result.Errors {
		if issue.Code == "missing_element_type" {
			found = true
			if issue.Path != "root.children[0].children[0].data.type" {
				t.Errorf("path = %q", issue.Path)
			}
		}
	}
	if !found {
		t.Errorf("errors = %v, want missing_element_type", codes(result.Errors))
	}
}

func TestValidateUnknownTypeSuggestions(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": 1,
			"data": {"type": "root", "properties": null},
			"children": [
				{"id": 2, "data": {"type": "EssentialElements\\Headng", "properties": null}, "children": [], "parentId": 1}
			]
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	var issue *Issue
	for i := range result.Errors {
		if result.Errors[i].Code == "unknown_element_type" {
			issue = &result.Errors[i]
		}
	}
	if issue == nil {
		t.Fatalf("errors = %v, want unknown_element_type", codes(result.Errors))
	}
	if len(issue.Suggestions) == 0 || issue.Suggestions[0] != `EssentialElements\Heading` {
		t.Errorf("suggestions = %v, want Heading first", issue.Suggestions)
	}
}

func TestValidateUnprefixedTypeShortNameMatch(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": 1,
			"data": {"type": "root", "properties": null},
			"children": [
				{"id": 2, "data": {"type": "heading", "properties": null}, "children": [], "parentId": 1}
			]
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	for _, issue := range result.Errors {
		if issue.Code == "unknown_element_type" {
			if len(issue.Suggestions) != 1 || issue.Suggestions[0] != `EssentialElements\Heading` {
				t.Errorf("suggestions = %v, want exact short-name match only", issue.Suggestions)
			}
			return
		}
	}
	t.Fatalf("errors = %v, want unknown_element_type", codes(result.Errors))
}

func TestValidateParentMismatchIsWarning(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": 1,
			"data": {"type": "root", "properties": null},
			"children": [
				{"id": 2, "data": {"type": "EssentialElements\\Text", "properties": null}, "children": [], "parentId": 99}
			]
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	if !result.Valid {
		t.Fatalf("parent mismatch must not block: %v", codes(result.Errors))
	}
	if !hasCode(result.Warnings, "parent_id_mismatch") {
		t.Fatalf("warnings = %v, want parent_id_mismatch", codes(result.Warnings))
	}
	for _, w := range result.Warnings {
		if w.Code == "parent_id_mismatch" && w.Expected != "1" {
			t.Errorf("warning expected field = %q, want 1", w.Expected)
		}
	}
}

func TestValidateComputedFieldWarnings(t *testing.T) {
	tree := decode(t, validTree).(map[string]interface{})
	tree["nextNodeId"] = float64(101)
	tree["exportedLookupTable"] = map[string]interface{}{}

	result := Validate(tree)
	if !result.Valid {
		t.Fatalf("computed fields must not block: %v", codes(result.Errors))
	}
	if !hasCode(result.Warnings, "next_node_id_present") || !hasCode(result.Warnings, "lookup_table_present") {
		t.Errorf("warnings = %v", codes(result.Warnings))
	}
	if result.WarningCount != 2 {
		t.Errorf("warning_count = %d, want 2", result.WarningCount)
	}
}

func TestValidateMalformedChildEntry(t *testing.T) {
	tree := decode(t, `{
		"root": {
			"id": 1,
			"data": {"type": "root", "properties": null},
			"children": ["bare string"]
		},
		"status": "exported"
	}`)

	result := Validate(tree)
	if !hasCode(result.Errors, "invalid_element") {
		t.Errorf("errors = %v, want invalid_element", codes(result.Errors))
	}
}

func TestResultShapeMarshalsEmptyLists(t *testing.T) {
	blob, err := json.Marshal(Validate(decode(t, validTree)))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"valid":true,"errors":[],"warnings":[],"error_count":0,"warning_count":0}`
	if string(blob) != want {
		t.Errorf("marshal = %s, want %s", blob, want)
	}
}
