package validate

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/vocab"
)

// Issue is one validation finding. Code is machine-readable, Path is a
// dotted path into the tree, and Expected/Example give the caller enough
// to fix the problem without another round trip.
type Issue struct {
	Code        string   `json:"code"`
	Path        string   `json:"path"`
	Message     string   `json:"message"`
	Expected    string   `json:"expected,omitempty"`
	Example     string   `json:"example,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Result is the externally visible validation contract. Errors block
// persistence; warnings do not. Validation never throws: absence of
// structure is itself a reported error.
type Result struct {
	Valid        bool    `json:"valid"`
	Errors       []Issue `json:"errors"`
	Warnings     []Issue `json:"warnings"`
	ErrorCount   int     `json:"error_count"`
	WarningCount int     `json:"warning_count"`
}

type collector struct {
	errors   []Issue
	warnings []Issue
}

func (c *collector) errorf(issue Issue) {
	c.errors = append(c.errors, issue)
}

func (c *collector) warnf(issue Issue) {
	c.warnings = append(c.warnings, issue)
}

func (c *collector) result() Result {
	return Result{
		Valid:        len(c.errors) == 0,
		Errors:       c.errors,
		Warnings:     c.warnings,
		ErrorCount:   len(c.errors),
		WarningCount: len(c.warnings),
	}
}

// Validate runs the full structural pass over an arbitrary decoded value
// claimed to be a document tree. It collects every issue in one
// depth-first pre-order walk instead of short-circuiting on the first.
func Validate(raw interface{}) Result {
	c := &collector{errors: []Issue{}, warnings: []Issue{}}

	tree, ok := raw.(map[string]interface{})
	if !ok {
		// Nothing else is inspectable.
		c.errorf(Issue{
			Code:     "invalid_tree_type",
			Path:     "",
			Message:  fmt.Sprintf("document tree must be an object, got %s", typeName(raw)),
			Expected: "object",
			Example:  `{"root": {"id": 1, "data": {"type": "root", "properties": null}, "children": []}, "status": "exported"}`,
		})
		return c.result()
	}

	validateRoot(c, tree)
	validateStatus(c, tree)
	validateComputedFields(c, tree)

	return c.result()
}

func validateRoot(c *collector, tree map[string]interface{}) {
	rawRoot, present := tree[doctree.KeyRoot]
	if !present {
		c.errorf(Issue{
			Code:     "missing_root",
			Path:     "root",
			Message:  "document tree has no root element",
			Expected: "object",
			Example:  `{"root": {"id": 1, "data": {"type": "root", "properties": null}, "children": []}}`,
		})
		return
	}
	root, ok := rawRoot.(map[string]interface{})
	if !ok {
		c.errorf(Issue{
			Code:     "invalid_root_type",
			Path:     "root",
			Message:  fmt.Sprintf("root must be an object, got %s", typeName(rawRoot)),
			Expected: "object",
			Example:  `{"id": 1, "data": {"type": "root", "properties": null}, "children": []}`,
		})
		return
	}

	// The root id anchors parent linkage for the whole tree. Downstream
	// strict-schema validation rejects non-integer ids, so a wrong type
	// here is an error, not a warning.
	rootID := int64(1)
	if rawID, present := root["id"]; !present {
		c.errorf(Issue{
			Code:     "missing_root_id",
			Path:     "root.id",
			Message:  "root element has no id",
			Expected: "integer",
			Example:  `1`,
		})
	} else if n, ok := intValue(rawID); !ok {
		c.errorf(Issue{
			Code:     "invalid_root_id_type",
			Path:     "root.id",
			Message:  fmt.Sprintf("root id must be an integer, got %s (%v)", typeName(rawID), rawID),
			Expected: "integer",
			Example:  `1`,
		})
	} else {
		rootID = n
	}

	validateRootData(c, root)

	rawChildren, present := root["children"]
	switch {
	case !present:
		c.errorf(Issue{
			Code:     "missing_root_children",
			Path:     "root.children",
			Message:  "root element has no children array; leaves carry an explicit empty array",
			Expected: "array",
			Example:  `[]`,
		})
	default:
		children, ok := rawChildren.([]interface{})
		if !ok {
			c.errorf(Issue{
				Code:     "invalid_root_children_type",
				Path:     "root.children",
				Message:  fmt.Sprintf("root children must be an array, got %s", typeName(rawChildren)),
				Expected: "array",
				Example:  `[]`,
			})
			return
		}
		for i, child := range children {
			validateElement(c, child, fmt.Sprintf("root.children[%d]", i), rootID)
		}
	}
}

func validateRootData(c *collector, root map[string]interface{}) {
	rawData, present := root["data"]
	if !present {
		c.errorf(Issue{
			Code:     "missing_root_data",
			Path:     "root.data",
			Message:  "root element has no data object",
			Expected: "object",
			Example:  `{"type": "root", "properties": null}`,
		})
		return
	}
	data, ok := rawData.(map[string]interface{})
	if !ok {
		c.errorf(Issue{
			Code:     "invalid_root_data_type",
			Path:     "root.data",
			Message:  fmt.Sprintf("root data must be an object, got %s", typeName(rawData)),
			Expected: "object",
			Example:  `{"type": "root", "properties": null}`,
		})
		return
	}

	if rawType, present := data["type"]; !present {
		c.errorf(Issue{
			Code:     "missing_root_type",
			Path:     "root.data.type",
			Message:  "root data has no type tag",
			Expected: `"root"`,
			Example:  `"root"`,
		})
	} else if t, ok := rawType.(string); !ok || t != doctree.RootType {
		// Case and namespace both matter; "EssentialElements\Root" is
		// not acceptable here.
		c.errorf(Issue{
			Code:     "invalid_root_type_value",
			Path:     "root.data.type",
			Message:  fmt.Sprintf("root type must be exactly %q, got %v", doctree.RootType, rawType),
			Expected: `"root"`,
			Example:  `"root"`,
		})
	}

	if props, present := data["properties"]; !present {
		c.errorf(Issue{
			Code:     "missing_root_properties",
			Path:     "root.data.properties",
			Message:  "root data has no properties key",
			Expected: "null",
			Example:  `null`,
		})
	} else if props != nil {
		c.warnf(Issue{
			Code:     "root_properties_not_null",
			Path:     "root.data.properties",
			Message:  "root properties should be null; set root.data.properties to null",
			Expected: "null",
			Example:  `null`,
		})
	}
}

func validateElement(c *collector, entry interface{}, path string, expectedParent int64) {
	node, ok := entry.(map[string]interface{})
	if !ok {
		c.errorf(Issue{
			Code:     "invalid_element",
			Path:     path,
			Message:  fmt.Sprintf("element must be an object, got %s", typeName(entry)),
			Expected: "object",
			Example:  `{"id": 100, "data": {"type": "EssentialElements\\Text", "properties": null}, "children": [], "parentId": 1}`,
		})
		return
	}

	elementID := int64(0)
	if rawID, present := node["id"]; !present {
		c.errorf(Issue{
			Code:     "missing_element_id",
			Path:     path + ".id",
			Message:  "element has no id",
			Expected: "integer",
			Example:  `100`,
		})
	} else if n, ok := intValue(rawID); !ok {
		c.errorf(Issue{
			Code:     "invalid_element_id_type",
			Path:     path + ".id",
			Message:  fmt.Sprintf("element id must be an integer, got %s (%v)", typeName(rawID), rawID),
			Expected: "integer",
			Example:  `100`,
		})
	} else {
		elementID = n
	}

	validateElementData(c, node, path)
	validateParentID(c, node, path, expectedParent)

	rawChildren, present := node["children"]
	switch {
	case !present:
		c.errorf(Issue{
			Code:     "missing_element_children",
			Path:     path + ".children",
			Message:  "element has no children array; leaves carry an explicit empty array",
			Expected: "array",
			Example:  `[]`,
		})
	default:
		children, ok := rawChildren.([]interface{})
		if !ok {
			c.errorf(Issue{
				Code:     "invalid_element_children_type",
				Path:     path + ".children",
				Message:  fmt.Sprintf("element children must be an array, got %s", typeName(rawChildren)),
				Expected: "array",
				Example:  `[]`,
			})
			return
		}
		for i, child := range children {
			validateElement(c, child, fmt.Sprintf("%s.children[%d]", path, i), elementID)
		}
	}
}

func validateElementData(c *collector, node map[string]interface{}, path string) {
	rawData, present := node["data"]
	if !present {
		c.errorf(Issue{
			Code:     "missing_element_data",
			Path:     path + ".data",
			Message:  "element has no data object",
			Expected: "object",
			Example:  `{"type": "EssentialElements\\Text", "properties": null}`,
		})
		return
	}
	data, ok := rawData.(map[string]interface{})
	if !ok {
		c.errorf(Issue{
			Code:     "invalid_element_data_type",
			Path:     path + ".data",
			Message:  fmt.Sprintf("element data must be an object, got %s", typeName(rawData)),
			Expected: "object",
			Example:  `{"type": "EssentialElements\\Text", "properties": null}`,
		})
		return
	}

	if rawType, present := data["type"]; !present {
		c.errorf(Issue{
			Code:     "missing_element_type",
			Path:     path + ".data.type",
			Message:  "element data has no type tag",
			Expected: "namespaced element type",
			Example:  `"EssentialElements\\Heading"`,
		})
	} else if t, ok := rawType.(string); !ok {
		c.errorf(Issue{
			Code:     "invalid_element_type",
			Path:     path + ".data.type",
			Message:  fmt.Sprintf("element type must be a string, got %s", typeName(rawType)),
			Expected: "namespaced element type",
			Example:  `"EssentialElements\\Heading"`,
		})
	} else if !vocab.IsKnownType(t) {
		c.errorf(Issue{
			Code:        "unknown_element_type",
			Path:        path + ".data.type",
			Message:     fmt.Sprintf("element type %q is not a recognized element", t),
			Expected:    "namespaced element type",
			Example:     `"EssentialElements\\Heading"`,
			Suggestions: suggestionsFor(t),
		})
	}

	// Element properties are more lenient than root: the key must exist,
	// the value may be an object or null.
	if _, present := data["properties"]; !present {
		c.errorf(Issue{
			Code:     "missing_element_properties",
			Path:     path + ".data.properties",
			Message:  "element data has no properties key",
			Expected: "object or null",
			Example:  `null`,
		})
	}
}

func validateParentID(c *collector, node map[string]interface{}, path string, expectedParent int64) {
	rawParent, present := node["parentId"]
	if !present {
		c.errorf(Issue{
			Code:     "missing_parent_id",
			Path:     path + ".parentId",
			Message:  "element has no parentId",
			Expected: "integer",
			Example:  fmt.Sprintf(`%d`, expectedParent),
		})
		return
	}
	n, ok := intValue(rawParent)
	if !ok {
		c.errorf(Issue{
			Code:     "invalid_parent_id_type",
			Path:     path + ".parentId",
			Message:  fmt.Sprintf("parentId must be an integer, got %s (%v)", typeName(rawParent), rawParent),
			Expected: "integer",
			Example:  fmt.Sprintf(`%d`, expectedParent),
		})
		return
	}
	// A tree with consistent structure but wrong ancestry bookkeeping is
	// still walkable, so this stays a warning.
	if n != expectedParent {
		c.warnf(Issue{
			Code:     "parent_id_mismatch",
			Path:     path + ".parentId",
			Message:  fmt.Sprintf("parentId is %d but the containing element's id is %d; set parentId to %d", n, expectedParent, expectedParent),
			Expected: fmt.Sprintf(`%d`, expectedParent),
			Example:  fmt.Sprintf(`%d`, expectedParent),
		})
	}
}

func validateStatus(c *collector, tree map[string]interface{}) {
	rawStatus, present := tree[doctree.KeyStatus]
	if !present {
		c.errorf(Issue{
			Code:     "missing_status",
			Path:     "status",
			Message:  "document tree has no status field",
			Expected: `"exported"`,
			Example:  `"exported"`,
		})
		return
	}
	if s, ok := rawStatus.(string); !ok || s != doctree.StatusExported {
		c.errorf(Issue{
			Code:     "invalid_status",
			Path:     "status",
			Message:  fmt.Sprintf("status must be %q, got %v", doctree.StatusExported, rawStatus),
			Expected: `"exported"`,
			Example:  `"exported"`,
		})
	}
}

// validateComputedFields warns when canonicalizer-owned fields show up in
// an input tree; they are computed, never authored.
func validateComputedFields(c *collector, tree map[string]interface{}) {
	if _, present := tree[doctree.KeyNextNodeID]; present {
		c.warnf(Issue{
			Code:     "next_node_id_present",
			Path:     doctree.KeyNextNodeID,
			Message:  "nextNodeId is computed during canonicalization; remove it from the input",
			Expected: "absent",
		})
	}
	if _, present := tree[doctree.KeyLookupTable]; present {
		c.warnf(Issue{
			Code:     "lookup_table_present",
			Path:     doctree.KeyLookupTable,
			Message:  "exportedLookupTable is attached during canonicalization; remove it from the input",
			Expected: "absent",
		})
	}
}

// suggestionsFor builds the ranked correction list for an unrecognized
// type tag. Unprefixed tags first try an exact case-insensitive short-name
// match before falling back to fuzzy ranking.
func suggestionsFor(t string) []string {
	if !vocab.HasKnownNamespace(t) {
		if full, ok := vocab.ByShortName(t); ok {
			return []string{full}
		}
	}
	return vocab.SuggestTypes(t)
}

// intValue reports whether a decoded JSON value is integer-typed and
// returns it. Integral floats count because encoding/json decodes all
// numbers to float64; numeric strings do not.
func intValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
		return 0, false
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
