package doctree

import "strings"

// Canonical field values expected by the strict-schema consumer.
const (
	StatusExported = "exported"
	RootType       = "root"
	RootElementID  = "el-root"

	KeyRoot        = "root"
	KeyStatus      = "status"
	KeyNextNodeID  = "nextNodeId"
	KeyLookupTable = "exportedLookupTable"
)

// EnsureTreeIntegrity fills in everything a decoded tree needs for strict
// schema acceptance without discarding user-supplied structure: root type
// and properties, the next-node-id counter, the reserved lookup table and
// the exported status. It never rejects; repair is its only job. A value
// without a root is not a tree this canonicalizer understands and comes
// back unchanged so the caller can try legacy fallbacks.
//
// The input is not mutated, and the operation is idempotent.
func EnsureTreeIntegrity(tree map[string]interface{}) map[string]interface{} {
	if _, ok := tree[KeyRoot].(map[string]interface{}); !ok {
		return tree
	}

	out := deepCopyMap(tree)
	root := out[KeyRoot].(map[string]interface{})

	data, ok := root["data"].(map[string]interface{})
	if !ok {
		data = map[string]interface{}{}
		root["data"] = data
	}

	// A namespaced root tag ("EssentialElements\Root") collapses to the
	// literal the consumer expects.
	if t, ok := data["type"].(string); ok {
		if idx := strings.LastIndex(t, `\`); idx >= 0 && strings.EqualFold(t[idx+1:], RootType) {
			data["type"] = RootType
		}
	} else {
		data["type"] = RootType
	}

	if props, ok := data["properties"]; !ok || props == nil {
		data["properties"] = nil
	} else if m, ok := props.(map[string]interface{}); ok && len(m) == 0 {
		data["properties"] = nil
	}

	if _, ok := root["children"].([]interface{}); !ok {
		root["children"] = []interface{}{}
	}
	ensureChildrenArrays(root["children"].([]interface{}))

	if _, ok := out[KeyNextNodeID]; !ok {
		out[KeyNextNodeID] = CalculateNextNodeID(out)
	}

	// The lookup table must serialize as {} — a decoded legacy value may
	// hold a PHP-style empty array here.
	if lt, ok := out[KeyLookupTable]; !ok {
		out[KeyLookupTable] = map[string]interface{}{}
	} else if _, isMap := lt.(map[string]interface{}); !isMap {
		out[KeyLookupTable] = map[string]interface{}{}
	}

	if _, ok := out[KeyStatus]; !ok {
		out[KeyStatus] = StatusExported
	}

	return out
}

// CreateEmptyTree returns the minimal well-formed tree: a bare root with a
// string sentinel id and no children. Status and the lookup table are left
// for a subsequent integrity pass.
func CreateEmptyTree() map[string]interface{} {
	return map[string]interface{}{
		KeyRoot: map[string]interface{}{
			"id": RootElementID,
			"data": map[string]interface{}{
				"type":       RootType,
				"properties": nil,
			},
			"children": []interface{}{},
		},
		KeyNextNodeID: int64(1),
	}
}

// CalculateNextNodeID returns an integer strictly greater than every node
// id in the tree. Integer ids count directly; string ids contribute their
// trailing digit group. The floor is 1 for trees with no numeric ids.
func CalculateNextNodeID(tree map[string]interface{}) int64 {
	var max int64
	root, ok := tree[KeyRoot].(map[string]interface{})
	if !ok {
		return 1
	}
	ids := []NodeID{}
	if id, ok := ParseNodeID(root["id"]); ok {
		ids = append(ids, id)
	}
	ids = append(ids, CollectIDs(Children(root))...)
	for _, id := range ids {
		if n, ok := id.NumericValue(); ok && n > max {
			max = n
		}
	}
	if max < 0 {
		max = 0
	}
	return max + 1
}

// ensureChildrenArrays walks every well-formed node and materializes a
// missing or mistyped children field as an explicit empty array, which the
// canonical shape requires even on leaves.
func ensureChildrenArrays(children []interface{}) {
	for _, entry := range children {
		node, ok := asNode(entry)
		if !ok {
			continue
		}
		kids, ok := node["children"].([]interface{})
		if !ok {
			node["children"] = []interface{}{}
			continue
		}
		ensureChildrenArrays(kids)
	}
}

func deepCopyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
