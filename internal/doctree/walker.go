package doctree

import "fmt"

// FlatElement is one pre-order record produced by Flatten.
type FlatElement struct {
	ID          NodeID                 `json:"id"`
	Type        string                 `json:"type"`
	Path        string                 `json:"path"`
	Depth       int                    `json:"depth"`
	Properties  map[string]interface{} `json:"properties"`
	HasChildren bool                   `json:"has_children"`
}

// Children extracts a node's children slice. Missing or mistyped children
// come back as an empty slice so walks never fail on malformed nodes.
func Children(node map[string]interface{}) []interface{} {
	kids, _ := node["children"].([]interface{})
	return kids
}

// NodeType reads data.type from a node, or "" when absent.
func NodeType(node map[string]interface{}) string {
	t, _ := GetNested(node, Path{"data", "type"})
	s, _ := t.(string)
	return s
}

// asNode filters the entries of a children array: anything that is not an
// object is skipped silently, since externally supplied trees are often
// partially malformed.
func asNode(entry interface{}) (map[string]interface{}, bool) {
	node, ok := entry.(map[string]interface{})
	return node, ok
}

// Flatten produces pre-order records for every well-formed node reachable
// from the given children, annotated with a dotted path and depth.
func Flatten(children []interface{}, basePath string, depth int) []FlatElement {
	out := []FlatElement{}
	for i, entry := range children {
		node, ok := asNode(entry)
		if !ok {
			continue
		}
		path := fmt.Sprintf("%s.children[%d]", basePath, i)
		id, _ := ParseNodeID(node["id"])
		props, _ := GetNested(node, Path{"data", "properties"})
		propsMap, _ := props.(map[string]interface{})
		kids := Children(node)
		out = append(out, FlatElement{
			ID:          id,
			Type:        NodeType(node),
			Path:        path,
			Depth:       depth,
			Properties:  propsMap,
			HasChildren: len(kids) > 0,
		})
		out = append(out, Flatten(kids, path, depth+1)...)
	}
	return out
}

// Count returns the total number of well-formed nodes reachable from the
// given children, counting every level.
func Count(children []interface{}) int {
	total := 0
	for _, entry := range children {
		node, ok := asNode(entry)
		if !ok {
			continue
		}
		total += 1 + Count(Children(node))
	}
	return total
}

// FindByID returns the first node in pre-order whose id matches, or nil.
// Ids are assumed unique; with duplicates the first match wins.
func FindByID(children []interface{}, id NodeID) map[string]interface{} {
	for _, entry := range children {
		node, ok := asNode(entry)
		if !ok {
			continue
		}
		if nodeID, ok := ParseNodeID(node["id"]); ok && nodeID.Equal(id) {
			return node
		}
		if found := FindByID(Children(node), id); found != nil {
			return found
		}
	}
	return nil
}

// ReplaceByID returns a copy of children with the first node matching id
// structurally replaced. The second return reports whether a match was made.
func ReplaceByID(children []interface{}, id NodeID, replacement map[string]interface{}) ([]interface{}, bool) {
	out := make([]interface{}, len(children))
	copy(out, children)
	for i, entry := range out {
		node, ok := asNode(entry)
		if !ok {
			continue
		}
		if nodeID, ok := ParseNodeID(node["id"]); ok && nodeID.Equal(id) {
			out[i] = replacement
			return out, true
		}
		kids, replaced := ReplaceByID(Children(node), id, replacement)
		if replaced {
			rewritten := make(map[string]interface{}, len(node))
			for k, v := range node {
				rewritten[k] = v
			}
			rewritten["children"] = kids
			out[i] = rewritten
			return out, true
		}
	}
	return out, false
}

// DistinctTypes returns the set of data.type tags present, in first-seen
// pre-order. Nodes without a type are skipped.
func DistinctTypes(children []interface{}) []string {
	seen := map[string]bool{}
	out := []string{}
	var walk func(kids []interface{})
	walk = func(kids []interface{}) {
		for _, entry := range kids {
			node, ok := asNode(entry)
			if !ok {
				continue
			}
			if t := NodeType(node); t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
			walk(Children(node))
		}
	}
	walk(children)
	return out
}

// CollectIDs gathers every parseable node id in pre-order.
func CollectIDs(children []interface{}) []NodeID {
	out := []NodeID{}
	for _, entry := range children {
		node, ok := asNode(entry)
		if !ok {
			continue
		}
		if id, ok := ParseNodeID(node["id"]); ok {
			out = append(out, id)
		}
		out = append(out, CollectIDs(Children(node))...)
	}
	return out
}
