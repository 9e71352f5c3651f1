package doctree

import "encoding/json"

// Stored trees have gone through several serialization shapes over time.
// Each strategy is a pure attempt at one shape; ParseDocument tries them
// in order and the first success wins.
type parseStrategy func(raw interface{}) (map[string]interface{}, bool)

var strategies = []parseStrategy{
	parseCanonical,
	parseWrapped,
	parseBareRoot,
}

// ParseDocument reconciles a decoded value in any of the supported
// serialization shapes into the canonical top-level form. The second
// return is false when no strategy recognizes the value.
func ParseDocument(raw interface{}) (map[string]interface{}, bool) {
	for _, try := range strategies {
		if tree, ok := try(raw); ok {
			return tree, true
		}
	}
	return nil, false
}

// DecodeDocument unmarshals a stored JSON blob and runs the fallback chain.
func DecodeDocument(data []byte) (map[string]interface{}, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	return ParseDocument(raw)
}

// parseCanonical matches the current shape: an object with a root object.
func parseCanonical(raw interface{}) (map[string]interface{}, bool) {
	tree, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false
	}
	if _, ok := tree[KeyRoot].(map[string]interface{}); !ok {
		return nil, false
	}
	return tree, true
}

// parseWrapped matches an older storage shape where the tree sat under a
// "tree" key next to unrelated metadata.
func parseWrapped(raw interface{}) (map[string]interface{}, bool) {
	outer, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false
	}
	inner, ok := outer["tree"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return parseCanonical(inner)
}

// parseBareRoot matches the oldest shape: the root node itself stored at
// the top level, recognizable by its node fields.
func parseBareRoot(raw interface{}) (map[string]interface{}, bool) {
	node, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false
	}
	if _, hasRoot := node[KeyRoot]; hasRoot {
		return nil, false
	}
	_, hasData := node["data"].(map[string]interface{})
	_, hasChildren := node["children"].([]interface{})
	if !hasData && !hasChildren {
		return nil, false
	}
	return map[string]interface{}{KeyRoot: node}, true
}
