package doctree

// Path is a sequence of keys into a nested map structure, outermost first.
type Path []string

// GetNested walks a chain of string keys through nested maps. The second
// return is false when any hop is missing or not a map.
func GetNested(m map[string]interface{}, path Path) (interface{}, bool) {
	if m == nil || len(path) == 0 {
		return nil, false
	}
	cur := m
	for i, key := range path {
		v, ok := cur[key]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return v, true
		}
		next, ok := v.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// HasNested reports whether the full path resolves, regardless of value.
func HasNested(m map[string]interface{}, path Path) bool {
	_, ok := GetNested(m, path)
	return ok
}

// SetNested writes a value at the given path, creating intermediate maps
// as needed. Non-map intermediate values are replaced.
func SetNested(m map[string]interface{}, path Path, value interface{}) {
	if m == nil || len(path) == 0 {
		return
	}
	cur := m
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}
