// Package classes reads and writes the CSS classes of a tree element.
// Historically classes have lived at several nested property paths;
// extraction merges every candidate, mutation writes only the canonical
// path. Legacy paths are not cleared on write — a one-way migration.
package classes

import (
	"fmt"
	"strings"

	"github.com/pagecraft/doctree-backend/internal/apperr"
	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/vocab"
)

// canonicalPath is the only path mutation writes, as a space-joined string.
var canonicalPath = doctree.Path{"properties", "attributes", "className"}

// pathCandidates is the ordered list of locations extraction reads,
// canonical first, then the legacy/alternate shapes.
var pathCandidates = []doctree.Path{
	canonicalPath,
	{"properties", "settings", "advanced", "classes"},
	{"properties", "advanced", "classes"},
	{"properties", "design", "css_classes"},
}

// Classes returns every class on a node: the builtin classes implied by
// its type tag first, then every class found under the candidate paths,
// deduplicated in first-seen order.
func Classes(node map[string]interface{}) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(cls string) {
		if cls != "" && !seen[cls] {
			seen[cls] = true
			out = append(out, cls)
		}
	}

	for _, cls := range vocab.BuiltinClassesForType(doctree.NodeType(node)) {
		add(cls)
	}
	data, _ := node["data"].(map[string]interface{})
	for _, path := range pathCandidates {
		raw, ok := doctree.GetNested(data, path)
		if !ok {
			continue
		}
		for _, cls := range classList(raw) {
			add(cls)
		}
	}
	return out
}

// CustomClasses filters Classes down to user-authored names.
func CustomClasses(node map[string]interface{}) []string {
	out := []string{}
	for _, cls := range Classes(node) {
		if vocab.IsCustomClass(cls) {
			out = append(out, cls)
		}
	}
	return out
}

// BuiltinClasses filters Classes down to builder-owned names.
func BuiltinClasses(node map[string]interface{}) []string {
	out := []string{}
	for _, cls := range Classes(node) {
		if vocab.IsBuiltinClass(cls) {
			out = append(out, cls)
		}
	}
	return out
}

// SetClasses writes the given classes to the canonical path as one
// space-joined string. It does not touch legacy paths.
func SetClasses(node map[string]interface{}, list []string) {
	data, ok := node["data"].(map[string]interface{})
	if !ok {
		data = map[string]interface{}{}
		node["data"] = data
	}
	cleaned := []string{}
	for _, cls := range list {
		cls = strings.TrimSpace(cls)
		if cls != "" {
			cleaned = append(cleaned, cls)
		}
	}
	doctree.SetNested(data, canonicalPath, strings.Join(cleaned, " "))
}

// AddClass appends a class to the node's custom set if not already present.
func AddClass(node map[string]interface{}, cls string) {
	cls = strings.TrimSpace(cls)
	if cls == "" {
		return
	}
	current := CustomClasses(node)
	for _, existing := range current {
		if existing == cls {
			return
		}
	}
	SetClasses(node, append(current, cls))
}

// RemoveClass deletes a single class from the node's custom set. Builtin
// classes cannot be removed, and removing an absent class is an error
// rather than a silent no-op.
func RemoveClass(node map[string]interface{}, cls string) error {
	cls = strings.TrimSpace(cls)
	if vocab.IsBuiltinClass(cls) {
		return fmt.Errorf("class %q: %w", cls, apperr.ErrBuiltinClass)
	}
	current := CustomClasses(node)
	kept := make([]string, 0, len(current))
	found := false
	for _, existing := range current {
		if existing == cls {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return fmt.Errorf("class %q: %w", cls, apperr.ErrClassNotFound)
	}
	SetClasses(node, kept)
	return nil
}

// classList accepts either a space-delimited string or an explicit list.
func classList(raw interface{}) []string {
	switch v := raw.(type) {
	case string:
		return strings.Fields(v)
	case []interface{}:
		out := []string{}
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.Fields(s)...)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}
