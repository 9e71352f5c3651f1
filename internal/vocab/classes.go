package vocab

import "strings"

// Class names carrying one of these prefixes belong to the builder's own
// stylesheet generation; everything else is a user-authored custom class.
var builtinClassPrefixes = []string{"bde-", "breakdance-", "ee-", "oxy-"}

// IsBuiltinClass reports whether a class name is builder-owned by prefix.
func IsBuiltinClass(class string) bool {
	for _, prefix := range builtinClassPrefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

// IsCustomClass is the complement of IsBuiltinClass for non-empty names.
func IsCustomClass(class string) bool {
	return class != "" && !IsBuiltinClass(class)
}

// BuiltinClassesForType returns the fixed classes implied by an element's
// type tag, e.g. "EssentialElements\IconBox" -> ["bde-icon-box"]. Unknown
// types imply no classes.
func BuiltinClassesForType(t string) []string {
	if !IsKnownType(t) {
		return nil
	}
	return []string{"bde-" + kebab(ShortName(t))}
}

// kebab lowercases a CamelCase short name with dashes at case boundaries.
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
