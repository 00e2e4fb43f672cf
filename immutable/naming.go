package immutable

import (
	"unicode"
	"unicode/utf8"
)

// SetterName returns the setter name for a property: "Set" followed by the
// property name with its first rune upper-cased (attr2 -> SetAttr2).
func SetterName(prop string) string {
	return "Set" + upperFirst(prop)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// validPropertyName reports whether name is a Go-style identifier, which is
// what a derived setter name needs.
func validPropertyName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
