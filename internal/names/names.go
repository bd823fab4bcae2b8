// Package names builds the identifiers of generated code.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Decapitalize lower-cases the first letter of s.
func Decapitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// CamelCase joins parts after prefix, capitalizing each of them. Empty
// parts are dropped.
//
//	CamelCase("$", "yielder", "fib", "while") == "$YielderFibWhile"
func CamelCase(prefix string, parts ...string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, p := range parts {
		sb.WriteString(Capitalize(p))
	}
	return sb.String()
}

// ConstantCase converts a camel case name into an upper case constant
// name, as in PROP_FIRST_NAME for firstName.
func ConstantCase(s string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range s {
		if unicode.IsUpper(r) && prevLower {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return sb.String()
}

// Singular returns the singular of an English plural, for the item adders
// of collection fields. Words it does not know are returned unchanged.
func Singular(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "sses"), strings.HasSuffix(s, "xes"), strings.HasSuffix(s, "ches"), strings.HasSuffix(s, "shes"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "ss"):
		return s
	case strings.HasSuffix(s, "s") && len(s) > 1:
		return s[:len(s)-1]
	}
	return s
}
