package validate

import "strings"

// Required reports whether a string carries a non-blank value.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// PositiveID reports whether value is a usable database identifier.
func PositiveID(value int64) bool {
	return value > 0
}
