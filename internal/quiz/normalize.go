package quiz

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize strips every white-space and line-terminator character and
// case-folds the rest, so "p { color : RED ; }" and "p{color:red;}" match.
func Normalize(s string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return cases.Fold().String(stripped)
}

// Equal compares two free text answers after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
