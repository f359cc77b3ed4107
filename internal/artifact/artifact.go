// Package artifact builds the objects challenge predicates inspect: a styled
// element for declaration-list input, or a parsed document for markup input.
package artifact

import (
	"errors"
	"fmt"
)

// Kind selects how editor input is turned into an artifact.
type Kind string

const (
	KindStyle    Kind = "style"
	KindDocument Kind = "document"
)

// MaxInputBytes bounds the editor input accepted by Build.
const MaxInputBytes = 64 << 10

var (
	ErrUnknownKind   = errors.New("unknown artifact kind")
	ErrInputTooLarge = errors.New("input too large")
)

// Artifact is what a predicate sees.
type Artifact interface {
	Kind() Kind
	// QueryAll returns elements matching selector in document order.
	QueryAll(selector string) []Element
}

// Styler is implemented by artifacts that carry inline declarations.
type Styler interface {
	// Style returns the serialized inline value of a CSS property, or "".
	Style(property string) string
}

// StyleOf reads property from a when it carries inline declarations.
func StyleOf(a Artifact, property string) (string, bool) {
	s, ok := a.(Styler)
	if !ok {
		return "", false
	}
	return s.Style(property), true
}

// Element is a node returned by QueryAll.
type Element interface {
	Tag() string
	// Text returns the concatenated text content.
	Text() string
	// Attr returns the attribute as the DOM property would report it:
	// href and src are resolved when absolute.
	Attr(name string) (string, bool)
	QueryAll(selector string) []Element
}

// Build constructs the artifact for kind from input.
func Build(kind Kind, input string) (Artifact, error) {
	if len(input) > MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(input))
	}
	switch kind {
	case KindStyle:
		return ParseStyle(input), nil
	case KindDocument:
		return ParseDocument(input)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
