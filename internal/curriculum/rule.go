package curriculum

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/synapse/internal/artifact"
)

// Rule is one declarative check of a challenge. Style rules compare an
// inline style property against Equals. Select rules query elements and
// apply whichever of Exists, Count, Text, Texts and Attr are set.
type Rule struct {
	Style string `json:"style,omitempty"`

	Select   string   `json:"select,omitempty"`
	Exists   *bool    `json:"exists,omitempty"`
	Count    *int     `json:"count,omitempty"`
	Text     *string  `json:"text,omitempty"`
	Texts    []string `json:"texts,omitempty"`
	Attr     string   `json:"attr,omitempty"`
	Equals   []string `json:"equals,omitempty"`
	Contains string   `json:"contains,omitempty"`
}

var errStyleOnDocument = errors.New("style rule evaluated against a non-style artifact")

// Compile turns rules into a predicate that holds when every rule holds.
func Compile(rules []Rule) (Predicate, error) {
	if len(rules) == 0 {
		return nil, errors.New("no rules")
	}
	for i, r := range rules {
		if err := r.check(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	rules = slices.Clone(rules)
	return func(a artifact.Artifact) (bool, error) {
		for _, r := range rules {
			ok, err := r.eval(a)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}, nil
}

func (r Rule) check() error {
	switch {
	case r.Style != "" && r.Select != "":
		return errors.New("style and select are mutually exclusive")
	case r.Style != "":
		if len(r.Equals) == 0 {
			return errors.New("style rule needs equals")
		}
	case r.Select != "":
		if r.Attr == "" && (len(r.Equals) > 0 || r.Contains != "") {
			return errors.New("equals/contains on a select rule need attr")
		}
		if _, err := artifact.CompileSelector(r.Select); err != nil {
			return err
		}
	default:
		return errors.New("rule needs style or select")
	}
	return nil
}

func (r Rule) eval(a artifact.Artifact) (bool, error) {
	if r.Style != "" {
		v, ok := artifact.StyleOf(a, r.Style)
		if !ok {
			return false, errStyleOnDocument
		}
		return slices.Contains(r.Equals, v), nil
	}

	matches := a.QueryAll(r.Select)
	checked := false

	if r.Exists != nil {
		checked = true
		if (len(matches) > 0) != *r.Exists {
			return false, nil
		}
	}
	if r.Count != nil {
		checked = true
		if len(matches) != *r.Count {
			return false, nil
		}
	}
	if r.Text != nil {
		checked = true
		if len(matches) == 0 || strings.TrimSpace(matches[0].Text()) != *r.Text {
			return false, nil
		}
	}
	if r.Texts != nil {
		checked = true
		if len(matches) != len(r.Texts) {
			return false, nil
		}
		for i, want := range r.Texts {
			if strings.TrimSpace(matches[i].Text()) != want {
				return false, nil
			}
		}
	}
	if r.Attr != "" {
		checked = true
		if len(matches) == 0 {
			return false, nil
		}
		v, ok := matches[0].Attr(r.Attr)
		if !ok {
			return false, nil
		}
		if len(r.Equals) > 0 && !slices.Contains(r.Equals, v) {
			return false, nil
		}
		if r.Contains != "" && !strings.Contains(v, r.Contains) {
			return false, nil
		}
	}

	if !checked {
		return len(matches) > 0, nil
	}
	return true, nil
}
