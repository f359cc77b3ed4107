package lesson

import (
	"strings"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/curriculum"
)

// Playground composes the preview built from a lesson's demo commands.
//
// Markup commands are grouped: at most one command per group is active and
// the active fragments are joined in the unit's group order. Layout
// commands replace the whole preview. Style commands set one property on a
// single preview element.
type Playground struct {
	kind       artifact.Kind
	groupOrder []string
	commands   []curriculum.Command

	markup map[string]int
	layout int
	props  map[string]int
	style  *artifact.StyledElement
}

// NewPlayground creates an empty playground for a unit.
func NewPlayground(kind artifact.Kind, groupOrder []string) *Playground {
	p := &Playground{kind: kind, groupOrder: groupOrder}
	p.Load(nil)
	return p
}

// Load replaces the command list and clears every toggle.
func (p *Playground) Load(commands []curriculum.Command) {
	p.commands = commands
	p.markup = make(map[string]int)
	p.props = make(map[string]int)
	p.layout = -1
	p.style = artifact.ParseStyle("")
}

// Commands returns the loaded commands.
func (p *Playground) Commands() []curriculum.Command { return p.commands }

// Toggle flips command i and reports whether it is now active.
func (p *Playground) Toggle(i int) bool {
	if i < 0 || i >= len(p.commands) {
		return false
	}
	cmd := p.commands[i]
	switch cmd.Kind() {
	case curriculum.CommandLayout:
		if p.layout == i {
			p.layout = -1
			return false
		}
		p.layout = i
		return true

	case curriculum.CommandStyle:
		prop := strings.ToLower(cmd.Property)
		if cur, ok := p.props[prop]; ok && cur == i {
			delete(p.props, prop)
			p.style.Set(prop, "")
			return false
		}
		p.props[prop] = i
		p.style.Set(prop, cmd.Value)
		return true

	default:
		if cur, ok := p.markup[cmd.Group]; ok && cur == i {
			delete(p.markup, cmd.Group)
			return false
		}
		p.markup[cmd.Group] = i
		return true
	}
}

// IsActive reports whether command i is toggled on.
func (p *Playground) IsActive(i int) bool {
	if i < 0 || i >= len(p.commands) {
		return false
	}
	cmd := p.commands[i]
	switch cmd.Kind() {
	case curriculum.CommandLayout:
		return p.layout == i
	case curriculum.CommandStyle:
		cur, ok := p.props[strings.ToLower(cmd.Property)]
		return ok && cur == i
	default:
		cur, ok := p.markup[cmd.Group]
		return ok && cur == i
	}
}

// ApplyStyle merges a passing style answer into the preview element.
func (p *Playground) ApplyStyle(cssText string) {
	applied := artifact.ParseStyle(cssText)
	for _, prop := range applied.Properties() {
		p.style.Set(prop, applied.Style(prop))
	}
}

// Render returns the composed preview: markup for document units, a
// declaration list for style units.
func (p *Playground) Render() string {
	if p.kind == artifact.KindStyle {
		return p.style.CSSText()
	}
	if p.layout >= 0 {
		return p.commands[p.layout].Content
	}

	var parts []string
	for _, g := range p.groupOrder {
		if i, ok := p.markup[g]; ok {
			parts = append(parts, p.commands[i].Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Style returns the preview element for style units.
func (p *Playground) Style() *artifact.StyledElement { return p.style }
