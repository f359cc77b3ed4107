package artifact

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// StyledElement holds inline declarations normalized the way a browser
// serializes element.style.
type StyledElement struct {
	decls map[string]string
	order []string
}

var propertyName = regexp.MustCompile(`^-?[a-z][a-z0-9-]*$`)

// ParseStyle parses a declaration list such as "color: red; margin: 0".
// Malformed declarations are dropped; later declarations win.
func ParseStyle(cssText string) *StyledElement {
	s := &StyledElement{decls: make(map[string]string)}
	for _, d := range declarations(cssText) {
		s.set(d.name, d.value)
	}
	return s
}

func (s *StyledElement) Kind() Kind { return KindStyle }

func (s *StyledElement) QueryAll(string) []Element { return nil }

// Style returns the serialized value of property. Shorthands that were not
// declared directly are composed from their longhands when all are present.
func (s *StyledElement) Style(property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	if v, ok := s.decls[property]; ok {
		return v
	}
	switch property {
	case "margin", "padding":
		return s.composeBox(property)
	case "border":
		w, st, c := s.decls["border-width"], s.decls["border-style"], s.decls["border-color"]
		if w == "" || st == "" || c == "" {
			return ""
		}
		return w + " " + st + " " + c
	}
	return ""
}

// Properties lists declared property names in declaration order.
func (s *StyledElement) Properties() []string {
	return append([]string(nil), s.order...)
}

// CSSText serializes the declarations back into a declaration list.
func (s *StyledElement) CSSText() string {
	parts := make([]string, 0, len(s.order))
	for _, p := range s.order {
		parts = append(parts, p+": "+s.decls[p]+";")
	}
	return strings.Join(parts, " ")
}

// Set assigns a declaration, normalizing the value. An empty value removes it.
func (s *StyledElement) Set(property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	if strings.TrimSpace(value) == "" {
		s.remove(property)
		return
	}
	for _, d := range declarations(property + ": " + value) {
		if d.name == property {
			s.set(d.name, d.value)
		}
	}
}

func (s *StyledElement) set(name string, tokens []string) {
	switch name {
	case "margin", "padding", "border-width", "border-style", "border-color":
		if len(tokens) > 4 {
			return
		}
		tokens = collapseBox(tokens)
	case "border", "border-top", "border-right", "border-bottom", "border-left":
		tokens = orderBorder(tokens)
		if tokens == nil {
			return
		}
	case "background":
		for _, t := range tokens {
			if isColor(t) {
				s.put("background-color", t)
			}
		}
	}
	s.put(name, strings.Join(tokens, " "))
}

func (s *StyledElement) put(name, value string) {
	if _, ok := s.decls[name]; !ok {
		s.order = append(s.order, name)
	}
	s.decls[name] = value
}

func (s *StyledElement) remove(name string) {
	if _, ok := s.decls[name]; !ok {
		return
	}
	delete(s.decls, name)
	for i, p := range s.order {
		if p == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *StyledElement) composeBox(property string) string {
	var sides []string
	for _, side := range []string{"top", "right", "bottom", "left"} {
		v := s.decls[property+"-"+side]
		if v == "" {
			return ""
		}
		sides = append(sides, v)
	}
	return strings.Join(collapseBox(sides), " ")
}

// collapseBox reduces top/right/bottom/left values to the shortest
// equivalent shorthand.
func collapseBox(v []string) []string {
	if len(v) == 4 && v[3] == v[1] {
		v = v[:3]
	}
	if len(v) == 3 && v[2] == v[0] {
		v = v[:2]
	}
	if len(v) == 2 && v[1] == v[0] {
		v = v[:1]
	}
	return v
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// orderBorder arranges a border shorthand as width, style, color. It
// returns nil when a component repeats or is unrecognized.
func orderBorder(tokens []string) []string {
	var width, style, color string
	for _, t := range tokens {
		switch {
		case borderStyles[t] && style == "":
			style = t
		case isLength(t) && width == "":
			width = t
		case isColor(t) && color == "":
			color = t
		default:
			return nil
		}
	}
	var out []string
	for _, part := range []string{width, style, color} {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

var lengthPattern = regexp.MustCompile(`^(0|[+-]?(\d+\.?\d*|\.\d+)(px|em|rem|%|pt|pc|cm|mm|in|vh|vw|vmin|vmax|ch|ex))$`)

func isLength(t string) bool {
	switch t {
	case "thin", "medium", "thick":
		return true
	}
	return lengthPattern.MatchString(t)
}

type declaration struct {
	name string
	// value holds normalized components; a component followed by a comma
	// carries it as a suffix.
	value []string
}

// declarations parses an inline declaration list. Declarations the parser
// rejects, custom properties and empty values are skipped.
func declarations(cssText string) []declaration {
	p := css.NewParser(parse.NewInputString(cssText), true)
	var out []declaration
	for {
		gt, tt, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if tt == css.ErrorToken {
				return out
			}
		case css.DeclarationGrammar:
			name := string(data)
			if !propertyName.MatchString(name) {
				continue
			}
			r := valueReader{toks: stripImportant(p.Values())}
			if v := r.list(); len(v) > 0 {
				out = append(out, declaration{name: name, value: v})
			}
		}
	}
}

// stripImportant drops a trailing "!important" and trailing whitespace.
func stripImportant(toks []css.Token) []css.Token {
	end := len(toks)
	for end > 0 && toks[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end >= 2 && toks[end-1].TokenType == css.IdentToken && strings.EqualFold(string(toks[end-1].Data), "important") {
		i := end - 2
		for i >= 0 && toks[i].TokenType == css.WhitespaceToken {
			i--
		}
		if i >= 0 && toks[i].TokenType == css.DelimToken && string(toks[i].Data) == "!" {
			return toks[:i]
		}
	}
	return toks[:end]
}

type valueReader struct {
	toks []css.Token
	pos  int
}

// list reads value components up to the closing parenthesis of the
// enclosing function, or to the end.
func (r *valueReader) list() []string {
	var out []string
	for r.pos < len(r.toks) {
		t := r.toks[r.pos]
		r.pos++
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
		case css.RightParenthesisToken:
			return out
		case css.CommaToken:
			if n := len(out); n > 0 {
				out[n-1] += ","
			}
		case css.FunctionToken:
			name := strings.TrimSuffix(strings.ToLower(string(t.Data)), "(")
			out = append(out, normalizeFunc(name, r.list()))
		case css.LeftParenthesisToken:
			out = append(out, normalizeFunc("", r.list()))
		default:
			out = append(out, normalizeToken(t))
		}
	}
	return out
}

func normalizeToken(t css.Token) string {
	v := string(t.Data)
	switch t.TokenType {
	case css.StringToken, css.URLToken:
		return v
	case css.HashToken:
		if c, ok := hexToRGB(v); ok {
			return c
		}
		return v
	}
	return strings.ToLower(v)
}

// normalizeFunc joins arguments with canonical comma spacing; rgb() and
// rgba() are further reduced to their serialized form.
func normalizeFunc(name string, args []string) string {
	text := name + "(" + strings.Join(args, " ") + ")"
	if c, ok := normalizeRGBFunc(text); ok {
		return c
	}
	return text
}
