package artifact

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed markup document.
type Document struct {
	root *html.Node
}

// ParseDocument parses markup the way a browser parses a written frame:
// missing html, head and body elements are synthesized.
func ParseDocument(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

func (d *Document) Kind() Kind { return KindDocument }

func (d *Document) QueryAll(selector string) []Element {
	return queryAll(d.root, selector)
}

type node struct {
	n *html.Node
}

func (e node) Tag() string { return e.n.Data }

func (e node) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

func (e node) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			if isURLAttr(e.n.DataAtom, name) {
				return resolveURL(a.Val), true
			}
			return a.Val, true
		}
	}
	return "", false
}

func (e node) QueryAll(selector string) []Element {
	return queryAll(e.n, selector)
}

func isURLAttr(tag atom.Atom, name string) bool {
	switch name {
	case "href":
		return tag == atom.A || tag == atom.Link || tag == atom.Area
	case "src":
		return tag == atom.Img || tag == atom.Script || tag == atom.Iframe || tag == atom.Source
	}
	return false
}

// resolveURL serializes absolute http(s) URLs like URL.href does. Relative
// references are returned unchanged since a written frame has no base.
func resolveURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || !u.IsAbs() {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "http" || u.Scheme == "https" {
		u.Host = strings.ToLower(u.Host)
		if u.Path == "" {
			u.Path = "/"
		}
	}
	return u.String()
}

// CompileSelector parses a selector group such as "ol li, a img".
func CompileSelector(selector string) (cascadia.SelectorGroup, error) {
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	return group, nil
}

// queryAll returns descendants of scope matching selector in document
// order. A selector that does not compile matches nothing.
func queryAll(scope *html.Node, selector string) []Element {
	group, err := CompileSelector(selector)
	if err != nil {
		return nil
	}
	var out []Element
	for _, n := range cascadia.QueryAll(scope, group) {
		out = append(out, node{n})
	}
	return out
}
