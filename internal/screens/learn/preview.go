package learn

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/net/html"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/ui/theme"
)

// outline renders markup as an indented element tree: one line per
// element with its interesting attributes and direct text.
func outline(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return theme.Hint.Render("(空白)")
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return theme.Hint.Render("(無法解析)")
	}

	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if body == nil {
		return ""
	}

	tag := lipgloss.NewStyle().Foreground(theme.Primary)
	attr := lipgloss.NewStyle().Foreground(theme.Accent)

	var lines []string
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			line := strings.Repeat("  ", depth) + tag.Render("<"+c.Data+">")
			for _, a := range c.Attr {
				switch a.Key {
				case "href", "src", "alt", "type", "placeholder":
					line += " " + attr.Render(a.Key+"="+a.Val)
				}
			}
			if t := directText(c); t != "" {
				line += " " + theme.Body.Render(t)
			}
			lines = append(lines, line)
			walk(c, depth+1)
		}
	}
	walk(body, 0)

	if len(lines) == 0 {
		return theme.Hint.Render("(沒有元素)")
	}
	return strings.Join(lines, "\n")
}

func directText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if t := strings.Join(strings.Fields(c.Data), " "); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// basicColors covers the named colours used in lessons; other names render
// without colour.
var basicColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"red":       "#ff0000",
	"green":     "#008000",
	"blue":      "#0000ff",
	"yellow":    "#ffff00",
	"orange":    "#ffa500",
	"pink":      "#ffc0cb",
	"lightblue": "#add8e6",
}

func cssColor(v string) (color.Color, bool) {
	if hex, ok := basicColors[v]; ok {
		return lipgloss.Color(hex), true
	}
	var r, g, b int
	if n, _ := fmt.Sscanf(v, "rgb(%d, %d, %d)", &r, &g, &b); n == 3 {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
	}
	if strings.HasPrefix(v, "#") && (len(v) == 4 || len(v) == 7) {
		return lipgloss.Color(v), true
	}
	return nil, false
}

// styledBox approximates the preview element in the terminal: colours,
// weight, alignment and a border, followed by the declaration list.
func styledBox(el *artifact.StyledElement, width int) string {
	box := lipgloss.NewStyle().Width(max(width-4, 10)).Padding(0, 1)
	if c, ok := cssColor(el.Style("color")); ok {
		box = box.Foreground(c)
	}
	if c, ok := cssColor(el.Style("background-color")); ok {
		box = box.Background(c)
	}
	switch el.Style("font-weight") {
	case "bold", "700", "800", "900":
		box = box.Bold(true)
	}
	switch el.Style("text-align") {
	case "center":
		box = box.Align(lipgloss.Center)
	case "right":
		box = box.Align(lipgloss.Right)
	}
	if el.Style("border") != "" {
		box = box.Border(lipgloss.NormalBorder())
		if c, ok := borderColor(el.Style("border")); ok {
			box = box.BorderForeground(c)
		}
	}

	out := box.Render("Box 預覽")
	if css := el.CSSText(); css != "" {
		out += "\n" + theme.Hint.Render(css)
	}
	return out
}

func borderColor(v string) (color.Color, bool) {
	if i := strings.Index(v, "rgb("); i >= 0 {
		return cssColor(v[i:])
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return nil, false
	}
	return cssColor(fields[len(fields)-1])
}
