package lesson

import (
	"testing"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/stretchr/testify/assert"
)

func TestPlaygroundMarkupGroups(t *testing.T) {
	p := NewPlayground(artifact.KindDocument, []string{"h1", "p"})
	p.Load([]curriculum.Command{
		{Group: "p", Label: "p1", Content: "<p>one</p>"},
		{Group: "h1", Label: "h", Content: "<h1>T</h1>"},
		{Group: "p", Label: "p2", Content: "<p>two</p>"},
		{Label: "layout", Content: "<main>x</main>"},
	})

	assert.True(t, p.Toggle(0))
	assert.True(t, p.Toggle(1))
	assert.Equal(t, "<h1>T</h1>\n\n<p>one</p>", p.Render(), "group order wins over toggle order")

	assert.True(t, p.Toggle(2))
	assert.False(t, p.IsActive(0), "one command per group")
	assert.Equal(t, "<h1>T</h1>\n\n<p>two</p>", p.Render())

	assert.False(t, p.Toggle(2))
	assert.Equal(t, "<h1>T</h1>", p.Render())

	assert.True(t, p.Toggle(3))
	assert.Equal(t, "<main>x</main>", p.Render())
	assert.False(t, p.Toggle(3))
	assert.Equal(t, "<h1>T</h1>", p.Render())

	assert.False(t, p.Toggle(9))
}

func TestPlaygroundStyle(t *testing.T) {
	p := NewPlayground(artifact.KindStyle, nil)
	p.Load([]curriculum.Command{
		{Group: "c", Label: "pink", Property: "color", Value: "pink"},
		{Group: "c", Label: "hex", Property: "color", Value: "#8ab4f8"},
		{Group: "s", Label: "size", Property: "font-size", Value: "12px"},
	})

	p.Toggle(0)
	p.Toggle(2)
	assert.Equal(t, "pink", p.Style().Style("color"))
	p.Toggle(1)
	assert.Equal(t, "rgb(138, 180, 248)", p.Style().Style("color"))
	assert.False(t, p.IsActive(0))

	p.Toggle(1)
	assert.Equal(t, "", p.Style().Style("color"))
	assert.Equal(t, "font-size: 12px;", p.Render())

	p.ApplyStyle("background-color: red; color: blue")
	assert.Equal(t, "red", p.Style().Style("background-color"))
	assert.Equal(t, "blue", p.Style().Style("color"))

	p.Load(nil)
	assert.Equal(t, "", p.Render())
}
