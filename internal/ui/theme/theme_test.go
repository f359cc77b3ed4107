package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		dark bool
		want string
	}{
		{"dark", false, "dark"},
		{"light", true, "light"},
		{"system", true, "dark"},
		{"system", false, "light"},
		{"neon", true, "dark"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.name, tt.dark).Name, "%s dark=%v", tt.name, tt.dark)
	}
}

func TestApply(t *testing.T) {
	t.Cleanup(func() { Apply(Dark) })

	Apply(Light)
	assert.Equal(t, "light", Active().Name)
	assert.Equal(t, Light.Primary, Primary)
	assert.Equal(t, Light.Text, Text)

	Apply(Dark)
	assert.Equal(t, Dark.Primary, Primary)
}
