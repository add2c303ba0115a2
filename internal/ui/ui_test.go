package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlBusyRestore(t *testing.T) {
	c := NewControl("Delete Selected")
	c.Busy("Deleting...")

	assert.True(t, c.Disabled())
	assert.Equal(t, "Deleting...", c.Label())

	c.Restore()
	assert.False(t, c.Disabled())
	assert.Equal(t, "Delete Selected", c.Label())
}

func TestElementClosest(t *testing.T) {
	card := &Element{Class: "page-card"}
	button := &Element{Class: "btn-delete", Parent: card}
	icon := &Element{Class: "icon", Parent: button}

	tests := []struct {
		name   string
		target *Element
		class  string
		want   *Element
	}{
		{"self", button, "btn-delete", button},
		{"ancestor", icon, "btn-delete", button},
		{"card from icon", icon, "page-card", card},
		{"missing", card, "page-select", nil},
		{"nil target", nil, "page-card", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.Closest(tt.class))
		})
	}
}
