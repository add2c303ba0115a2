package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection(t *testing.T) {
	s := NewSelection()
	s.Add("b")
	s.Add("a")
	s.Add("b")

	assert.Equal(t, []string{"b", "a"}, s.IDs())
	assert.True(t, s.Has("a"))

	s.Remove("b")
	s.Remove("missing")
	assert.Equal(t, []string{"a"}, s.IDs())
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.False(t, s.Has("a"))
}
