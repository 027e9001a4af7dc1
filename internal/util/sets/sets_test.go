package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("b", "a")
	s.Add("c")
	s.Add("a")

	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, Sorted(s))
}

func TestNilSet(t *testing.T) {
	var s Set[int]
	assert.False(t, s.Has(1))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, Sorted(s))
}
