package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Basics(t *testing.T) {
	s := New("go", "telegram")
	s.Add("rust")
	assert.True(t, s.Has("go"))
	assert.False(t, s.Has("python"))

	c := s.Clone()
	c.Delete("go")
	assert.True(t, s.Has("go"), "clone must not share storage")
	assert.False(t, c.Has("go"))
}

func TestSet_DifferenceAndIntersection(t *testing.T) {
	a := New("a", "b", "c")
	b := New("b", "c", "d")

	assert.Equal(t, []string{"a"}, Sorted(a.Difference(b)))
	assert.Equal(t, []string{"d"}, Sorted(b.Difference(a)))
	assert.Equal(t, 2, a.IntersectionLen(b))
	assert.Equal(t, 0, New[string]().IntersectionLen(a))
}
