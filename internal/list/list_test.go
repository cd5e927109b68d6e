package list

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	released []int
}

func (r *recorder) Release(v int)         { r.released = append(r.released, v) }
func (r *recorder) Describe(v int) string { return fmt.Sprintf("#%d", v) }

func values(l *List[int]) []int {
	var out []int
	l.Each(func(_ int, v int) bool {
		out = append(out, v)
		return true
	})
	return out
}

func TestAddHeadAndTail(t *testing.T) {
	l := New[int](nil)
	for i := 0; i < 5; i++ {
		l.AddHead(i)
		l.AddTail(i)
	}
	require.Equal(t, 10, l.Len())
	assert.Equal(t, []int{4, 3, 2, 1, 0, 0, 1, 2, 3, 4}, values(l))

	head, ok := l.Head()
	assert.True(t, ok)
	assert.Equal(t, 4, head)
	tail, ok := l.Tail()
	assert.True(t, ok)
	assert.Equal(t, 4, tail)
}

func TestAtFromBothEnds(t *testing.T) {
	l := New[int](nil)
	for i := 0; i < 9; i++ {
		l.AddTail(i * 10)
	}
	for i := 0; i < 9; i++ {
		v, ok := l.At(i)
		require.True(t, ok)
		assert.Equal(t, i*10, v)
	}
	_, ok := l.At(9)
	assert.False(t, ok)
	_, ok = l.At(-1)
	assert.False(t, ok)
}

func TestEmptyList(t *testing.T) {
	l := New[string](nil)
	_, ok := l.Head()
	assert.False(t, ok)
	_, ok = l.Tail()
	assert.False(t, ok)
	_, ok = l.PopTail()
	assert.False(t, ok)
	_, ok = l.PopHead()
	assert.False(t, ok)
	assert.False(t, l.Delete(0))
	assert.Equal(t, "[]", l.String())
}

func TestPopReusesArena(t *testing.T) {
	l := New[int](nil)
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			l.AddTail(i)
		}
		for i := 3; i >= 0; i-- {
			v, ok := l.PopTail()
			require.True(t, ok)
			assert.Equal(t, i, v)
		}
	}
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 4, l.Cap())

	l.AddTail(1)
	l.AddTail(2)
	v, ok := l.PopHead()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []int{2}, values(l))
}

func TestDeleteReleases(t *testing.T) {
	r := &recorder{}
	l := New[int](r)
	for i := 0; i < 5; i++ {
		l.AddTail(i)
	}
	assert.True(t, l.Delete(2))
	assert.Equal(t, []int{0, 1, 3, 4}, values(l))
	assert.True(t, l.Delete(0))
	assert.True(t, l.Delete(2))
	assert.Equal(t, []int{1, 3}, values(l))
	assert.Equal(t, []int{2, 0, 4}, r.released)
}

func TestDeleteRange(t *testing.T) {
	r := &recorder{}
	l := New[int](r)
	for i := 0; i < 20; i++ {
		l.AddTail(i)
	}
	assert.True(t, l.DeleteRange(5, 10))
	assert.Equal(t, 10, l.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 15, 16, 17, 18, 19}, values(l))
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, r.released)

	assert.False(t, l.DeleteRange(8, 5))
	assert.Equal(t, 10, l.Len())
	assert.True(t, l.DeleteRange(0, 0))

	assert.True(t, l.DeleteRange(0, 10))
	assert.Equal(t, 0, l.Len())
	_, ok := l.Tail()
	assert.False(t, ok)
}

func TestReleaseAndString(t *testing.T) {
	r := &recorder{}
	l := New[int](r)
	l.AddTail(7)
	l.AddTail(8)
	assert.Equal(t, "[#7 #8]", l.String())

	l.Release()
	assert.Equal(t, []int{7, 8}, r.released)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, "[]", l.String())

	l.AddHead(9)
	assert.Equal(t, []int{9}, values(l))
}

func TestEachStops(t *testing.T) {
	l := New[int](nil)
	for i := 0; i < 5; i++ {
		l.AddTail(i)
	}
	var seen []int
	l.Each(func(position int, v int) bool {
		seen = append(seen, v)
		return position < 1
	})
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, "[0 1 2 3 4]", l.String())
}
