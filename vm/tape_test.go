package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTape(t *testing.T) {
	assert.Equal(t, 1, NewTape(0).Len())
	assert.Equal(t, 1, NewTape(-4).Len())
	assert.Equal(t, 30000, NewTape(30000).Len())

	tape := NewTapeFrom(nil)
	assert.Equal(t, []byte{0}, tape.Cells())
}

func TestTapeGetSet(t *testing.T) {
	tape := NewTape(2)
	assert.Equal(t, byte(0), tape.Get(5))
	assert.Equal(t, byte(0), tape.Get(-1))

	tape.Set(5, 42)
	assert.Equal(t, 6, tape.Len())
	assert.Equal(t, byte(42), tape.Get(5))
	tape.Set(-1, 9)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 42}, tape.Cells())
}

func TestTapeCellsIsCopy(t *testing.T) {
	src := []byte{1, 2, 3}
	tape := NewTapeFrom(src)
	src[0] = 9
	cells := tape.Cells()
	cells[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, tape.Cells())
}

func TestTapeEnsure(t *testing.T) {
	tape := NewTape(1)
	for n := 2; n <= 1000; n++ {
		require.True(t, tape.ensure(n, 0))
		require.Equal(t, n, tape.Len())
		require.Equal(t, byte(0), tape.Get(n-1))
	}
	assert.GreaterOrEqual(t, cap(tape.cells), 1000)

	limited := NewTape(1)
	assert.True(t, limited.ensure(3, 3))
	assert.False(t, limited.ensure(4, 3))
	assert.Equal(t, 3, limited.Len())
	assert.LessOrEqual(t, cap(limited.cells), 3)
}
