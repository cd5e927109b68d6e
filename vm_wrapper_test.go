package tapevm

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapevm/tapevm/errors"
)

func TestVMKeepsTapeAcrossEvals(t *testing.T) {
	var out bytes.Buffer
	v := NewVM(WithOutput(&out))
	ctx := context.Background()

	require.NoError(t, v.Eval(ctx, "+++"))
	require.NoError(t, v.Eval(ctx, "++."))
	require.NoError(t, v.Eval(ctx, ">+<."))
	assert.Equal(t, []byte{5, 5}, out.Bytes())
	assert.Equal(t, []byte{5, 1}, v.Tape().Cells())
	assert.Equal(t, 3, v.Runs())
}

func TestVMCompileErrorLeavesTape(t *testing.T) {
	v := NewVM(WithOutput(&bytes.Buffer{}))
	ctx := context.Background()
	require.NoError(t, v.Eval(ctx, "++"))

	err := v.Eval(ctx, "+]")
	var compileErr *errors.CompileError
	require.True(t, stderrors.As(err, &compileErr))
	assert.Equal(t, byte(2), v.Tape().Get(0))
	assert.Equal(t, 1, v.Runs())
}

func TestVMFaultKeepsWrites(t *testing.T) {
	v := NewVM(WithOutput(&bytes.Buffer{}))
	err := v.Eval(context.Background(), "+>+<<")
	assert.True(t, stderrors.Is(err, errors.ErrTapeUnderflow))
	assert.Equal(t, []byte{1, 1}, v.Tape().Cells())
}

func TestVMRunAndReset(t *testing.T) {
	fn, err := Compile("+")
	require.NoError(t, err)
	v := NewVM(WithMinCells(4))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, v.Run(ctx, fn))
	}
	assert.Equal(t, byte(3), v.Tape().Get(0))
	assert.Equal(t, 4, v.Tape().Len())

	v.Reset()
	assert.Equal(t, []byte{0, 0, 0, 0}, v.Tape().Cells())
	assert.Equal(t, 0, v.Runs())
	assert.Error(t, v.Run(ctx, nil))
}
