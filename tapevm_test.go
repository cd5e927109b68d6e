package tapevm

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapevm/tapevm/compiler"
	"github.com/tapevm/tapevm/errors"
	"github.com/tapevm/tapevm/vm"
)

func TestCompileAndRun(t *testing.T) {
	fn, err := Compile("++++++++[>++++++++<-]>+.", WithFilename("a.bf"))
	require.NoError(t, err)
	assert.Equal(t, "a.bf", fn.Filename())

	var out bytes.Buffer
	tape, err := Run(context.Background(), fn, WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "A", out.String())
	assert.Equal(t, byte(65), tape.Get(1))
}

func TestEval(t *testing.T) {
	tape, err := Eval(context.Background(), "+++>++", WithMinCells(16))
	require.NoError(t, err)
	assert.Equal(t, 16, tape.Len())
	assert.Equal(t, []byte{3, 2}, tape.Cells()[:2])
}

func TestEvalCompileError(t *testing.T) {
	tape, err := Eval(context.Background(), "+[", WithFilename("bad.bf"))
	assert.Nil(t, tape)
	var compileErr *errors.CompileError
	require.True(t, stderrors.As(err, &compileErr))
	assert.Equal(t, errors.E1002, compileErr.Code)
	assert.Equal(t, "bad.bf", compileErr.Filename)
}

func TestExec(t *testing.T) {
	out, err := Exec(context.Background(), "cat ,[.,]", []byte("echo"), WithEOF(vm.EOFZero))
	require.NoError(t, err)
	assert.Equal(t, "echo", string(out))
}

func TestExecDefaultEOFKeepsLooping(t *testing.T) {
	// The cell keeps its last value at end of input, so cat never sees 0.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	out, err := Exec(ctx, "cat: copies input\n,[.,]", []byte("hi\n"))
	require.Error(t, err)
	var rt *errors.RuntimeError
	require.True(t, stderrors.As(err, &rt))
	assert.Equal(t, errors.Cancelled, rt.Kind)
	assert.Equal(t, errors.E3005, rt.Kind.Code())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, bytes.HasPrefix(out, []byte("hi\n\n")))
}

func TestFaultSourceLineCRLF(t *testing.T) {
	_, err := Exec(context.Background(), "+\r\n<<\r\n", nil)
	var rt *errors.RuntimeError
	require.True(t, stderrors.As(err, &rt))
	assert.Equal(t, "<<", rt.Source)
	assert.Equal(t, 2, rt.Line)
	assert.Equal(t, 1, rt.Column)
}

func TestExecReturnsOutputBeforeFault(t *testing.T) {
	out, err := Exec(context.Background(), "+.<.", nil)
	assert.Equal(t, []byte{1}, out)
	assert.True(t, stderrors.Is(err, errors.ErrTapeUnderflow))
}

func TestOptionsReachCompilerAndVM(t *testing.T) {
	_, err := Compile("+++", WithMaxInstructions(2))
	var compileErr *errors.CompileError
	require.True(t, stderrors.As(err, &compileErr))
	assert.Equal(t, errors.E2001, compileErr.Code)

	fn, err := Compile("anything +", WithNamer(compiler.Fixed("fixed")))
	require.NoError(t, err)
	assert.Equal(t, "fixed", fn.Name())

	_, err = Exec(context.Background(), ">>>>", nil, WithMaxCells(2))
	assert.True(t, stderrors.Is(err, errors.ErrTapeLimit))

	_, err = Exec(context.Background(), ",", nil, WithEOF(vm.EOFFault))
	var rt *errors.RuntimeError
	require.True(t, stderrors.As(err, &rt))
	assert.Equal(t, errors.IO, rt.Kind)
}

type stepCounter struct {
	vm.NoOpObserver
	steps int
}

func (s *stepCounter) OnStep(vm.StepEvent) bool {
	s.steps++
	return true
}

func TestWithObserverAndLogger(t *testing.T) {
	counter := &stepCounter{}
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	_, err := Exec(context.Background(), "++[-]", nil, WithObserver(counter), WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 7, counter.steps)
	assert.Contains(t, logs.String(), "compiled function")
	assert.Contains(t, logs.String(), "run halted")
}

func TestNilOptionIgnored(t *testing.T) {
	out, err := Exec(context.Background(), "+.", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, out)
}

func TestRunConcurrently(t *testing.T) {
	fn, err := Compile(strings.Repeat("+", 42) + ".")
	require.NoError(t, err)
	done := make(chan []byte)
	for i := 0; i < 8; i++ {
		go func() {
			var out bytes.Buffer
			if _, err := Run(context.Background(), fn, WithOutput(&out)); err != nil {
				done <- nil
				return
			}
			done <- out.Bytes()
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, []byte{42}, <-done)
	}
}
