package gwbasic

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	lines []string
}

func (s *recordingSink) WriteLine(line string) {

	s.lines = append(s.lines, line)
}

type countingFiles struct {
	closed int
}

func (f *countingFiles) CloseAll() error {

	f.closed++

	return nil
}

// machine is a program, its variables and a Run over them, the way
// the console wires them up.
type machine struct {
	prog  *Program
	vars  *Symtab
	heap  *StringSpace
	sink  *recordingSink
	files *countingFiles
	run   *Run
}

func newMachine(t *testing.T, src ...string) *machine {

	t.Helper()

	return newMachineOpts(t, Options{}, src...)
}

func newMachineOpts(t *testing.T, opts Options, src ...string) *machine {

	t.Helper()

	m := &machine{
		prog:  NewProgram(),
		vars:  NewSymtab(),
		heap:  NewStringSpace(),
		sink:  &recordingSink{},
		files: &countingFiles{},
	}

	for _, line := range src {
		require.NoError(t, m.prog.AddSource(line), line)
	}

	m.prog.Link()

	opts.Sink = m.sink
	opts.Files = m.files
	m.run = NewRun(m.prog, m.vars, m.heap, opts)

	return m
}

func (m *machine) direct(t *testing.T, line string) error {

	t.Helper()

	lineNo, toks, err := Tokenize(line)
	require.NoError(t, err)
	require.Equal(t, -1, lineNo)

	return m.run.RunFrom(m.prog.SetDirect(toks))
}

func (m *machine) number(t *testing.T, name string) float64 {

	t.Helper()

	v, err := m.vars.GetVariable(name, nil)
	require.NoError(t, err)

	return v.Float64()
}

func (m *machine) str(t *testing.T, name string) string {

	t.Helper()

	v, err := m.vars.GetVariable(name, nil)
	require.NoError(t, err)

	b, err := m.run.Values().StrBytes(v)
	require.NoError(t, err)

	return string(b)
}

func requireRunError(t *testing.T, err error, code, line int) {

	t.Helper()

	var re *RunError
	require.True(t, errors.As(err, &re), "want RunError, got %v", err)
	require.Equal(t, code, re.Code, re.Error())
	require.Equal(t, line, re.Line, re.Error())
}

func newTestValues(sink MessageSink, doubleMath bool) *Values {

	return NewValues(NewStringSpace(), NewFloatErrorHandler(sink, nil), doubleMath)
}

func single(t *testing.T, f float64) Value {

	t.Helper()

	v, err := NewSingle(f)
	require.NoError(t, err)

	return v
}

func double(t *testing.T, f float64) Value {

	t.Helper()

	v, err := NewDouble(f)
	require.NoError(t, err)

	return v
}

func newTextLogger(w io.Writer) *slog.Logger {

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
