package gwbasic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapSoftOverflow(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 X = 1E38 * 10",
		`30 PRINT "NEXT"`,
		"40 GOTO 200",
		"100 PRINT ERR; ERL",
		"110 RESUME NEXT",
		"200 REM",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{" 6  20 ", "NEXT"}, m.sink.lines)
	assert.Equal(t, 0.0, m.number(t, "X"))

	trap := m.run.Trap()
	assert.Equal(t, 100, trap.Target)
	assert.False(t, trap.InHandler)
	assert.False(t, trap.HasResume)
	assert.True(t, m.run.FloatErrors().Suspended())

	// turning the trap off lets soft errors through again
	require.NoError(t, m.direct(t, "ON ERROR GOTO 0"))
	assert.False(t, m.run.FloatErrors().Suspended())
}

func TestUntrappedSoftOverflow(t *testing.T) {

	m := newMachine(t,
		"10 X = 1E38 * 10",
		`20 PRINT "GO ON"`,
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{"Overflow", "GO ON"}, m.sink.lines)
	assert.Greater(t, m.number(t, "X"), 1e38)
}

func TestResumeRetry(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 B = 0",
		"30 A = 10 / B",
		"40 PRINT A",
		"50 END",
		"100 B = 2: RESUME",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{" 5 "}, m.sink.lines)
}

func TestResumeLine(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 ERROR 5",
		`30 PRINT "SKIPPED"`,
		`40 PRINT "HERE"`,
		"50 END",
		"100 RESUME 40",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{"HERE"}, m.sink.lines)
}

func TestResumeErrors(t *testing.T) {

	m := newMachine(t, "10 RESUME")
	requireRunError(t, m.run.RunProgram(-1), errResumeWithoutError, 10)

	m = newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 ERROR 5",
		`100 PRINT "H"`,
	)
	requireRunError(t, m.run.RunProgram(-1), errNoResume, 100)
	assert.Equal(t, []string{"H"}, m.sink.lines)

	m = newMachine(t, "10 ON ERROR GOTO 500", "20 END")
	requireRunError(t, m.run.RunProgram(-1), errUndefinedLine, 10)
}

func TestHandlerGivesUp(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		`20 A$ = 1`,
		"30 END",
		"100 ON ERROR GOTO 0",
	)

	requireRunError(t, m.run.RunProgram(-1), errTypeMismatch, 20)
	assert.Equal(t, Halted, m.run.State())
}

func TestErrorInHandler(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 ERROR 5",
		"100 ERROR 7",
	)

	requireRunError(t, m.run.RunProgram(-1), errOutOfMemory, 100)
}

func TestErrorStatement(t *testing.T) {

	m := newMachine(t, "10 ERROR 0")
	requireRunError(t, m.run.RunProgram(-1), errIllegalFuncCall, 10)

	m = newMachine(t, "10 ERROR 256")
	requireRunError(t, m.run.RunProgram(-1), errIllegalFuncCall, 10)

	m = newMachine(t, "10 ERROR 200")
	err := m.run.RunProgram(-1)
	requireRunError(t, err, 200, 10)
	assert.Equal(t, "Unprintable error in 10", err.Error())
}

func TestDirectErrorsAreNotTrapped(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 GOTO 200",
		"100 RESUME NEXT",
		"200 REM",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, 100, m.run.Trap().Target)

	requireRunError(t, m.direct(t, "ERROR 5"), errIllegalFuncCall, -1)
	assert.False(t, m.run.Trap().InHandler)
}

func TestEndClearsTrap(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 END",
		"100 RESUME NEXT",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, ErrorTrapState{}, m.run.Trap())
	assert.False(t, m.run.FloatErrors().Suspended())
}

func TestErlPastIntegerRange(t *testing.T) {

	m := newMachine(t,
		"10 ON ERROR GOTO 50000",
		"40000 ERROR 5",
		"40010 END",
		"50000 PRINT ERR; ERL: RESUME NEXT",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{" 5  40000 "}, m.sink.lines)
}

func TestResumeRestartsStatement(t *testing.T) {

	// bare RESUME runs the failing statement again from its start, so
	// the items printed before the error come out twice
	m := newMachine(t,
		"10 ON ERROR GOTO 100",
		"20 PRINT 1; 10 / B",
		"30 END",
		"100 B = 5: RESUME",
	)

	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{" 1  1  2 "}, m.sink.lines)
}
