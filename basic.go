package gwbasic

import (
	"errors"
	"log/slog"
)

// NewRun builds an execution context over a program stream, a variable
// store and a string heap.
func NewRun(prog Stream, vars VariableStore, heap StringHeap, opts Options) *Run {

	cfg := opts.Config
	def := DefaultConfig()

	if cfg.ForStackMax == 0 {
		cfg.ForStackMax = def.ForStackMax
	}

	if cfg.GosubStackMax == 0 {
		cfg.GosubStackMax = def.GosubStackMax
	}

	if cfg.WhileStackMax == 0 {
		cfg.WhileStackMax = def.WhileStackMax
	}

	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}

	errs := NewFloatErrorHandler(opts.Sink, log)

	r := &Run{
		prog:       prog,
		vars:       vars,
		values:     NewValues(heap, errs, cfg.DoubleMath),
		errs:       errs,
		sink:       opts.Sink,
		files:      opts.Files,
		log:        log,
		cfg:        cfg,
		checkpoint: opts.Checkpoint,
	}

	r.initializeRun()

	return r
}

//
// Reinitialize the per-run state.  Saved positions die with it, so
// CONT is no longer possible
//

func (r *Run) initializeRun() {

	r.state = Halted
	r.stopPos = 0
	r.canCont = false
	r.curLine = -1
	r.stmtStart = 0
	r.forStack = nil
	r.whileStack = nil
	r.gosubStack = nil
	r.trap = ErrorTrapState{}
	r.printBuf.Reset()
	r.updateSuspend()
}

type clearer interface {
	Clear()
}

// Reset clears the run state, the variables and the string heap, as
// RUN and NEW do.
func (r *Run) Reset() {

	r.initializeRun()

	if c, ok := r.vars.(clearer); ok {
		c.Clear()
	}

	if c, ok := r.values.heap.(clearer); ok {
		c.Clear()
	}
}

// RunProgram starts the program from the top, or from line if it is
// not negative.
func (r *Run) RunProgram(line int) error {

	r.Reset()
	r.numStatements = 0

	pos := Pos(0)
	if line >= 0 {
		p, ok := r.prog.LinePos(line)
		if !ok {
			return newRunErrorAt(errUndefinedLine, -1)
		}
		pos = p
	}

	r.prog.Seek(pos)

	return r.Execute()
}

// RunFrom executes from pos, normally the start of the direct line.
func (r *Run) RunFrom(pos Pos) error {

	r.prog.Seek(pos)

	return r.Execute()
}

// Cont resumes after STOP or a break.
func (r *Run) Cont() error {

	if !r.canCont {
		return newRunErrorAt(errCantContinue, -1)
	}

	r.canCont = false
	r.prog.Seek(r.stopPos)

	return r.Execute()
}

// Execute runs statements from the current position until END, STOP,
// the end of the program or of the direct line, or an error nobody
// traps.
func (r *Run) Execute() error {

	r.state = Running
	r.curLine = r.prog.LineNumberAt(r.prog.Tell())

	for {
		if err := r.yield(); err != nil {
			return err
		}

		t := r.prog.Peek()

		switch t.Kind {
		default:

		case TokColon:
			r.prog.Read()
			continue

		case TokLine:
			r.prog.Read()
			r.curLine = t.Num
			continue

		case TokEOF:
			return r.implicitEnd()
		}

		r.stmtStart = r.prog.Tell()
		r.jumped = false

		err := r.executeStmt()
		r.numStatements++

		if err == nil {
			if r.jumped {
				r.curLine = r.prog.LineNumberAt(r.prog.Tell())
				continue
			}

			if r.prog.Peek().endsStatement() {
				continue
			}

			err = newRunError(errSyntax)
		}

		if errors.Is(err, errEnd) {
			r.flushPending()
			return nil
		}

		var brk *Break
		if errors.As(err, &brk) {
			r.flushPending()
			return err
		}

		re := r.attribute(err)
		if r.trapError(re) {
			continue
		}

		return r.fail(re)
	}
}

//
// Give a RunError its line.  Anything that is not a RunError is a
// bug, reported as an internal error code
//

func (r *Run) attribute(err error) *RunError {

	var re *RunError
	if !errors.As(err, &re) {
		r.log.Error("internal error", "error", err)
		return newRunErrorAt(errInternal, r.curLine)
	}

	if re.Line == noLine {
		re.Line = r.curLine
	}

	return re
}

//
// An untrapped error halts the program.  CONT is still allowed if the
// error came from a direct-mode statement while stopped
//

func (r *Run) fail(re *RunError) error {

	r.flushPending()

	if r.runMode() {
		r.canCont = false
	}

	r.finish()

	r.log.Debug("run failed", "code", re.Code, "line", re.Line)

	return re
}

func (r *Run) implicitEnd() error {

	r.flushPending()

	if r.trap.InHandler {
		return r.fail(newRunErrorAt(errNoResume, r.curLine))
	}

	if r.runMode() {
		r.canCont = false
	}

	r.finish()

	return nil
}

func (r *Run) finish() {

	if r.canCont {
		r.state = Stopped
	} else {
		r.state = Halted
	}
}

//
// The cooperative checkpoint between statements.  A Break from the
// hook pauses the program resumably at the current position
//

func (r *Run) yield() error {

	r.collectStrings()

	if r.checkpoint == nil {
		return nil
	}

	err := r.checkpoint()
	if err == nil {
		return nil
	}

	var brk *Break
	if errors.As(err, &brk) {
		r.flushPending()
		if r.runMode() {
			r.stopPos = r.prog.Tell()
			r.canCont = true
		}
		r.finish()
		return &Break{Line: r.curLine}
	}

	return err
}

func (r *Run) flushPending() {

	if r.printBuf.Len() > 0 {
		r.flushPrint()
	}
}

func (r *Run) State() State {

	return r.state
}

func (r *Run) CanCont() bool {

	return r.canCont
}

// Statements is the number of statements executed since RunProgram.
func (r *Run) Statements() int {

	return r.numStatements
}

func (r *Run) LoopDepth() int {

	return len(r.forStack)
}

func (r *Run) WhileDepth() int {

	return len(r.whileStack)
}

func (r *Run) GosubDepth() int {

	return len(r.gosubStack)
}

func (r *Run) Values() *Values {

	return r.values
}

func (r *Run) FloatErrors() *FloatErrorHandler {

	return r.errs
}

func (r *Run) Logger() *slog.Logger {

	return r.log
}
