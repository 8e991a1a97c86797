package gwbasic

//
// Error trapping.  ON ERROR GOTO n arms a trap; when a statement then
// fails, we remember where it started, note that we are inside the
// handler, and go to line n.  RESUME goes back.  An error inside the
// handler is not trapped again: it stops the program
//
// While a trap is armed or a handler is running, soft float errors
// are made hard, so the trap sees them rather than a substituted value
//

func (r *Run) updateSuspend() {

	r.errs.Suspend(r.trap.Target != 0 || r.trap.InHandler)
}

//
// Try to hand re to the error handler.  Returns false when the error
// has to stop the program instead
//

func (r *Run) trapError(re *RunError) bool {

	if r.trap.Target == 0 || r.trap.InHandler || !r.runMode() {
		return false
	}

	pos, ok := r.prog.LinePos(r.trap.Target)
	if !ok {
		return false
	}

	r.trap.InHandler = true
	r.trap.HasResume = true
	r.trap.ResumePos = r.stmtStart
	r.trap.ErrCode = re.Code
	r.trap.ErrLine = re.Line
	r.updateSuspend()

	r.log.Debug("error trapped", "code", re.Code, "line", re.Line,
		"handler", r.trap.Target)

	r.prog.Seek(pos)

	return true
}

//
// ON ERROR GOTO line.  Line 0 turns trapping off, and inside a handler
// it also gives up on the error, which then stops the program
//

func (r *Run) ExecuteOnError() error {

	if err := r.requireWord(TokKeyword, GOTO); err != nil {
		return err
	}

	line, err := r.readLineRef()
	if err != nil {
		return err
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	if line != 0 {
		if _, ok := r.prog.LinePos(line); !ok {
			return newRunError(errUndefinedLine)
		}
	}

	r.trap.Target = line
	r.updateSuspend()

	if line == 0 && r.trap.InHandler {
		return newRunErrorAt(r.trap.ErrCode, r.trap.ErrLine)
	}

	return nil
}

//
// RESUME [0]      re-run the statement that failed
// RESUME NEXT     carry on with the statement after it
// RESUME line     go to line
//

func (r *Run) ExecuteResume() error {

	if !r.trap.HasResume {
		r.trap.Target = 0
		r.updateSuspend()
		return newRunError(errResumeWithoutError)
	}

	t := r.prog.Peek()

	switch {
	default:
		return newRunError(errSyntax)

	case t.isKeyword(NEXT):
		r.prog.Read()
		if err := r.requireEnd(); err != nil {
			return err
		}
		r.jump(r.trap.ResumePos)
		r.skipToEndOfStatement()

	case t.Kind == TokLineRef && t.Num != 0:
		r.prog.Read()
		if err := r.requireEnd(); err != nil {
			return err
		}
		if err := r.jumpToLine(t.Num); err != nil {
			return err
		}

	case t.Kind == TokLineRef || t.endsStatement():
		if t.Kind == TokLineRef {
			r.prog.Read()
		}
		if err := r.requireEnd(); err != nil {
			return err
		}
		r.jump(r.trap.ResumePos)
	}

	r.trap.InHandler = false
	r.trap.HasResume = false
	r.updateSuspend()

	return nil
}

//
// ERROR n raises error n as if the program had caused it
//

func (r *Run) ExecuteError() error {

	n, err := r.evaluateInt()
	if err != nil {
		return err
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	if n < 1 || n > 255 {
		return newRunError(errIllegalFuncCall)
	}

	return newRunError(n)
}

// Trap returns a copy of the error trap state.
func (r *Run) Trap() ErrorTrapState {

	return r.trap
}
