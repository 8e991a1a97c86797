package gwbasic

import (
	"errors"
)

// errEnd stops the run loop after END.
var errEnd = errors.New("end")

//
// Each Execute* entry point is called with the stream positioned just
// after the statement keyword.  On return the stream is either at the
// end of the statement or, if r.jumped is set, somewhere new
//

func (r *Run) executeStmt() error {

	t := r.prog.Peek()

	if t.Kind == TokIdent {
		r.traceStmt(LET)
		return r.ExecuteLet()
	}

	if t.Kind != TokKeyword {
		return newRunError(errSyntax)
	}

	r.prog.Read()
	r.traceStmt(t.Word)

	switch t.Word {
	default:
		return newRunError(errSyntax)

	case CONT:
		return r.ExecuteCont()

	case DIM:
		return r.ExecuteDim()

	case ELSE:
		return r.ExecuteElse()

	case END:
		return r.ExecuteEnd()

	case ERROR:
		return r.ExecuteError()

	case FOR:
		return r.ExecuteFor()

	case GOSUB:
		return r.ExecuteGosub()

	case GOTO:
		return r.ExecuteGoto()

	case IF:
		return r.ExecuteIf()

	case LET:
		return r.ExecuteLet()

	case NEXT:
		return r.ExecuteNext()

	case ON:
		return r.ExecuteOn()

	case PRINT:
		return r.ExecutePrint()

	case REM:
		r.skipToEndOfLine()
		return nil

	case RESUME:
		return r.ExecuteResume()

	case RETURN:
		return r.ExecuteReturn()

	case STOP:
		return r.ExecuteStop()

	case WEND:
		return r.ExecuteWend()

	case WHILE:
		return r.ExecuteWhile()
	}
}

//
// FOR var = start TO stop [STEP step]
//
// Before the body runs we have to know where the loop ends, so scan
// ahead for the NEXT that closes it.  Running into a NEXT for some
// other variable first is an error, reported against that NEXT
//

func (r *Run) ExecuteFor() error {

	name, err := r.readScalarName()
	if err != nil {
		return err
	}

	vt := TypeOfName(name)
	if vt == StringType {
		return newRunError(errTypeMismatch)
	}

	if err := r.requireWord(TokOperator, "="); err != nil {
		return err
	}

	start, err := r.evaluateAs(vt)
	if err != nil {
		return err
	}

	if err := r.requireWord(TokKeyword, TO); err != nil {
		return err
	}

	stop, err := r.evaluateAs(vt)
	if err != nil {
		return err
	}

	step, err := NewInteger(1).To(vt)
	if err != nil {
		return err
	}

	if r.prog.Peek().isKeyword(STEP) {
		r.prog.Read()
		if step, err = r.evaluateAs(vt); err != nil {
			return err
		}
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	bodyStart := r.prog.Tell()

	nextPos, err := r.findNext(name)
	if err != nil {
		return err
	}

	//
	// Re-entering a loop for a variable that is already on the stack
	// (say, after jumping out of it) abandons that loop and every loop
	// inside it
	//

	r.popForStackEntry(name)

	if len(r.forStack) >= r.cfg.ForStackMax {
		return newRunError(errOutOfMemory)
	}

	if err := r.vars.SetVariable(name, nil, start); err != nil {
		return err
	}

	frame := LoopFrame{
		Var:       name,
		Stop:      stop,
		Step:      step,
		BodyStart: bodyStart,
		NextPos:   nextPos,
	}

	r.forStack = append(r.forStack, frame)
	r.traceFrame(frame)

	done, err := r.checkLoopTermination(frame)
	if err != nil {
		return err
	}

	if !done {
		r.jump(bodyStart)
		return nil
	}

	//
	// The body never runs: carry on from the NEXT as if the loop had
	// just finished there
	//

	r.forStack = r.forStack[:len(r.forStack)-1]
	r.jump(nextPos)

	more, err := r.skipNextVar()
	if err != nil || !more {
		return err
	}

	return r.ExecuteNext()
}

//
// Scan from just after the FOR statement for its NEXT.  Returns the
// position just past the NEXT keyword or list comma
//

func (r *Run) findNext(name string) (Pos, error) {

	if !r.skipBlock(FOR, NEXT, true) {
		return 0, newRunError(errForWithoutNext)
	}

	r.prog.Read()
	nextPos := r.prog.Tell()

	t := r.prog.Peek()
	if t.Kind == TokIdent && t.Word != name {
		line := -1
		if r.runMode() {
			line = r.prog.LineNumberAt(nextPos)
		}
		return 0, newRunErrorAt(errNextWithoutFor, line)
	}

	return nextPos, nil
}

func (r *Run) popForStackEntry(name string) {

	for i := len(r.forStack) - 1; i >= 0; i-- {
		if r.forStack[i].Var == name {
			r.forStack = r.forStack[:i]
			return
		}
	}
}

//
// The loop is over once the variable has passed the limit in the
// direction of the step
//

func (r *Run) checkLoopTermination(frame LoopFrame) (bool, error) {

	cur, err := r.vars.GetVariable(frame.Var, nil)
	if err != nil {
		return false, err
	}

	if frame.Step.IsNegative() {
		return r.values.Gt(frame.Stop, cur)
	}

	return r.values.Gt(cur, frame.Stop)
}

func (r *Run) incrementLoopVar(frame LoopFrame) error {

	cur, err := r.vars.GetVariable(frame.Var, nil)
	if err != nil {
		return err
	}

	var next Value

	if cur.Type() == IntegerType {
		next, err = checkedInteger(int32(cur.Int()) + int32(frame.Step.Int()))
	} else {
		next, err = r.values.Add(cur, frame.Step)
	}

	if err != nil {
		return err
	}

	return r.vars.SetVariable(frame.Var, nil, next)
}

//
// After a loop ends at a NEXT: skip the variable name, and report
// whether a comma follows (so the next loop out is closed too)
//

func (r *Run) skipNextVar() (bool, error) {

	if r.prog.Peek().Kind == TokIdent {
		r.prog.Read()
	}

	if r.prog.Peek().Kind == TokComma {
		r.prog.Read()
		return true, nil
	}

	return false, r.requireEnd()
}

//
// NEXT [var [, var]...]
//
// A NEXT belongs to the loop whose recorded NextPos is where we are.
// Loops above it on the stack were left by a jump and are dropped
//

func (r *Run) ExecuteNext() error {

	for {
		pos := r.prog.Tell()

		idx := -1
		for i := len(r.forStack) - 1; i >= 0; i-- {
			if r.forStack[i].NextPos == pos {
				idx = i
				break
			}
		}

		if idx < 0 {
			return newRunError(errNextWithoutFor)
		}

		r.forStack = r.forStack[:idx+1]
		frame := r.forStack[idx]

		if err := r.incrementLoopVar(frame); err != nil {
			return err
		}

		done, err := r.checkLoopTermination(frame)
		if err != nil {
			return err
		}

		if !done {
			r.jump(frame.BodyStart)
			return nil
		}

		r.forStack = r.forStack[:idx]

		more, err := r.skipNextVar()
		if err != nil || !more {
			return err
		}
	}
}

//
// WHILE cond
//

func (r *Run) ExecuteWhile() error {

	whilePos := r.prog.Tell()

	if !r.skipBlock(WHILE, WEND, false) {
		return newRunError(errWhileWithoutWend)
	}

	r.prog.Read()
	wendPos := r.prog.Tell()

	if n := len(r.whileStack); n > 0 && r.whileStack[n-1].WhilePos == whilePos {
		r.whileStack = r.whileStack[:n-1]
	}

	if len(r.whileStack) >= r.cfg.WhileStackMax {
		return newRunError(errOutOfMemory)
	}

	frame := WhileFrame{WhilePos: whilePos, WendPos: wendPos}
	r.whileStack = append(r.whileStack, frame)
	r.traceFrame(frame)

	return r.checkWhileCondition(frame)
}

//
// WEND.  If the top frame is not ours, the loops above ours were left
// by a jump, so discard them
//

func (r *Run) ExecuteWend() error {

	pos := r.prog.Tell()

	if err := r.requireEnd(); err != nil {
		return err
	}

	for {
		n := len(r.whileStack)
		if n == 0 {
			return newRunError(errWendWithoutWhile)
		}

		if r.whileStack[n-1].WendPos == pos {
			return r.checkWhileCondition(r.whileStack[n-1])
		}

		r.whileStack = r.whileStack[:n-1]
	}
}

func (r *Run) checkWhileCondition(frame WhileFrame) error {

	r.jump(frame.WhilePos)

	ok, err := r.evaluateBool()
	if err != nil {
		return err
	}

	if ok {
		return r.requireEnd()
	}

	r.whileStack = r.whileStack[:len(r.whileStack)-1]
	r.jump(frame.WendPos)

	return nil
}

//
// IF cond [,] THEN stmts|line [ELSE stmts|line]
// IF cond [,] GOTO line [ELSE stmts|line]
//

func (r *Run) ExecuteIf() error {

	cond, err := r.evaluateBool()
	if err != nil {
		return err
	}

	if r.prog.Peek().Kind == TokComma {
		r.prog.Read()
	}

	t := r.prog.Read()
	if !t.isKeyword(THEN) && !t.isKeyword(GOTO) {
		return newRunError(errSyntax)
	}

	if cond {
		if r.prog.Peek().Kind == TokLineRef {
			return r.jumpToLine(r.prog.Read().Num)
		}

		if t.isKeyword(GOTO) {
			return newRunError(errSyntax)
		}

		// the statements after THEN run as statements of their own
		r.jumped = true
		return nil
	}

	//
	// Look for our ELSE on the rest of the line.  An IF nested in the
	// THEN branch owns the first ELSE that follows it
	//

	nesting := 0
	for {
		t := r.prog.Peek()

		switch {
		default:
			r.prog.Read()

		case t.Kind == TokLine || t.Kind == TokEOF:
			return nil

		case t.isKeyword(IF):
			nesting++
			r.prog.Read()

		case t.isKeyword(ELSE):
			r.prog.Read()
			if nesting > 0 {
				nesting--
				continue
			}

			if r.prog.Peek().Kind == TokLineRef {
				return r.jumpToLine(r.prog.Read().Num)
			}

			r.jumped = true
			return nil
		}
	}
}

//
// An ELSE reached by running through a THEN branch ends the line
//

func (r *Run) ExecuteElse() error {

	r.skipToEndOfLine()

	return nil
}

//
// ON n GOTO|GOSUB line [, line]...
// ON ERROR GOTO line
//

func (r *Run) ExecuteOn() error {

	if r.prog.Peek().isKeyword(ERROR) {
		r.prog.Read()
		return r.ExecuteOnError()
	}

	sel, err := r.evaluate()
	if err != nil {
		return err
	}

	n, err := intOperand(sel)
	if err != nil {
		return err
	}

	if n < 0 || n > 255 {
		return newRunError(errIllegalFuncCall)
	}

	verb := r.prog.Read()
	if !verb.isKeyword(GOTO) && !verb.isKeyword(GOSUB) {
		return newRunError(errSyntax)
	}

	var targets []int
	for {
		line, err := r.readLineRef()
		if err != nil {
			return err
		}

		targets = append(targets, line)

		if r.prog.Peek().Kind != TokComma {
			break
		}

		r.prog.Read()
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	if n < 1 || int(n) > len(targets) {
		return nil
	}

	if verb.isKeyword(GOSUB) {
		return r.gosub(targets[n-1], r.prog.Tell())
	}

	return r.jumpToLine(targets[n-1])
}

func (r *Run) ExecuteGoto() error {

	line, err := r.readLineRef()
	if err != nil {
		return err
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	return r.jumpToLine(line)
}

func (r *Run) ExecuteGosub() error {

	line, err := r.readLineRef()
	if err != nil {
		return err
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	return r.gosub(line, r.prog.Tell())
}

func (r *Run) gosub(line int, ret Pos) error {

	if len(r.gosubStack) >= r.cfg.GosubStackMax {
		return newRunError(errOutOfMemory)
	}

	if _, ok := r.prog.LinePos(line); !ok || line < 0 {
		return newRunError(errUndefinedLine)
	}

	frame := CallFrame{
		ReturnPos:  ret,
		ForDepth:   len(r.forStack),
		WhileDepth: len(r.whileStack),
	}

	r.gosubStack = append(r.gosubStack, frame)
	r.traceFrame(frame)

	return r.jumpToLine(line)
}

//
// RETURN [line].  Loops opened inside the subroutine go with it
//

func (r *Run) ExecuteReturn() error {

	line := -1

	if r.prog.Peek().Kind == TokLineRef {
		line = r.prog.Read().Num
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	n := len(r.gosubStack)
	if n == 0 {
		return newRunError(errReturnWithoutGosub)
	}

	frame := r.gosubStack[n-1]
	r.gosubStack = r.gosubStack[:n-1]

	r.forStack = r.forStack[:min(len(r.forStack), frame.ForDepth)]
	r.whileStack = r.whileStack[:min(len(r.whileStack), frame.WhileDepth)]

	if line >= 0 {
		return r.jumpToLine(line)
	}

	r.jump(frame.ReturnPos)

	return nil
}

//
// STOP pauses; CONT picks up at the very next token, which need not
// be the start of a statement
//

func (r *Run) ExecuteStop() error {

	if err := r.requireEnd(); err != nil {
		return err
	}

	r.flushPending()
	if r.runMode() {
		r.stopPos = r.prog.Tell()
		r.canCont = true
	}
	r.finish()

	return &Break{Line: r.curLine}
}

func (r *Run) ExecuteEnd() error {

	if err := r.requireEnd(); err != nil {
		return err
	}

	r.canCont = false
	r.trap = ErrorTrapState{}
	r.updateSuspend()

	if r.files != nil {
		if err := r.files.CloseAll(); err != nil {
			r.log.Warn("close files at END", "error", err)
		}
	}

	r.state = Halted

	return errEnd
}

func (r *Run) ExecuteCont() error {

	if err := r.requireEnd(); err != nil {
		return err
	}

	if !r.canCont {
		return newRunError(errCantContinue)
	}

	r.canCont = false
	r.state = Running
	r.jump(r.stopPos)

	return nil
}

//
// LET var = expr (the LET is optional)
//

func (r *Run) ExecuteLet() error {

	name, indices, err := r.readVarRef()
	if err != nil {
		return err
	}

	if err := r.requireWord(TokOperator, "="); err != nil {
		return err
	}

	v, err := r.evaluate()
	if err != nil {
		return err
	}

	if err := r.requireEnd(); err != nil {
		return err
	}

	return r.assign(name, indices, v)
}

func (r *Run) assign(name string, indices []int, v Value) error {

	vt := TypeOfName(name)
	if (vt == StringType) != (v.Type() == StringType) {
		return newRunError(errTypeMismatch)
	}

	cv, err := v.To(vt)
	if err != nil {
		return err
	}

	return r.vars.SetVariable(name, indices, cv)
}

func (r *Run) readScalarName() (string, error) {

	t := r.prog.Read()
	if t.Kind != TokIdent {
		return "", newRunError(errSyntax)
	}

	return t.Word, nil
}

func (r *Run) readVarRef() (string, []int, error) {

	name, err := r.readScalarName()
	if err != nil {
		return "", nil, err
	}

	if r.prog.Peek().Kind != TokLParen {
		return name, nil, nil
	}

	r.prog.Read()

	var indices []int
	for {
		ix, err := r.evaluateInt()
		if err != nil {
			return "", nil, err
		}

		indices = append(indices, ix)

		t := r.prog.Read()
		if t.Kind == TokRParen {
			return name, indices, nil
		}

		if t.Kind != TokComma {
			return "", nil, newRunError(errSyntax)
		}
	}
}

func (r *Run) evaluateAs(vt VarType) (Value, error) {

	v, err := r.evaluate()
	if err != nil {
		return Value{}, err
	}

	return v.To(vt)
}

//
// DIM name(n [, m]) [, ...]
//

type arrayDimensioner interface {
	Dim(name string, dims []int) error
}

func (r *Run) ExecuteDim() error {

	dimmer, ok := r.vars.(arrayDimensioner)
	if !ok {
		return newRunError(errIllegalFuncCall)
	}

	for {
		name, dims, err := r.readVarRef()
		if err != nil {
			return err
		}

		if err := dimmer.Dim(name, dims); err != nil {
			return err
		}

		if r.prog.Peek().Kind != TokComma {
			return r.requireEnd()
		}

		r.prog.Read()
	}
}

//
// PRINT [expr] [{;|,} expr]... [;|,]
//

func (r *Run) ExecutePrint() error {

	newline := true

	for {
		t := r.prog.Peek()

		switch {
		default:
			v, err := r.evaluate()
			if err != nil {
				return err
			}

			s, err := r.formatValue(v)
			if err != nil {
				return err
			}

			r.printBuf.WriteString(s)
			newline = true

		case t.endsStatement():
			if newline {
				r.flushPrint()
			}
			return nil

		case t.Kind == TokSemicolon:
			r.prog.Read()
			newline = false

		case t.Kind == TokComma:
			r.prog.Read()
			n := r.printBuf.Len() % zoneWidth
			for i := n; i < zoneWidth; i++ {
				r.printBuf.WriteByte(' ')
			}
			newline = false
		}
	}
}

func (r *Run) flushPrint() {

	if r.sink != nil {
		r.sink.WriteLine(r.printBuf.String())
	}

	r.printBuf.Reset()
}
