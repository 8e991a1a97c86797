package gwbasic

//
// Forward scans over the token stream.  FOR and WHILE both need to
// find their closer before the loop body runs, and both do it the same
// way: count openers and closers until the count comes back to zero
//

// skipBlock moves forward to the closer matching an opener that has
// already been read, leaving the stream in front of it.  With
// allowComma, each comma in a NEXT list closes one more loop, and the
// scan may stop in front of such a comma instead.  False means the
// program (or direct line) ended first.
func (r *Run) skipBlock(opener, closer string, allowComma bool) bool {

	depth := 0

	for {
		t := r.prog.Peek()

		switch {
		default:
			r.prog.Read()

		case t.Kind == TokEOF:
			return false

		case t.isKeyword(opener):
			depth++
			r.prog.Read()

		case t.isKeyword(closer):
			if depth == 0 {
				return true
			}

			depth--
			r.prog.Read()

			if allowComma && r.skipNextList(&depth) {
				return true
			}
		}
	}
}

//
// Walk NEXT a, b, c.  Returns true when a comma closes the loop we are
// looking for, with the stream left in front of that comma
//

func (r *Run) skipNextList(depth *int) bool {

	for {
		if r.prog.Peek().Kind == TokIdent {
			r.prog.Read()
		}

		if r.prog.Peek().Kind != TokComma {
			return false
		}

		if *depth == 0 {
			return true
		}

		r.prog.Read()
		*depth--
	}
}

func (r *Run) skipToEndOfStatement() {

	for !r.prog.Peek().endsStatement() {
		r.prog.Read()
	}
}

func (r *Run) skipToEndOfLine() {

	for {
		t := r.prog.Peek()
		if t.Kind == TokLine || t.Kind == TokEOF {
			return
		}

		r.prog.Read()
	}
}

//
// Small helpers for statement syntax
//

func (r *Run) require(kind TokKind) error {

	if r.prog.Read().Kind != kind {
		return newRunError(errSyntax)
	}

	return nil
}

func (r *Run) requireWord(kind TokKind, word string) error {

	if !r.prog.Read().is(kind, word) {
		return newRunError(errSyntax)
	}

	return nil
}

func (r *Run) requireEnd() error {

	if !r.prog.Peek().endsStatement() {
		return newRunError(errSyntax)
	}

	return nil
}

func (r *Run) readLineRef() (int, error) {

	t := r.prog.Read()
	if t.Kind != TokLineRef {
		return 0, newRunError(errSyntax)
	}

	return t.Num, nil
}

func (r *Run) jump(pos Pos) {

	r.prog.Seek(pos)
	r.jumped = true
}

func (r *Run) jumpToLine(line int) error {

	pos, ok := r.prog.LinePos(line)
	if !ok || line < 0 {
		return newRunError(errUndefinedLine)
	}

	r.log.Debug("jump", "line", line)

	r.jump(pos)

	return nil
}

func (r *Run) runMode() bool {

	return r.curLine >= 0
}
