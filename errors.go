package gwbasic

import (
	"errors"
	"fmt"
)

//
// Manifest constants for the GW-BASIC error messages.  Every message
// here has a numeric code in the errorMap, since ON ERROR handlers
// see the code through ERR and ERROR n raises by code
//

const (
	ENEXTWITHOUTFOR      = "NEXT without FOR"
	ESYNTAX              = "Syntax error"
	ERETURNWITHOUTGOSUB  = "RETURN without GOSUB"
	EOUTOFDATA           = "Out of DATA"
	EILLEGALFUNCTIONCALL = "Illegal function call"
	EOVERFLOW            = "Overflow"
	EOUTOFMEMORY         = "Out of memory"
	EUNDEFINEDLINE       = "Undefined line number"
	ESUBSCRIPTRANGE      = "Subscript out of range"
	EDUPLICATEDEFINITION = "Duplicate Definition"
	EDIVISIONBYZERO      = "Division by zero"
	EILLEGALDIRECT       = "Illegal direct"
	ETYPEMISMATCH        = "Type mismatch"
	EOUTOFSTRINGSPACE    = "Out of string space"
	ESTRINGTOOLONG       = "String too long"
	ESTRINGFORMULA       = "String formula too complex"
	ECANTCONTINUE        = "Can't continue"
	EUNDEFINEDFUNCTION   = "Undefined user function"
	ENORESUME            = "No RESUME"
	ERESUMEWITHOUTERROR  = "RESUME without error"
	EMISSINGOPERAND      = "Missing operand"
	ELINEBUFFEROVERFLOW  = "Line buffer overflow"
	EFORWITHOUTNEXT      = "FOR without NEXT"
	EWHILEWITHOUTWEND    = "WHILE without WEND"
	EWENDWITHOUTWHILE    = "WEND without WHILE"
	EINTERNAL            = "Internal error"
	EUNPRINTABLE         = "Unprintable error"
)

//
// Numeric codes for the errors the control-flow and arithmetic code
// raise directly
//

const (
	errNextWithoutFor     = 1
	errSyntax             = 2
	errReturnWithoutGosub = 3
	errIllegalFuncCall    = 5
	errOverflow           = 6
	errOutOfMemory        = 7
	errUndefinedLine      = 8
	errSubscriptRange     = 9
	errDuplicateDef       = 10
	errDivisionByZero     = 11
	errIllegalDirect      = 12
	errTypeMismatch       = 13
	errOutOfStringSpace   = 14
	errStringTooLong      = 15
	errCantContinue       = 17
	errNoResume           = 19
	errResumeWithoutError = 20
	errMissingOperand     = 22
	errForWithoutNext     = 26
	errWhileWithoutWend   = 29
	errWendWithoutWhile   = 30
	errInternal           = 51
)

// noLine marks a RunError raised below the statement level.  The run
// loop fills in the line of the statement that was executing
const noLine = -2

var errorMap = map[string]int{}
var errorMapRev = map[int]string{}

func init() {

	errorMap[ENEXTWITHOUTFOR] = errNextWithoutFor
	errorMap[ESYNTAX] = errSyntax
	errorMap[ERETURNWITHOUTGOSUB] = errReturnWithoutGosub
	errorMap[EOUTOFDATA] = 4
	errorMap[EILLEGALFUNCTIONCALL] = errIllegalFuncCall
	errorMap[EOVERFLOW] = errOverflow
	errorMap[EOUTOFMEMORY] = errOutOfMemory
	errorMap[EUNDEFINEDLINE] = errUndefinedLine
	errorMap[ESUBSCRIPTRANGE] = errSubscriptRange
	errorMap[EDUPLICATEDEFINITION] = errDuplicateDef
	errorMap[EDIVISIONBYZERO] = errDivisionByZero
	errorMap[EILLEGALDIRECT] = errIllegalDirect
	errorMap[ETYPEMISMATCH] = errTypeMismatch
	errorMap[EOUTOFSTRINGSPACE] = errOutOfStringSpace
	errorMap[ESTRINGTOOLONG] = errStringTooLong
	errorMap[ESTRINGFORMULA] = 16
	errorMap[ECANTCONTINUE] = errCantContinue
	errorMap[EUNDEFINEDFUNCTION] = 18
	errorMap[ENORESUME] = errNoResume
	errorMap[ERESUMEWITHOUTERROR] = errResumeWithoutError
	errorMap[EMISSINGOPERAND] = errMissingOperand
	errorMap[ELINEBUFFEROVERFLOW] = 23
	errorMap[EFORWITHOUTNEXT] = errForWithoutNext
	errorMap[EWHILEWITHOUTWEND] = errWhileWithoutWend
	errorMap[EWENDWITHOUTWHILE] = errWendWithoutWhile
	errorMap[EINTERNAL] = errInternal

	for k, v := range errorMap {
		errorMapRev[v] = k
	}
}

//
// Codes without a message of their own (ERROR 200, say) still need to
// print something, so fall back to the catch-all
//

func getErrorMsg(code int) string {

	msg, ok := errorMapRev[code]
	if ok {
		return msg
	}

	return EUNPRINTABLE
}

// ErrorCodeOf maps one of the message constants back to its code, or
// returns 0 for a message it does not know.
func ErrorCodeOf(msg string) int {

	return errorMap[msg]
}

// RunError is a BASIC-visible runtime error.  Line is -1 when the error
// happened in a direct-mode statement.
type RunError struct {
	Code int
	Line int
}

func newRunError(code int) *RunError {

	return &RunError{Code: code, Line: noLine}
}

func newRunErrorAt(code, line int) *RunError {

	return &RunError{Code: code, Line: line}
}

func (e *RunError) Error() string {

	if e.Line >= 0 {
		return fmt.Sprintf("%s in %d", getErrorMsg(e.Code), e.Line)
	}

	return getErrorMsg(e.Code)
}

// Break is returned when execution pauses at STOP or at an interrupt
// delivered through the checkpoint hook.  CONT picks up from there.
type Break struct {
	Line int
}

func (b *Break) Error() string {

	if b.Line >= 0 {
		return fmt.Sprintf("Break in %d", b.Line)
	}

	return "Break"
}

// ErrorCode extracts the BASIC error code from err, or returns 0 if err
// is not a RunError.
func ErrorCode(err error) int {

	var re *RunError

	if errors.As(err, &re) {
		return re.Code
	}

	return 0
}
