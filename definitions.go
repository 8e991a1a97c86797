package gwbasic

import (
	"log/slog"
	"math"
	"strings"
)

//
// Constants
//

const VERSION = "0.9.0"

const forStackMax = 32
const gosubStackMax = 32
const whileStackMax = 32

const maxStringLen = math.MaxUint8

const maxVariableLen = 40

const maxImplicitSubscript = 10
const maxDims = 2

const maxLineNo = 65529

const zoneWidth = 14

const boolInt16False int16 = 0
const boolInt16True int16 = -1

//
// Keywords.  A crunched line holds these as TokKeyword tokens
//

const (
	CONT   = "CONT"
	DIM    = "DIM"
	ELSE   = "ELSE"
	END    = "END"
	ERROR  = "ERROR"
	FOR    = "FOR"
	GOSUB  = "GOSUB"
	GOTO   = "GOTO"
	IF     = "IF"
	LET    = "LET"
	NEXT   = "NEXT"
	ON     = "ON"
	PRINT  = "PRINT"
	REM    = "REM"
	RESUME = "RESUME"
	RETURN = "RETURN"
	STEP   = "STEP"
	STOP   = "STOP"
	THEN   = "THEN"
	TO     = "TO"
	WEND   = "WEND"
	WHILE  = "WHILE"

	AND = "AND"
	EQV = "EQV"
	IMP = "IMP"
	MOD = "MOD"
	NOT = "NOT"
	OR  = "OR"
	XOR = "XOR"

	ABS  = "ABS"
	ATN  = "ATN"
	CDBL = "CDBL"
	CINT = "CINT"
	COS  = "COS"
	CSNG = "CSNG"
	ERL  = "ERL"
	ERR  = "ERR"
	EXP  = "EXP"
	FIX  = "FIX"
	INT  = "INT"
	LEN  = "LEN"
	LOG  = "LOG"
	SGN  = "SGN"
	SIN  = "SIN"
	SQR  = "SQR"
	TAN  = "TAN"
)

//
// Type definitions
//

// TokKind classifies a Token.
type TokKind int

const (
	TokEOF TokKind = iota
	TokLine
	TokColon
	TokComma
	TokSemicolon
	TokLParen
	TokRParen
	TokKeyword
	TokOperator
	TokIdent
	TokNumber
	TokString
	TokLineRef
)

// Token is one element of a crunched program.  Word carries keyword,
// operator and identifier text and string literal bodies; Num carries
// line numbers (for TokLine, -1 is the direct-mode line); Val carries
// numeric literals.
type Token struct {
	Kind TokKind
	Word string
	Num  int
	Val  Value
}

func (t Token) is(kind TokKind, word string) bool {

	return t.Kind == kind && t.Word == word
}

func (t Token) isKeyword(word string) bool {

	return t.is(TokKeyword, word)
}

func (t Token) endsStatement() bool {

	return t.Kind == TokColon || t.Kind == TokLine || t.Kind == TokEOF
}

// Pos is an offset into a program's token stream.
type Pos int

// Stream is the seekable token stream the engine executes.
type Stream interface {
	Tell() Pos
	Seek(p Pos)
	Read() Token
	Peek() Token
	LineNumberAt(p Pos) int
	LinePos(line int) (Pos, bool)
}

// VariableStore holds scalars and arrays.  GetVariable returns a view
// onto the stored bytes.
type VariableStore interface {
	GetVariable(name string, indices []int) (Value, error)
	SetVariable(name string, indices []int, v Value) error
}

// FileCloser is told to close every open file when END executes.
type FileCloser interface {
	CloseAll() error
}

// State is where a Run stands between calls.
type State int

const (
	Halted State = iota
	Running
	Stopped
)

func (s State) String() string {

	switch s {
	default:
		return "halted"

	case Running:
		return "running"

	case Stopped:
		return "stopped"
	}
}

// LoopFrame is one active FOR loop.  NextPos is just past the NEXT
// keyword (or the comma in a NEXT list) that closes it.
type LoopFrame struct {
	Var       string
	Stop      Value
	Step      Value
	BodyStart Pos
	NextPos   Pos
}

// WhileFrame is one active WHILE loop.  WhilePos is just past the
// WHILE keyword, WendPos just past the matching WEND.
type WhileFrame struct {
	WhilePos Pos
	WendPos  Pos
}

// CallFrame is one GOSUB.  The loop depths let RETURN drop loops
// opened inside the subroutine.
type CallFrame struct {
	ReturnPos  Pos
	ForDepth   int
	WhileDepth int
}

// ErrorTrapState is the ON ERROR bookkeeping.  Target is the handler
// line, 0 when trapping is off.
type ErrorTrapState struct {
	Target    int
	InHandler bool
	HasResume bool
	ResumePos Pos
	ErrCode   int
	ErrLine   int
}

// Options configures a Run.
type Options struct {
	Config     Config
	Sink       MessageSink
	Files      FileCloser
	Logger     *slog.Logger
	Checkpoint func() error
}

// Run is one program execution context.  Everything the control-flow
// statements mutate lives here.
type Run struct {
	prog       Stream
	vars       VariableStore
	values     *Values
	errs       *FloatErrorHandler
	sink       MessageSink
	files      FileCloser
	log        *slog.Logger
	cfg        Config
	checkpoint func() error

	state     State
	stopPos   Pos
	canCont   bool
	curLine   int
	stmtStart Pos
	jumped    bool

	forStack   []LoopFrame
	whileStack []WhileFrame
	gosubStack []CallFrame
	trap       ErrorTrapState

	printBuf strings.Builder

	numStatements int
}
