package gwbasic

//
// Expressions are read off the token stream into RPN, then evaluated
// against a value stack.  Keeping the two steps apart means a parse
// error never leaves half an evaluation behind
//

type rpnKind int

const (
	rpnValue rpnKind = iota
	rpnString
	rpnVar
	rpnUnary
	rpnBinary
	rpnFunc
)

type rpnItem struct {
	kind  rpnKind
	word  string
	val   Value
	nargs int
}

type tokenList []rpnItem

type rpnStack struct {
	entries []Value
}

//
// Binary operator precedence, loosest first.  Unary minus sits between
// the multiplicative operators and ^, so -2^2 is -4
//

const (
	precImp = iota + 1
	precEqv
	precXor
	precOr
	precAnd
	precNot
	precRelational
	precAdditive
	precMod
	precIntDiv
	precMultiplicative
	precNegate
	precPower
)

var binaryPrec = map[string]int{
	IMP:  precImp,
	EQV:  precEqv,
	XOR:  precXor,
	OR:   precOr,
	AND:  precAnd,
	"=":  precRelational,
	"<>": precRelational,
	"<":  precRelational,
	">":  precRelational,
	"<=": precRelational,
	">=": precRelational,
	"+":  precAdditive,
	"-":  precAdditive,
	MOD:  precMod,
	"\\": precIntDiv,
	"*":  precMultiplicative,
	"/":  precMultiplicative,
	"^":  precPower,
}

var functionMap = map[string]func(vs *Values, v Value) (Value, error){
	ABS:  (*Values).Abs,
	ATN:  (*Values).Atn,
	CDBL: (*Values).CDbl,
	CINT: (*Values).CInt,
	COS:  (*Values).Cos,
	CSNG: (*Values).CSng,
	EXP:  (*Values).Exp,
	FIX:  (*Values).Fix,
	INT:  (*Values).Int,
	LEN:  (*Values).Len,
	LOG:  (*Values).Log,
	SGN:  (*Values).Sgn,
	SIN:  (*Values).Sin,
	SQR:  (*Values).Sqr,
	TAN:  (*Values).Tan,
}

func binaryOp(t Token) (string, int, bool) {

	if t.Kind != TokOperator && t.Kind != TokKeyword {
		return "", 0, false
	}

	prec, ok := binaryPrec[t.Word]

	return t.Word, prec, ok
}

// Parse one expression at the current position into RPN.
func (r *Run) createRpnExpr() (tokenList, error) {

	var tl tokenList

	if err := r.createRpnExprInternal(&tl, 0); err != nil {
		return nil, err
	}

	return tl, nil
}

func (r *Run) createRpnExprInternal(tl *tokenList, minPrec int) error {

	if err := r.createRpnOperand(tl); err != nil {
		return err
	}

	for {
		op, prec, ok := binaryOp(r.prog.Peek())
		if !ok || prec < minPrec {
			return nil
		}

		r.prog.Read()

		//
		// All the binary operators are left associative, ^ included
		//

		if err := r.createRpnExprInternal(tl, prec+1); err != nil {
			return err
		}

		*tl = append(*tl, rpnItem{kind: rpnBinary, word: op})
	}
}

func (r *Run) createRpnOperand(tl *tokenList) error {

	t := r.prog.Peek()

	switch {
	default:
		return r.createRpnPrimary(tl)

	case t.is(TokOperator, "-"):
		r.prog.Read()
		if err := r.createRpnExprInternal(tl, precNegate); err != nil {
			return err
		}
		*tl = append(*tl, rpnItem{kind: rpnUnary, word: "-"})

	case t.is(TokOperator, "+"):
		r.prog.Read()
		return r.createRpnExprInternal(tl, precNegate)

	case t.isKeyword(NOT):
		r.prog.Read()
		if err := r.createRpnExprInternal(tl, precNot); err != nil {
			return err
		}
		*tl = append(*tl, rpnItem{kind: rpnUnary, word: NOT})
	}

	return nil
}

func (r *Run) createRpnPrimary(tl *tokenList) error {

	t := r.prog.Read()

	switch t.Kind {
	default:
		if t.endsStatement() {
			return newRunError(errMissingOperand)
		}
		return newRunError(errSyntax)

	case TokNumber:
		*tl = append(*tl, rpnItem{kind: rpnValue, val: t.Val})

	case TokString:
		*tl = append(*tl, rpnItem{kind: rpnString, word: t.Word})

	case TokLParen:
		if err := r.createRpnExprInternal(tl, 0); err != nil {
			return err
		}
		return r.require(TokRParen)

	case TokIdent:
		nargs, err := r.createRpnArgs(tl)
		if err != nil {
			return err
		}
		*tl = append(*tl, rpnItem{kind: rpnVar, word: t.Word, nargs: nargs})

	case TokKeyword:
		if t.Word == ERR || t.Word == ERL {
			*tl = append(*tl, rpnItem{kind: rpnFunc, word: t.Word})
			return nil
		}

		if _, ok := functionMap[t.Word]; !ok {
			return newRunError(errSyntax)
		}

		if err := r.require(TokLParen); err != nil {
			return err
		}
		if err := r.createRpnExprInternal(tl, 0); err != nil {
			return err
		}
		if err := r.require(TokRParen); err != nil {
			return err
		}
		*tl = append(*tl, rpnItem{kind: rpnFunc, word: t.Word, nargs: 1})
	}

	return nil
}

//
// Array subscripts: ( expr [, expr]... )
//

func (r *Run) createRpnArgs(tl *tokenList) (int, error) {

	if r.prog.Peek().Kind != TokLParen {
		return 0, nil
	}

	r.prog.Read()

	nargs := 0
	for {
		if err := r.createRpnExprInternal(tl, 0); err != nil {
			return 0, err
		}
		nargs++

		t := r.prog.Read()
		switch t.Kind {
		default:
			return 0, newRunError(errSyntax)

		case TokComma:

		case TokRParen:
			return nargs, nil
		}
	}
}

func rpnPush(stackp *rpnStack, value Value) {

	stackp.entries = append(stackp.entries, value)
}

func rpnPop(stackp *rpnStack) Value {

	slen := len(stackp.entries)
	if slen == 0 {
		panic("RPN stack underflow")
	}

	value := stackp.entries[slen-1]

	stackp.entries = stackp.entries[:slen-1]

	return value
}

func rpnPopIndices(stackp *rpnStack, n int) ([]int, error) {

	if n == 0 {
		return nil, nil
	}

	indices := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		ix, err := intOperand(rpnPop(stackp))
		if err != nil {
			return nil, err
		}
		indices[i] = int(ix)
	}

	return indices, nil
}

func (r *Run) evaluateRpnExpr(tl tokenList) (Value, error) {

	var stack rpnStack

	for _, item := range tl {
		var v Value
		var err error

		switch item.kind {
		default:
			panic("unexpected RPN item")

		case rpnValue:
			v = item.val

		case rpnString:
			v, err = r.values.NewString([]byte(item.word))

		case rpnVar:
			var indices []int
			indices, err = rpnPopIndices(&stack, item.nargs)
			if err == nil {
				v, err = r.vars.GetVariable(item.word, indices)
			}

		case rpnUnary:
			a := rpnPop(&stack)
			if item.word == NOT {
				v, err = r.values.Not(a)
			} else {
				v, err = r.values.Neg(a)
			}

		case rpnBinary:
			b := rpnPop(&stack)
			a := rpnPop(&stack)
			v, err = r.applyBinary(item.word, a, b)

		case rpnFunc:
			v, err = r.callFunction(item, &stack)
		}

		if err != nil {
			return Value{}, err
		}

		rpnPush(&stack, v)
	}

	return rpnPop(&stack), nil
}

func (r *Run) applyBinary(op string, a, b Value) (Value, error) {

	vs := r.values

	var cmp func(a, b Value) (bool, error)

	switch op {
	default:
		return Value{}, newRunError(errSyntax)

	case "+":
		return vs.Add(a, b)
	case "-":
		return vs.Sub(a, b)
	case "*":
		return vs.Mul(a, b)
	case "/":
		return vs.Div(a, b)
	case "\\":
		return vs.IntDiv(a, b)
	case MOD:
		return vs.Mod(a, b)
	case "^":
		return vs.Pow(a, b)
	case AND:
		return vs.And(a, b)
	case OR:
		return vs.Or(a, b)
	case XOR:
		return vs.Xor(a, b)
	case EQV:
		return vs.Eqv(a, b)
	case IMP:
		return vs.Imp(a, b)

	case "=":
		cmp = vs.Eq
	case "<>":
		cmp = vs.Neq
	case "<":
		cmp = vs.Lt
	case ">":
		cmp = vs.Gt
	case "<=":
		cmp = vs.Lte
	case ">=":
		cmp = vs.Gte
	}

	res, err := cmp(a, b)
	if err != nil {
		return Value{}, err
	}

	return newBool(res), nil
}

func (r *Run) callFunction(item rpnItem, stack *rpnStack) (Value, error) {

	switch item.word {
	default:
		return functionMap[item.word](r.values, rpnPop(stack))

	case ERR:
		return NewInteger(int16(r.trap.ErrCode)), nil

	case ERL:
		return r.erl()
	}
}

//
// Line numbers go past 32767, so ERL comes back as a Single.  Only
// run-mode errors are trapped, so it is never a direct-mode -1
//

func (r *Run) erl() (Value, error) {

	return NewSingle(float64(r.trap.ErrLine))
}

// Evaluate parses and evaluates the expression at the current position.
func (r *Run) evaluate() (Value, error) {

	tl, err := r.createRpnExpr()
	if err != nil {
		return Value{}, err
	}

	return r.evaluateRpnExpr(tl)
}

func (r *Run) evaluateBool() (bool, error) {

	v, err := r.evaluate()
	if err != nil {
		return false, err
	}

	return r.values.ToBool(v)
}

//
// Evaluate and round to an Integer-range int
//

func (r *Run) evaluateInt() (int, error) {

	v, err := r.evaluate()
	if err != nil {
		return 0, err
	}

	i, err := intOperand(v)

	return int(i), err
}
