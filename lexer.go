package gwbasic

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"
)

var keywordMap = map[string]bool{}

func init() {

	for _, kw := range []string{
		CONT, DIM, ELSE, END, ERROR, FOR, GOSUB, GOTO, IF, LET, NEXT, ON,
		PRINT, REM, RESUME, RETURN, STEP, STOP, THEN, TO, WEND, WHILE,
		AND, EQV, IMP, MOD, NOT, OR, XOR,
		ABS, ATN, CDBL, CINT, COS, CSNG, ERL, ERR, EXP, FIX, INT, LEN, LOG,
		SGN, SIN, SQR, TAN,
	} {
		keywordMap[kw] = true
	}
}

//
// Keywords that may be followed by a line number.  In an ON statement
// the GOTO/GOSUB is followed by a comma separated list of them
//

var lineRefKeywords = map[string]bool{
	GOTO: true, GOSUB: true, THEN: true, ELSE: true, RESUME: true,
	RETURN: true,
}

// Tokenize crunches one line of BASIC source.  A leading line number
// is returned separately; a line without one gives -1 (direct mode).
func Tokenize(line string) (int, []Token, error) {

	var s scanner.Scanner
	var toks []Token

	lineNo := -1

	line = strings.TrimSpace(line)

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}

	if digits > 0 {
		n, err := strconv.Atoi(line[:digits])
		if err != nil || n > maxLineNo {
			return 0, nil, newRunErrorAt(errSyntax, -1)
		}
		lineNo = n
		line = line[digits:]
	}

	s.Init(strings.NewReader(line))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	s.IsIdentRune = basicIdent
	s.Error = dummyScannerError

	//
	// lineRefs is set after a keyword that takes a line number, and
	// stays set across commas after GOTO/GOSUB for ON lists
	//

	lineRefs := false
	listRefs := false

	for {
		t, eof, err := getLexeme(&s, lineRefs)
		if err != nil {
			return 0, nil, newRunErrorAt(errSyntax, lineNo)
		}

		if eof {
			break
		}

		//
		// ELSE and a trailing ' remark always follow a statement
		// separator, so that the statement before them ends there
		//

		if (t.isKeyword(ELSE) || t.isKeyword(REM)) && len(toks) > 0 &&
			toks[len(toks)-1].Kind != TokColon {
			toks = append(toks, Token{Kind: TokColon})
		}

		if t.isKeyword(REM) {
			toks = append(toks, t)
			break
		}

		switch {
		default:
			lineRefs = false
			listRefs = false

		case t.Kind == TokKeyword && lineRefKeywords[t.Word]:
			lineRefs = true
			listRefs = t.Word == GOTO || t.Word == GOSUB

		case t.Kind == TokComma && listRefs:
			lineRefs = true

		case t.Kind == TokLineRef:
			lineRefs = false
		}

		toks = append(toks, t)
	}

	return lineNo, toks, nil
}

//
// Fetch one token.  A nil error and eof true means the line is done
//

func getLexeme(s *scanner.Scanner, lineRefs bool) (Token, bool, error) {

	tok := s.Scan()
	txt := s.TokenText()

	switch tok {
	default:
		return lexOperator(s, tok)

	case scanner.EOF:
		return Token{}, true, nil

	case scanner.Ident:

		//
		// Names are case-insensitive, so upper-case everything
		//

		txt = strings.ToUpper(txt)
		if len(txt) > maxVariableLen {
			return Token{}, false, errBadToken
		}

		if keywordMap[txt] {
			return Token{Kind: TokKeyword, Word: txt}, false, nil
		}

		if strings.IndexAny(txt[:len(txt)-1], "$%!#") >= 0 {
			return Token{}, false, errBadToken
		}

		return Token{Kind: TokIdent, Word: txt}, false, nil

	case scanner.Int, scanner.Float:
		if lineRefs && tok == scanner.Int {
			n, err := strconv.Atoi(txt)
			if err != nil || n > maxLineNo {
				return Token{}, false, errBadToken
			}
			return Token{Kind: TokLineRef, Num: n}, false, nil
		}

		return lexNumber(s, txt)

	case '"':
		return lexString(s), false, nil

	case '\'':
		return Token{Kind: TokKeyword, Word: REM}, false, nil
	}
}

type lexError string

func (e lexError) Error() string {

	return string(e)
}

const errBadToken = lexError("bad token")

func lexOperator(s *scanner.Scanner, tok rune) (Token, bool, error) {

	switch tok {
	default:
		return Token{}, false, errBadToken

	case ':':
		return Token{Kind: TokColon}, false, nil

	case ',':
		return Token{Kind: TokComma}, false, nil

	case ';':
		return Token{Kind: TokSemicolon}, false, nil

	case '(':
		return Token{Kind: TokLParen}, false, nil

	case ')':
		return Token{Kind: TokRParen}, false, nil

	case '?':
		return Token{Kind: TokKeyword, Word: PRINT}, false, nil

	case '+', '-', '*', '/', '\\', '^':
		return Token{Kind: TokOperator, Word: string(tok)}, false, nil

	case '<', '>', '=':

		//
		// Relational operators may be written either way round:
		// => is >= and >< is <>
		//

		op := string(tok)
		next := s.Peek()
		if next != tok && (next == '<' || next == '>' || next == '=') {
			op += string(s.Next())
		}

		switch op {
		case "=<":
			op = "<="
		case "=>":
			op = ">="
		case "><":
			op = "<>"
		}

		return Token{Kind: TokOperator, Word: op}, false, nil

	case '&':
		return lexRadix(s)
	}
}

//
// &Hxxxx is hexadecimal, &Oxxxx or &xxxx octal.  The result is the
// 16-bit pattern as an Integer
//

func lexRadix(s *scanner.Scanner) (Token, bool, error) {

	base := 8

	switch unicode.ToUpper(s.Peek()) {
	case 'H':
		base = 16
		s.Next()
	case 'O':
		s.Next()
	}

	var digits []rune
	for {
		ch := unicode.ToUpper(s.Peek())
		if (ch >= '0' && ch <= '7') || (base == 16 &&
			((ch >= '8' && ch <= '9') || (ch >= 'A' && ch <= 'F'))) {
			digits = append(digits, s.Next())
			continue
		}
		break
	}

	n, err := strconv.ParseUint(string(digits), base, 16)
	if err != nil {
		return Token{}, false, errBadToken
	}

	return Token{Kind: TokNumber, Val: NewInteger(int16(uint16(n)))}, false, nil
}

//
// Numeric literals.  A type suffix wins; otherwise whole numbers that
// fit are Integer, up to 7 digits is Single, and longer is Double
//

func lexNumber(s *scanner.Scanner, txt string) (Token, bool, error) {

	var vt VarType

	switch s.Peek() {
	case '%', '!', '#':
		vt = VarType(s.Next())
	}

	if vt == 0 {
		if !strings.ContainsAny(txt, ".eE") {
			if n, err := strconv.Atoi(txt); err == nil && n <= math.MaxInt16 {
				vt = IntegerType
			}
		}

		if vt == 0 {
			vt = SingleType
			if significantDigits(txt) > 7 {
				vt = DoubleType
			}
		}
	}

	prec := uint(workingPrec)
	if vt != IntegerType {
		prec = uint(mantBitsFor(vt.Size()))
	}

	f, _, err := big.ParseFloat(txt, 10, prec, big.ToNearestAway)
	if err != nil {
		return Token{}, false, errBadToken
	}

	v, err := fromFloat(vt, f)
	if err != nil {
		return Token{}, false, errBadToken
	}

	return Token{Kind: TokNumber, Val: v}, false, nil
}

func significantDigits(txt string) int {

	mant, _, _ := strings.Cut(strings.ToUpper(txt), "E")
	mant = strings.TrimLeft(strings.Replace(mant, ".", "", 1), "0")

	return len(mant)
}

//
// A string runs to the closing quote or the end of the line
//

func lexString(s *scanner.Scanner) Token {

	var buf []byte

	for {
		rch := s.Next()
		if rch == scanner.EOF || rch == '"' {
			return Token{Kind: TokString, Word: string(buf)}
		}

		buf = utf8.AppendRune(buf, rch)
	}
}

//
// This is a dummy to suppress reporting of errors by the scanner
//

func dummyScannerError(s *scanner.Scanner, msg string) {
}

//
// Ident predicate routine for text/scanner.  A type sigil is allowed
// anywhere after the first letter; getLexeme rejects one that is not
// at the end
//

func basicIdent(ch rune, pos int) bool {

	if pos == 0 {
		return unicode.IsLetter(ch)
	}

	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '.' ||
		ch == '$' || ch == '%' || ch == '!' || ch == '#'
}
