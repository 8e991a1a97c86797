package gwbasic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokKind {

	var ks []TokKind
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}

	return ks
}

func TestTokenizeLineNumber(t *testing.T) {

	lineNo, toks, err := Tokenize("10 print x")
	require.NoError(t, err)
	assert.Equal(t, 10, lineNo)
	assert.Equal(t, []Token{
		{Kind: TokKeyword, Word: PRINT},
		{Kind: TokIdent, Word: "X"},
	}, toks)

	lineNo, _, err = Tokenize("PRINT 1")
	require.NoError(t, err)
	assert.Equal(t, -1, lineNo)

	lineNo, toks, err = Tokenize("20")
	require.NoError(t, err)
	assert.Equal(t, 20, lineNo)
	assert.Empty(t, toks)
}

func TestTokenizeNumbers(t *testing.T) {

	tests := []struct {
		src  string
		vt   VarType
		want float64
	}{
		{"5", IntegerType, 5},
		{"32767", IntegerType, 32767},
		{"40000", SingleType, 40000},
		{"1.5", SingleType, 1.5},
		{".25", SingleType, 0.25},
		{"1E3", SingleType, 1000},
		{"1234567", SingleType, 1234567},
		{"12345678.5", DoubleType, 12345678.5},
		{"5#", DoubleType, 5},
		{"5!", SingleType, 5},
		{"2.7%", IntegerType, 3},
		{"&HFF", IntegerType, 255},
		{"&HFFFF", IntegerType, -1},
		{"&O17", IntegerType, 15},
		{"&17", IntegerType, 15},
	}

	for _, tt := range tests {
		_, toks, err := Tokenize("X = " + tt.src)
		require.NoError(t, err, tt.src)
		require.Len(t, toks, 3, tt.src)

		v := toks[2].Val
		assert.Equal(t, TokNumber, toks[2].Kind, tt.src)
		assert.Equal(t, tt.vt, v.Type(), tt.src)
		assert.Equal(t, tt.want, v.Float64(), tt.src)
	}
}

func TestTokenizeLineRefs(t *testing.T) {

	_, toks, err := Tokenize("ON X GOSUB 100, 200 , 300: PRINT 1, 2")
	require.NoError(t, err)

	assert.Equal(t, []TokKind{
		TokKeyword, TokIdent, TokKeyword,
		TokLineRef, TokComma, TokLineRef, TokComma, TokLineRef,
		TokColon, TokKeyword, TokNumber, TokComma, TokNumber,
	}, kinds(toks))

	assert.Equal(t, 300, toks[7].Num)

	_, toks, err = Tokenize("IF A THEN 50 ELSE 60")
	require.NoError(t, err)
	assert.Equal(t, []TokKind{
		TokKeyword, TokIdent, TokKeyword, TokLineRef,
		TokColon, TokKeyword, TokLineRef,
	}, kinds(toks))

	_, toks, err = Tokenize("RESUME NEXT")
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{Kind: TokKeyword, Word: RESUME},
		{Kind: TokKeyword, Word: NEXT},
	}, toks)
}

func TestTokenizeRemarks(t *testing.T) {

	_, toks, err := Tokenize(`PRINT "A:B" ' rest: is ignored`)
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{Kind: TokKeyword, Word: PRINT},
		{Kind: TokString, Word: "A:B"},
		{Kind: TokColon},
		{Kind: TokKeyword, Word: REM},
	}, toks)

	_, toks, err = Tokenize("REM anything at all \"")
	require.NoError(t, err)
	assert.Equal(t, []Token{{Kind: TokKeyword, Word: REM}}, toks)
}

func TestTokenizeOperators(t *testing.T) {

	_, toks, err := Tokenize("? A =< B, A => B, A >< B, A <> B")
	require.NoError(t, err)

	var ops []string
	for _, tk := range toks {
		if tk.Kind == TokOperator {
			ops = append(ops, tk.Word)
		}
	}

	assert.Equal(t, PRINT, toks[0].Word)
	assert.Equal(t, []string{"<=", ">=", "<>", "<>"}, ops)

	_, toks, err = Tokenize(`A$ = "open`)
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: TokString, Word: "open"}, toks[2])
}

func TestTokenizeNonASCIIString(t *testing.T) {

	_, toks, err := Tokenize(`A$ = "café €5"`)
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: TokString, Word: "café €5"}, toks[2])

	m := newMachine(t, `10 A$ = "é": PRINT A$; LEN(A$)`)
	require.NoError(t, m.run.RunProgram(-1))
	assert.Equal(t, []string{"é 2 "}, m.sink.lines)
}

func TestTokenizeErrors(t *testing.T) {

	_, _, err := Tokenize("10 PRINT @")
	requireRunError(t, err, errSyntax, 10)

	_, _, err = Tokenize("70000 PRINT")
	requireRunError(t, err, errSyntax, -1)

	_, _, err = Tokenize("A$B = 1")
	requireRunError(t, err, errSyntax, -1)

	_, _, err = Tokenize("GOTO 99999")
	requireRunError(t, err, errSyntax, -1)
}
