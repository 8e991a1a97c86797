package gwbasic

import (
	"github.com/danswartzendruber/avl"
)

//
// The program is kept as an AVL tree of lines keyed by line number,
// the way LIST and line editing want it.  Execution wants a flat,
// seekable token stream, so Link lays the lines out end to end:
//
//   [line 10] toks... [line 20] toks... EOF [line -1] direct toks... EOF
//
// The direct-mode line lives after the program end, so a scan from a
// program line can never wander into it
//

type stmtNode struct {
	avl    avl.AvlNode
	lineNo int
	text   string
	tokens []Token
}

// Program is the line store and the Stream the engine executes.
type Program struct {
	program *avl.AvlNode
	toks    []Token
	lines   map[int]Pos
	direct  Pos
	pos     Pos
	linked  bool
}

func NewProgram() *Program {

	p := &Program{}
	p.Link()

	return p
}

func cmpLineKey(key any, node any) int {

	return cmpLineNos(key.(int), node.(*stmtNode).lineNo)
}

func cmpLineNode(node1, node2 any) int {

	return cmpLineNos(node1.(*stmtNode).lineNo, node2.(*stmtNode).lineNo)
}

func cmpLineNos(item1, item2 int) int {

	if item1 < item2 {
		return -1
	} else if item1 > item2 {
		return 1
	} else {
		return 0
	}
}

func (p *Program) lookup(lineNo int) *stmtNode {

	n := avl.AvlTreeLookup(p.program, lineNo, cmpLineKey)
	if n != nil {
		return n.(*stmtNode)
	}

	return nil
}

func (p *Program) first() *stmtNode {

	n := avl.AvlTreeFirstInOrder(p.program)
	if n != nil {
		return n.(*stmtNode)
	}

	return nil
}

func (p *Program) next(stmt *stmtNode) *stmtNode {

	n := avl.AvlTreeNextInOrder(&stmt.avl)
	if n != nil {
		return n.(*stmtNode)
	}

	return nil
}

//
// NB: any change to the program invalidates every saved position, so
// the owner must reset its Run (which also disallows CONT)
//

// AddLine stores a crunched line, replacing any line with the same
// number.  An empty token list deletes the line.
func (p *Program) AddLine(lineNo int, text string, toks []Token) {

	if len(toks) == 0 {
		p.DeleteLine(lineNo)
		return
	}

	p.DeleteLine(lineNo)

	stmt := &stmtNode{lineNo: lineNo, text: text, tokens: toks}
	avl.AvlTreeInsert(&p.program, &stmt.avl, stmt, cmpLineNode)

	p.linked = false
}

// AddSource crunches and stores a numbered source line.
func (p *Program) AddSource(text string) error {

	lineNo, toks, err := Tokenize(text)
	if err != nil {
		return err
	}

	if lineNo < 0 {
		return newRunErrorAt(errIllegalDirect, -1)
	}

	p.AddLine(lineNo, text, toks)

	return nil
}

func (p *Program) DeleteLine(lineNo int) bool {

	stmt := p.lookup(lineNo)
	if stmt == nil {
		return false
	}

	avl.AvlTreeRemove(&p.program, &stmt.avl)
	p.linked = false

	return true
}

// New erases the program.
func (p *Program) New() {

	p.program = nil
	p.Link()
}

func (p *Program) Empty() bool {

	return p.first() == nil
}

// List calls fn with the source text of every line in order.
func (p *Program) List(fn func(lineNo int, text string)) {

	for stmt := p.first(); stmt != nil; stmt = p.next(stmt) {
		fn(stmt.lineNo, stmt.text)
	}
}

// Link flattens the line tree into the token stream.  The direct line
// is left empty.
func (p *Program) Link() {

	p.toks = p.toks[:0]
	p.lines = make(map[int]Pos)

	for stmt := p.first(); stmt != nil; stmt = p.next(stmt) {
		p.lines[stmt.lineNo] = Pos(len(p.toks))
		p.toks = append(p.toks, Token{Kind: TokLine, Num: stmt.lineNo})
		p.toks = append(p.toks, stmt.tokens...)
	}

	p.toks = append(p.toks, Token{Kind: TokEOF})
	p.direct = Pos(len(p.toks))
	p.toks = append(p.toks, Token{Kind: TokLine, Num: -1}, Token{Kind: TokEOF})
	p.pos = 0
	p.linked = true
}

func (p *Program) Linked() bool {

	return p.linked
}

// SetDirect replaces the direct-mode line and returns its position.
func (p *Program) SetDirect(toks []Token) Pos {

	if !p.linked {
		p.Link()
	}

	p.toks = append(p.toks[:p.direct+1], toks...)
	p.toks = append(p.toks, Token{Kind: TokEOF})

	return p.direct
}

//
// Stream
//

func (p *Program) Tell() Pos {

	return p.pos
}

func (p *Program) Seek(pos Pos) {

	p.pos = min(max(pos, 0), Pos(len(p.toks)-1))
}

//
// Reading never moves past an EOF token, so a runaway scan stays put
//

func (p *Program) Read() Token {

	t := p.toks[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}

	return t
}

func (p *Program) Peek() Token {

	return p.toks[p.pos]
}

// LineNumberAt is the number of the line holding pos, -1 for the
// direct line.
func (p *Program) LineNumberAt(pos Pos) int {

	if pos >= p.direct {
		return -1
	}

	for i := min(pos, Pos(len(p.toks)-1)); i >= 0; i-- {
		if p.toks[i].Kind == TokLine {
			return p.toks[i].Num
		}
	}

	return -1
}

func (p *Program) LinePos(line int) (Pos, bool) {

	if line < 0 {
		return p.direct, true
	}

	pos, ok := p.lines[line]

	return pos, ok
}

// FirstPos is where RUN starts.
func (p *Program) FirstPos() Pos {

	return 0
}
