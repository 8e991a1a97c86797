package gwbasic

import (
	"bytes"
	"math"
)

//
// Scalar and array variables may share a name (A and A(3) are
// different variables).  We handle this by having an array of 2 symtab
// maps.  The first is for scalar variables, and the second for arrays
//

type symtabNode struct {
	name string
	vt   VarType
	dims []int
	data []byte
}

// Symtab is the in-memory VariableStore.
type Symtab struct {
	symtabMap [2]map[string]*symtabNode
}

const maxArrayElements = 1 << 20

func NewSymtab() *Symtab {

	st := &Symtab{}
	st.Clear()

	return st
}

//
// Initialize the symbol table to pristine state
//

func (st *Symtab) Clear() {

	st.symtabMap[0] = make(map[string]*symtabNode)
	st.symtabMap[1] = make(map[string]*symtabNode)
}

// TypeOfName gives the type selected by a name's sigil.  Names without
// one are Single.
func TypeOfName(name string) VarType {

	if name == "" {
		return SingleType
	}

	switch c := name[len(name)-1]; c {
	default:
		return SingleType

	case '%', '!', '#', '$':
		return VarType(c)
	}
}

func mapIndex(indices []int) int {

	if len(indices) != 0 {
		return 1
	}

	return 0
}

//
// Create the requested symbol.  BASIC subscripts run from 0 to N, so
// each dimension holds N+1 elements
//

func (st *Symtab) createSymbol(name string, dims []int) (*symtabNode, error) {

	vt := TypeOfName(name)

	count := 1
	for _, d := range dims {
		if d < 0 {
			return nil, newRunError(errIllegalFuncCall)
		}
		count *= d + 1
		if count > maxArrayElements {
			return nil, newRunError(errOutOfMemory)
		}
	}

	sym := &symtabNode{
		name: name,
		vt:   vt,
		dims: dims,
		data: make([]byte, count*vt.Size()),
	}

	st.symtabMap[mapIndex(dims)][name] = sym

	return sym, nil
}

//
// First use of an array dimensions it implicitly to 10 in every
// subscript
//

func (st *Symtab) lookupSymbolRef(name string, indices []int) (*symtabNode, error) {

	sym := st.symtabMap[mapIndex(indices)][name]
	if sym == nil {
		if len(indices) > maxDims {
			return nil, newRunError(errSubscriptRange)
		}

		dims := make([]int, len(indices))
		for i := range dims {
			dims[i] = maxImplicitSubscript
		}

		var err error
		sym, err = st.createSymbol(name, dims)
		if err != nil {
			return nil, err
		}
	}

	if len(indices) != len(sym.dims) {
		return nil, newRunError(errSubscriptRange)
	}

	return sym, nil
}

func (sym *symtabNode) slot(indices []int) ([]byte, error) {

	off := 0
	for i, ix := range indices {
		if ix < 0 || ix > sym.dims[i] {
			return nil, newRunError(errSubscriptRange)
		}
		off = off*(sym.dims[i]+1) + ix
	}

	size := sym.vt.Size()

	return sym.data[off*size : (off+1)*size], nil
}

func (st *Symtab) GetVariable(name string, indices []int) (Value, error) {

	sym, err := st.lookupSymbolRef(name, indices)
	if err != nil {
		return Value{}, err
	}

	b, err := sym.slot(indices)
	if err != nil {
		return Value{}, err
	}

	return ViewOf(sym.vt, b), nil
}

// SetVariable copies v into the variable.  v must already have the
// variable's type.
func (st *Symtab) SetVariable(name string, indices []int, v Value) error {

	sym, err := st.lookupSymbolRef(name, indices)
	if err != nil {
		return err
	}

	if v.vt != sym.vt {
		return newRunError(errTypeMismatch)
	}

	b, err := sym.slot(indices)
	if err != nil {
		return err
	}

	copy(b, v.buf)

	return nil
}

// Dim dimensions an array explicitly.  Doing it twice, or after the
// array was implicitly dimensioned, is a Duplicate Definition.
func (st *Symtab) Dim(name string, dims []int) error {

	if len(dims) == 0 {
		return newRunError(errSyntax)
	}

	if st.symtabMap[1][name] != nil {
		return newRunError(errDuplicateDef)
	}

	_, err := st.createSymbol(name, dims)

	return err
}

// StringPointers lists the heap pointers held by String variables.
func (st *Symtab) StringPointers() []uint16 {

	var ptrs []uint16

	for _, m := range st.symtabMap {
		for _, sym := range m {
			if sym.vt != StringType {
				continue
			}
			for off := 0; off < len(sym.data); off += 3 {
				v := ViewOf(StringType, sym.data[off:off+3])
				if v.StrLen() != 0 {
					ptrs = append(ptrs, v.StrPtr())
				}
			}
		}
	}

	return ptrs
}

//
// The string heap.  Pointers are 16 bits, so there is room for 65535
// live strings; Collect drops everything not reachable from a variable
//

// StringSpace is the in-memory StringHeap.
type StringSpace struct {
	strs map[uint16][]byte
	next uint16
}

func NewStringSpace() *StringSpace {

	return &StringSpace{strs: make(map[uint16][]byte)}
}

func (ss *StringSpace) Store(b []byte) (uint16, error) {

	if len(b) > maxStringLen {
		return 0, newRunError(errStringTooLong)
	}

	if len(ss.strs) >= math.MaxUint16 {
		return 0, newRunError(errOutOfStringSpace)
	}

	for {
		ss.next++
		if _, used := ss.strs[ss.next]; ss.next != 0 && !used {
			break
		}
	}

	ss.strs[ss.next] = bytes.Clone(b)

	return ss.next, nil
}

func (ss *StringSpace) Dereference(ptr uint16) ([]byte, error) {

	b, ok := ss.strs[ptr]
	if !ok {
		return nil, newRunError(errIllegalFuncCall)
	}

	return b, nil
}

func (ss *StringSpace) Len() int {

	return len(ss.strs)
}

func (ss *StringSpace) Collect(live []uint16) {

	keep := make(map[uint16]bool, len(live))
	for _, p := range live {
		keep[p] = true
	}

	for p := range ss.strs {
		if !keep[p] {
			delete(ss.strs, p)
		}
	}
}

func (ss *StringSpace) Clear() {

	clear(ss.strs)
	ss.next = 0
}
