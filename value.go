package gwbasic

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
)

// VarType is the tag of a Value.  The constants double as the name
// sigils that select a variable's type.
type VarType byte

const (
	IntegerType VarType = '%'
	SingleType  VarType = '!'
	DoubleType  VarType = '#'
	StringType  VarType = '$'
)

// Size is the width in bytes of a value of this type.
func (vt VarType) Size() int {

	switch vt {
	default:
		return 0

	case IntegerType:
		return 2

	case SingleType:
		return 4

	case DoubleType:
		return 8

	case StringType:
		return 3
	}
}

func (vt VarType) String() string {

	switch vt {
	default:
		return "unknown"

	case IntegerType:
		return "Integer"

	case SingleType:
		return "Single"

	case DoubleType:
		return "Double"

	case StringType:
		return "String"
	}
}

//
// Numeric rank for promotion.  String is off the scale
//

func (vt VarType) rank() int {

	switch vt {
	default:
		return 0

	case IntegerType:
		return 1

	case SingleType:
		return 2

	case DoubleType:
		return 3
	}
}

func (vt VarType) isNumeric() bool {

	return vt.rank() > 0
}

// Value is one BASIC value.  It either owns its buffer (a temporary) or
// is a view onto storage owned by a variable store.
type Value struct {
	vt   VarType
	buf  []byte
	view bool
}

// FromBytes makes a temporary holding a copy of b, which must have
// exactly the width of vt.
func FromBytes(vt VarType, b []byte) (Value, error) {

	if vt.Size() == 0 || len(b) != vt.Size() {
		return Value{}, newRunError(errIllegalFuncCall)
	}

	return Value{vt: vt, buf: bytes.Clone(b)}, nil
}

// ViewOf binds a Value to caller-owned storage without copying.
func ViewOf(vt VarType, b []byte) Value {

	return Value{vt: vt, buf: b[:vt.Size():vt.Size()], view: true}
}

// NewInteger makes an Integer temporary.
func NewInteger(i int16) Value {

	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(i))

	return Value{vt: IntegerType, buf: buf}
}

func newBool(b bool) Value {

	if b {
		return NewInteger(boolInt16True)
	}

	return NewInteger(boolInt16False)
}

// NewSingle rounds f to Single precision.
func NewSingle(f float64) (Value, error) {

	return fromFloat(SingleType, big.NewFloat(f))
}

// NewDouble rounds f to Double precision.
func NewDouble(f float64) (Value, error) {

	return fromFloat(DoubleType, big.NewFloat(f))
}

func newStringDesc(length byte, ptr uint16) Value {

	buf := make([]byte, 3)
	buf[0] = length
	binary.LittleEndian.PutUint16(buf[1:], ptr)

	return Value{vt: StringType, buf: buf}
}

func zeroValue(vt VarType) Value {

	return Value{vt: vt, buf: make([]byte, vt.Size())}
}

func maxValue(vt VarType, neg bool) Value {

	switch vt {
	default:
		return zeroValue(vt)

	case IntegerType:
		if neg {
			return NewInteger(math.MinInt16)
		}
		return NewInteger(math.MaxInt16)

	case SingleType, DoubleType:
		return Value{vt: vt, buf: maxMBF(vt.Size(), neg)}
	}
}

//
// Build a float temporary from a working float.  Overflow comes back
// as a floatFault so the arithmetic code can hand it to the float
// error policy
//

func fromFloat(vt VarType, f *big.Float) (Value, error) {

	if vt == IntegerType {
		i, ok := roundHalfAway(f)
		if !ok || i < math.MinInt16 || i > math.MaxInt16 {
			return Value{}, &floatFault{code: errOverflow, neg: f.Signbit()}
		}
		return NewInteger(int16(i)), nil
	}

	buf, ok := encodeMBF(f, vt.Size())
	if !ok {
		return Value{}, &floatFault{code: errOverflow, neg: f.Signbit()}
	}

	return Value{vt: vt, buf: buf}, nil
}

func (v Value) Type() VarType {

	return v.vt
}

func (v Value) IsView() bool {

	return v.view
}

// Bytes returns a copy of the backing bytes.
func (v Value) Bytes() []byte {

	return bytes.Clone(v.buf)
}

// Clone materializes an owned temporary.
func (v Value) Clone() Value {

	return Value{vt: v.vt, buf: bytes.Clone(v.buf)}
}

func (v Value) Int() int16 {

	return int16(binary.LittleEndian.Uint16(v.buf))
}

// Float returns the exact value of a numeric Value.
func (v Value) Float() *big.Float {

	switch v.vt {
	default:
		return new(big.Float).SetPrec(workingPrec)

	case IntegerType:
		return new(big.Float).SetPrec(workingPrec).SetInt64(int64(v.Int()))

	case SingleType, DoubleType:
		return decodeMBF(v.buf)
	}
}

func (v Value) Float64() float64 {

	f, _ := v.Float().Float64()

	return f
}

func (v Value) StrLen() int {

	return int(v.buf[0])
}

func (v Value) StrPtr() uint16 {

	return binary.LittleEndian.Uint16(v.buf[1:])
}

func (v Value) IsZero() bool {

	switch v.vt {
	default:
		return v.StrLen() == 0

	case IntegerType:
		return v.Int() == 0

	case SingleType, DoubleType:
		return isZeroMBF(v.buf)
	}
}

func (v Value) IsNegative() bool {

	switch v.vt {
	default:
		return false

	case IntegerType:
		return v.Int() < 0

	case SingleType, DoubleType:
		return isNegMBF(v.buf)
	}
}

//
// Conversions.  Every conversion builds a new buffer of the target width
//

func (v Value) To(vt VarType) (Value, error) {

	if v.vt == vt {
		return v.Clone(), nil
	}

	if !v.vt.isNumeric() || !vt.isNumeric() {
		return Value{}, newRunError(errTypeMismatch)
	}

	res, err := fromFloat(vt, v.Float())
	if err != nil {
		return Value{}, newRunError(errOverflow)
	}

	return res, nil
}

func (v Value) ToInteger() (Value, error) {

	return v.To(IntegerType)
}

func (v Value) ToSingle() (Value, error) {

	return v.To(SingleType)
}

func (v Value) ToDouble() (Value, error) {

	return v.To(DoubleType)
}

//
// Promote a and b to the larger of their two types.  Mixing a String
// with a number is a Type mismatch
//

func MatchTypes(a, b Value) (Value, Value, error) {

	if (a.vt == StringType) != (b.vt == StringType) {
		return Value{}, Value{}, newRunError(errTypeMismatch)
	}

	vt := a.vt
	if b.vt.rank() > vt.rank() {
		vt = b.vt
	}

	ra, err := a.To(vt)
	if err != nil {
		return Value{}, Value{}, err
	}

	rb, err := b.To(vt)
	if err != nil {
		return Value{}, Value{}, err
	}

	return ra, rb, nil
}

//
// Flip or clear the sign of a float temporary in place.  Zero stays
// zero, since the exponent alone decides that
//

func (v Value) negateInPlace() {

	switch v.vt {
	default:

	case SingleType, DoubleType:
		if !isZeroMBF(v.buf) {
			v.buf[len(v.buf)-2] ^= 0x80
		}
	}
}

func (v Value) absInPlace() {

	switch v.vt {
	default:

	case SingleType, DoubleType:
		v.buf[len(v.buf)-2] &^= 0x80
	}
}
