package gwbasic

import (
	"bytes"
	"errors"
	"math"
	"math/big"
)

// StringHeap stores string bodies and hands out the 2-byte pointers
// kept in String descriptors.
type StringHeap interface {
	Store(b []byte) (uint16, error)
	Dereference(ptr uint16) ([]byte, error)
}

// Values is the arithmetic engine.  Every operator funnels its numeric
// faults through the one FloatErrorHandler, so a substitute value
// always comes back from the operator that computed it.
type Values struct {
	heap       StringHeap
	errs       *FloatErrorHandler
	doubleMath bool
}

func NewValues(heap StringHeap, errs *FloatErrorHandler, doubleMath bool) *Values {

	return &Values{heap: heap, errs: errs, doubleMath: doubleMath}
}

func working(vt VarType) *big.Float {

	return new(big.Float).SetPrec(uint(mantBitsFor(vt.Size()))).
		SetMode(big.ToNearestAway)
}

//
// Route a fault coming out of fromFloat to the error policy
//

func (vs *Values) settle(v Value, err error, vt VarType) (Value, error) {

	var fault *floatFault

	if errors.As(err, &fault) {
		return vs.errs.handle(fault, vt)
	}

	return v, err
}

func (vs *Values) floatResult(vt VarType, f *big.Float) (Value, error) {

	v, err := fromFloat(vt, f)

	return vs.settle(v, err, vt)
}

func (vs *Values) fault(code int, neg bool, vt VarType) (Value, error) {

	return vs.errs.handle(&floatFault{code: code, neg: neg}, vt)
}

//
// Integer never overflows on the way up to a float type, so the error
// can be dropped
//

func promote(v Value, vt VarType) Value {

	if v.vt == vt {
		return v
	}

	res, _ := fromFloat(vt, v.Float())

	return res
}

//
// String access through the heap
//

// StrBytes returns the body of a String value.
func (vs *Values) StrBytes(v Value) ([]byte, error) {

	if v.vt != StringType {
		return nil, newRunError(errTypeMismatch)
	}

	n := v.StrLen()
	if n == 0 {
		return nil, nil
	}

	b, err := vs.heap.Dereference(v.StrPtr())
	if err != nil {
		return nil, err
	}

	if len(b) < n {
		return nil, newRunError(errIllegalFuncCall)
	}

	return b[:n], nil
}

// NewString stores b on the heap and returns its descriptor.
func (vs *Values) NewString(b []byte) (Value, error) {

	if len(b) > maxStringLen {
		return Value{}, newRunError(errStringTooLong)
	}

	if len(b) == 0 {
		return newStringDesc(0, 0), nil
	}

	ptr, err := vs.heap.Store(b)
	if err != nil {
		return Value{}, err
	}

	return newStringDesc(byte(len(b)), ptr), nil
}

func (vs *Values) concat(a, b Value) (Value, error) {

	sa, err := vs.StrBytes(a)
	if err != nil {
		return Value{}, err
	}

	sb, err := vs.StrBytes(b)
	if err != nil {
		return Value{}, err
	}

	if len(sa)+len(sb) > maxStringLen {
		return Value{}, newRunError(errStringTooLong)
	}

	res := make([]byte, 0, len(sa)+len(sb))
	res = append(res, sa...)

	return vs.NewString(append(res, sb...))
}

//
// Comparisons.  Eq and Gt are the only primitives
//

func (vs *Values) compare(a, b Value) (int, error) {

	a, b, err := MatchTypes(a, b)
	if err != nil {
		return 0, err
	}

	switch a.vt {
	default:
		return a.Float().Cmp(b.Float()), nil

	case IntegerType:
		ia, ib := a.Int(), b.Int()
		if ia < ib {
			return -1, nil
		} else if ia > ib {
			return 1, nil
		}
		return 0, nil

	case StringType:
		sa, err := vs.StrBytes(a)
		if err != nil {
			return 0, err
		}
		sb, err := vs.StrBytes(b)
		if err != nil {
			return 0, err
		}
		return bytes.Compare(sa, sb), nil
	}
}

func (vs *Values) Eq(a, b Value) (bool, error) {

	c, err := vs.compare(a, b)

	return c == 0, err
}

func (vs *Values) Gt(a, b Value) (bool, error) {

	c, err := vs.compare(a, b)

	return c > 0, err
}

func (vs *Values) Neq(a, b Value) (bool, error) {

	eq, err := vs.Eq(a, b)

	return !eq, err
}

func (vs *Values) Lt(a, b Value) (bool, error) {

	return vs.Gt(b, a)
}

func (vs *Values) Lte(a, b Value) (bool, error) {

	gt, err := vs.Gt(a, b)

	return !gt, err
}

func (vs *Values) Gte(a, b Value) (bool, error) {

	gt, err := vs.Gt(b, a)

	return !gt, err
}

// ToBool is the truth test used by IF and WHILE.
func (vs *Values) ToBool(v Value) (bool, error) {

	if v.vt == StringType {
		return false, newRunError(errTypeMismatch)
	}

	return !v.IsZero(), nil
}

//
// Arithmetic
//

func (vs *Values) Add(a, b Value) (Value, error) {

	a, b, err := MatchTypes(a, b)
	if err != nil {
		return Value{}, err
	}

	switch a.vt {
	default:

	case StringType:
		return vs.concat(a, b)

	case IntegerType:
		a, b = promote(a, SingleType), promote(b, SingleType)
	}

	return vs.floatResult(a.vt, working(a.vt).Add(a.Float(), b.Float()))
}

func (vs *Values) Sub(a, b Value) (Value, error) {

	a, b, err := MatchTypes(a, b)
	if err != nil {
		return Value{}, err
	}

	switch a.vt {
	default:

	case StringType:
		return Value{}, newRunError(errTypeMismatch)

	case IntegerType:
		a, b = promote(a, SingleType), promote(b, SingleType)
	}

	return vs.floatResult(a.vt, working(a.vt).Sub(a.Float(), b.Float()))
}

//
// Multiplication and division never happen in the Integer domain
//

func mulDivType(a, b Value) (VarType, error) {

	if a.vt == StringType || b.vt == StringType {
		return 0, newRunError(errTypeMismatch)
	}

	if a.vt == DoubleType || b.vt == DoubleType {
		return DoubleType, nil
	}

	return SingleType, nil
}

func (vs *Values) Mul(a, b Value) (Value, error) {

	vt, err := mulDivType(a, b)
	if err != nil {
		return Value{}, err
	}

	a, b = promote(a, vt), promote(b, vt)

	return vs.floatResult(vt, working(vt).Mul(a.Float(), b.Float()))
}

func (vs *Values) Div(a, b Value) (Value, error) {

	vt, err := mulDivType(a, b)
	if err != nil {
		return Value{}, err
	}

	a, b = promote(a, vt), promote(b, vt)
	if b.IsZero() {
		return vs.fault(errDivisionByZero, a.IsNegative(), vt)
	}

	return vs.floatResult(vt, working(vt).Quo(a.Float(), b.Float()))
}

func intOperand(v Value) (int16, error) {

	if v.vt == StringType {
		return 0, newRunError(errTypeMismatch)
	}

	iv, err := v.ToInteger()
	if err != nil {
		return 0, err
	}

	return iv.Int(), nil
}

func intOperands(a, b Value) (int32, int32, error) {

	ia, err := intOperand(a)
	if err != nil {
		return 0, 0, err
	}

	ib, err := intOperand(b)
	if err != nil {
		return 0, 0, err
	}

	return int32(ia), int32(ib), nil
}

func checkedInteger(i int32) (Value, error) {

	if i < math.MinInt16 || i > math.MaxInt16 {
		return Value{}, newRunError(errOverflow)
	}

	return NewInteger(int16(i)), nil
}

// IntDiv is the \ operator: Integer division truncating toward zero.
func (vs *Values) IntDiv(a, b Value) (Value, error) {

	ia, ib, err := intOperands(a, b)
	if err != nil {
		return Value{}, err
	}

	if ib == 0 {
		return vs.fault(errDivisionByZero, ia < 0, IntegerType)
	}

	return checkedInteger(ia / ib)
}

// Mod gives a remainder carrying the sign of the divisor.
func (vs *Values) Mod(a, b Value) (Value, error) {

	ia, ib, err := intOperands(a, b)
	if err != nil {
		return Value{}, err
	}

	if ib == 0 {
		return vs.fault(errDivisionByZero, ia < 0, IntegerType)
	}

	r := ia % ib
	if r != 0 && (r < 0) != (ib < 0) {
		r += ib
	}

	return checkedInteger(r)
}

func (vs *Values) Pow(a, b Value) (Value, error) {

	if a.vt == StringType || b.vt == StringType {
		return Value{}, newRunError(errTypeMismatch)
	}

	if vs.doubleMath && (a.vt == DoubleType || b.vt == DoubleType) {
		return vs.floatPow(DoubleType, a, b)
	}

	if b.vt == IntegerType {
		return vs.intPow(a, b.Int())
	}

	return vs.floatPow(SingleType, a, b)
}

func (vs *Values) floatPow(vt VarType, a, b Value) (Value, error) {

	x, y := a.Float64(), b.Float64()

	if x == 0 && y < 0 {
		return vs.fault(errDivisionByZero, false, vt)
	}

	if x < 0 && y != math.Trunc(y) {
		return Value{}, newRunError(errIllegalFuncCall)
	}

	r := math.Pow(x, y)
	if math.IsInf(r, 0) {
		return vs.fault(errOverflow, r < 0, vt)
	}

	return vs.floatResult(vt, big.NewFloat(r))
}

//
// Integer exponents are done by repeated squaring in Single precision,
// so 2^10 is exactly 1024 rather than whatever a logarithm gives
//

func (vs *Values) intPow(a Value, n int16) (Value, error) {

	base := working(SingleType).Set(a.Float())
	res := working(SingleType).SetInt64(1)

	e := int(n)
	if e < 0 {
		e = -e
	}

	for e > 0 {
		if e&1 != 0 {
			res.Mul(res, base)
		}
		base.Mul(base, base)
		e >>= 1
	}

	if n < 0 {
		if res.Sign() == 0 {
			return vs.fault(errDivisionByZero, false, SingleType)
		}
		res = working(SingleType).Quo(big.NewFloat(1), res)
	}

	return vs.floatResult(SingleType, res)
}

//
// Bitwise operators work on the 16-bit pattern of the Integer value
//

func bitwise(a, b Value, op func(x, y uint16) uint16) (Value, error) {

	ia, err := intOperand(a)
	if err != nil {
		return Value{}, err
	}

	ib, err := intOperand(b)
	if err != nil {
		return Value{}, err
	}

	return NewInteger(int16(op(uint16(ia), uint16(ib)))), nil
}

func (vs *Values) Not(a Value) (Value, error) {

	ia, err := intOperand(a)
	if err != nil {
		return Value{}, err
	}

	return NewInteger(int16(^uint16(ia))), nil
}

func (vs *Values) And(a, b Value) (Value, error) {

	return bitwise(a, b, func(x, y uint16) uint16 { return x & y })
}

func (vs *Values) Or(a, b Value) (Value, error) {

	return bitwise(a, b, func(x, y uint16) uint16 { return x | y })
}

func (vs *Values) Xor(a, b Value) (Value, error) {

	return bitwise(a, b, func(x, y uint16) uint16 { return x ^ y })
}

func (vs *Values) Eqv(a, b Value) (Value, error) {

	return bitwise(a, b, func(x, y uint16) uint16 { return ^(x ^ y) })
}

func (vs *Values) Imp(a, b Value) (Value, error) {

	return bitwise(a, b, func(x, y uint16) uint16 { return ^x | y })
}

//
// Unary minus and ABS leave Strings alone, and move Integers up to
// Single so that -(-32768) has somewhere to go
//

func (vs *Values) Neg(a Value) (Value, error) {

	if a.vt == StringType {
		return a, nil
	}

	res := promote(a, maxType(a.vt, SingleType)).Clone()
	res.negateInPlace()

	return res, nil
}

func (vs *Values) Abs(a Value) (Value, error) {

	if a.vt == StringType {
		return a, nil
	}

	res := promote(a, maxType(a.vt, SingleType)).Clone()
	res.absInPlace()

	return res, nil
}

func maxType(a, b VarType) VarType {

	if b.rank() > a.rank() {
		return b
	}

	return a
}

//
// Transcendental functions run in float64 and come back in the width
// of the argument.  Integer arguments give a Single.  Without double
// math a Double argument is narrowed to Single first and the result
// carries only Single precision
//

func (vs *Values) transcendental(v Value, fn func(float64) float64,
	domain func(float64) bool) (Value, error) {

	if v.vt == StringType {
		return Value{}, newRunError(errTypeMismatch)
	}

	vt := maxType(v.vt, SingleType)
	narrow := vt == DoubleType && !vs.doubleMath

	x := v.Float64()
	if narrow {
		s, err := fromFloat(SingleType, v.Float())
		if err != nil {
			return vs.settle(s, err, vt)
		}
		x = s.Float64()
	}

	if domain != nil && !domain(x) {
		return Value{}, newRunError(errIllegalFuncCall)
	}

	r := fn(x)
	if math.IsNaN(r) {
		return Value{}, newRunError(errIllegalFuncCall)
	}

	if math.IsInf(r, 0) {
		return vs.fault(errOverflow, r < 0, vt)
	}

	if narrow {
		s, err := fromFloat(SingleType, big.NewFloat(r))
		if err != nil {
			return vs.settle(s, err, vt)
		}
		return vs.floatResult(vt, s.Float())
	}

	return vs.floatResult(vt, big.NewFloat(r))
}

func (vs *Values) Sqr(v Value) (Value, error) {

	return vs.transcendental(v, math.Sqrt, func(x float64) bool { return x >= 0 })
}

func (vs *Values) Exp(v Value) (Value, error) {

	return vs.transcendental(v, math.Exp, nil)
}

func (vs *Values) Log(v Value) (Value, error) {

	return vs.transcendental(v, math.Log, func(x float64) bool { return x > 0 })
}

func (vs *Values) Sin(v Value) (Value, error) {

	return vs.transcendental(v, math.Sin, nil)
}

func (vs *Values) Cos(v Value) (Value, error) {

	return vs.transcendental(v, math.Cos, nil)
}

func (vs *Values) Tan(v Value) (Value, error) {

	return vs.transcendental(v, math.Tan, nil)
}

func (vs *Values) Atn(v Value) (Value, error) {

	return vs.transcendental(v, math.Atan, nil)
}

//
// INT rounds toward minus infinity, FIX toward zero.  Both keep the
// argument's type
//

func (vs *Values) Int(v Value) (Value, error) {

	return roundFloat(v, true)
}

func (vs *Values) Fix(v Value) (Value, error) {

	return roundFloat(v, false)
}

func roundFloat(v Value, floor bool) (Value, error) {

	switch v.vt {
	default:
		return v.Clone(), nil

	case StringType:
		return Value{}, newRunError(errTypeMismatch)

	case SingleType, DoubleType:
		f := v.Float()
		i, _ := f.Int(nil)
		if floor && f.Sign() < 0 && !f.IsInt() {
			i.Sub(i, big.NewInt(1))
		}
		return fromFloat(v.vt, new(big.Float).SetInt(i))
	}
}

func (vs *Values) Sgn(v Value) (Value, error) {

	if v.vt == StringType {
		return Value{}, newRunError(errTypeMismatch)
	}

	switch {
	default:
		return NewInteger(1), nil

	case v.IsZero():
		return NewInteger(0), nil

	case v.IsNegative():
		return NewInteger(-1), nil
	}
}

func (vs *Values) CInt(v Value) (Value, error) {

	return v.ToInteger()
}

func (vs *Values) CSng(v Value) (Value, error) {

	return v.ToSingle()
}

func (vs *Values) CDbl(v Value) (Value, error) {

	return v.ToDouble()
}

func (vs *Values) Len(v Value) (Value, error) {

	if v.vt != StringType {
		return Value{}, newRunError(errTypeMismatch)
	}

	return NewInteger(int16(v.StrLen())), nil
}
