package gwbasic

import (
	"math/big"
)

//
// Microsoft Binary Format floating point.  A Single is 4 bytes and a
// Double is 8.  The last byte is the exponent, biased by 128, with 0
// meaning the value is zero.  The byte before it carries the sign in
// bit 7, and the remaining bits (little-endian) are the mantissa with
// an implied leading 1 just below the binary point:
//
//   value = 0.1mmm...m (binary) * 2^(exp-128)
//
// There is no infinity, NaN or denormal, so every bit pattern with a
// non-zero exponent is an ordinary number
//

const (
	singleMantBits = 24
	doubleMantBits = 56
	workingPrec    = 64
	mbfBias        = 128
)

func mantBitsFor(width int) int {

	return 8 * (width - 1)
}

//
// Decode the MBF bytes in b into an exact big.Float.  The working
// precision is wider than either format so nothing is lost
//

func decodeMBF(b []byte) *big.Float {

	n := len(b)
	f := new(big.Float).SetPrec(workingPrec)

	exp := int(b[n-1])
	if exp == 0 {
		return f
	}

	neg := b[n-2]&0x80 != 0

	var mant uint64
	for i := n - 2; i >= 0; i-- {
		mant = mant<<8 | uint64(b[i])
	}

	mantBits := mantBitsFor(n)
	mant |= uint64(1) << (mantBits - 1)

	f.SetUint64(mant)
	f.SetMantExp(f, exp-mbfBias-mantBits)
	if neg {
		f.Neg(f)
	}

	return f
}

//
// Round f to the mantissa width of an MBF value of the given byte
// width, half-ties away from zero
//

func roundMBF(f *big.Float, width int) *big.Float {

	return new(big.Float).SetPrec(uint(mantBitsFor(width))).
		SetMode(big.ToNearestAway).Set(f)
}

//
// Encode f into width bytes.  Magnitudes too small for the exponent
// flush to zero.  Magnitudes too large report ok == false; the caller
// decides whether that is a soft or a hard Overflow
//

func encodeMBF(f *big.Float, width int) (buf []byte, ok bool) {

	buf = make([]byte, width)

	if f.Sign() == 0 {
		return buf, true
	}

	r := roundMBF(f, width)
	neg := r.Signbit()
	r.Abs(r)

	mant := new(big.Float)
	exp := r.MantExp(mant) + mbfBias
	if exp > 255 {
		return nil, false
	}

	if exp < 1 {
		return buf, true
	}

	mantBits := mantBitsFor(width)
	mant.SetMantExp(mant, mantBits)
	m, _ := mant.Uint64()

	for i := 0; i < width-1; i++ {
		buf[i] = byte(m >> (8 * i))
	}

	buf[width-2] &^= 0x80
	if neg {
		buf[width-2] |= 0x80
	}

	buf[width-1] = byte(exp)

	return buf, true
}

//
// The largest representable magnitude, used as the soft Overflow
// substitute
//

func maxMBF(width int, neg bool) []byte {

	buf := make([]byte, width)
	for i := range buf {
		buf[i] = 0xff
	}

	buf[width-2] = 0x7f
	if neg {
		buf[width-2] |= 0x80
	}

	return buf
}

func isZeroMBF(b []byte) bool {

	return b[len(b)-1] == 0
}

func isNegMBF(b []byte) bool {

	return !isZeroMBF(b) && b[len(b)-2]&0x80 != 0
}

//
// Round half away from zero to an integer.  ok is false when the
// magnitude is too large to bother with; every caller range-checks the
// result against something much smaller anyway
//

func roundHalfAway(f *big.Float) (int64, bool) {

	r := new(big.Float).SetPrec(workingPrec).Abs(f)
	if r.Cmp(big.NewFloat(1<<62)) >= 0 {
		return 0, false
	}

	r.Add(r, big.NewFloat(0.5))
	if f.Signbit() {
		r.Neg(r)
	}

	i, _ := r.Int64()

	return i, true
}
