package gwbasic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {

	v := NewInteger(-2)
	assert.Equal(t, IntegerType, v.Type())
	assert.Equal(t, []byte{0xfe, 0xff}, v.Bytes())
	assert.True(t, v.IsNegative())

	s := single(t, 1)
	assert.Equal(t, []byte{0, 0, 0, 0x81}, s.Bytes())
	assert.Equal(t, 4, s.Type().Size())

	d := double(t, 0.5)
	assert.Equal(t, DoubleType, d.Type())
	assert.Equal(t, 0.5, d.Float64())

	_, err := NewSingle(1e39)
	assert.Error(t, err)
}

func TestFromBytesAndViews(t *testing.T) {

	_, err := FromBytes(SingleType, []byte{1, 2})
	requireRunError(t, err, errIllegalFuncCall, noLine)

	storage := []byte{0, 0, 0, 0x81}
	view := ViewOf(SingleType, storage)
	assert.True(t, view.IsView())
	assert.Equal(t, 1.0, view.Float64())

	owned := view.Clone()
	assert.False(t, owned.IsView())

	storage[3] = 0x82
	assert.Equal(t, 2.0, view.Float64())
	assert.Equal(t, 1.0, owned.Float64())

	tmp, err := FromBytes(SingleType, storage)
	require.NoError(t, err)
	storage[3] = 0
	assert.Equal(t, 2.0, tmp.Float64())
}

func TestConversions(t *testing.T) {

	tests := []struct {
		in   float64
		want int16
	}{
		{2.5, 3},
		{-2.5, -3},
		{1.4, 1},
		{32767, 32767},
		{-32768, -32768},
	}

	for _, tt := range tests {
		v, err := single(t, tt.in).ToInteger()
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, v.Int(), "%v", tt.in)
	}

	_, err := single(t, 40000).ToInteger()
	requireRunError(t, err, errOverflow, noLine)

	// the largest Double rounds up past the largest Single
	_, err = maxValue(DoubleType, false).ToSingle()
	requireRunError(t, err, errOverflow, noLine)

	_, err = newStringDesc(0, 0).ToSingle()
	requireRunError(t, err, errTypeMismatch, noLine)

	d, err := NewInteger(7).ToDouble()
	require.NoError(t, err)
	assert.Equal(t, DoubleType, d.Type())
	assert.Equal(t, 7.0, d.Float64())
}

func TestSingleLosesDoublePrecision(t *testing.T) {

	s, err := double(t, 0.1).ToSingle()
	require.NoError(t, err)

	assert.NotEqual(t, double(t, 0.1).Float64(), s.Float64())
	assert.InDelta(t, 0.1, s.Float64(), 1e-8)
}

func TestMatchTypes(t *testing.T) {

	a, b, err := MatchTypes(NewInteger(3), double(t, 1.5))
	require.NoError(t, err)
	assert.Equal(t, DoubleType, a.Type())
	assert.Equal(t, DoubleType, b.Type())
	assert.Equal(t, 3.0, a.Float64())

	a, b, err = MatchTypes(single(t, 2), NewInteger(1))
	require.NoError(t, err)
	assert.Equal(t, SingleType, a.Type())
	assert.Equal(t, SingleType, b.Type())

	_, _, err = MatchTypes(newStringDesc(0, 0), NewInteger(1))
	requireRunError(t, err, errTypeMismatch, noLine)
}

func TestZeroAndSign(t *testing.T) {

	assert.True(t, zeroValue(SingleType).IsZero())
	assert.False(t, zeroValue(DoubleType).IsNegative())
	assert.True(t, newStringDesc(0, 0).IsZero())

	m := maxValue(SingleType, true)
	assert.True(t, m.IsNegative())
	assert.Equal(t, int16(32767), maxValue(IntegerType, false).Int())
}

func TestVarTypeNames(t *testing.T) {

	assert.Equal(t, "Integer", IntegerType.String())
	assert.Equal(t, "Double", DoubleType.String())
	assert.Equal(t, 3, StringType.Size())
	assert.Equal(t, StringType, TypeOfName("A$"))
	assert.Equal(t, IntegerType, TypeOfName("I%"))
	assert.Equal(t, SingleType, TypeOfName("X"))
	assert.Equal(t, DoubleType, TypeOfName("D#"))
}

// sampleNumbers mixes all three numeric types, both signs and both
// zeros.
func sampleNumbers(t *testing.T) []Value {

	return []Value{
		NewInteger(0), NewInteger(-2), NewInteger(3), NewInteger(32767), NewInteger(-32768),
		zeroValue(SingleType), {vt: SingleType, buf: []byte{0, 0, 0x80, 0}},
		single(t, -2.5), single(t, 3), single(t, 0.1), single(t, -1e30),
		zeroValue(DoubleType), {vt: DoubleType, buf: []byte{0, 0, 0, 0, 0, 0, 0x80, 0}},
		double(t, -2.5), double(t, 3), double(t, 0.1), double(t, 1e30),
	}
}

func TestMatchTypesIdempotent(t *testing.T) {

	for _, a := range sampleNumbers(t) {
		for _, b := range sampleNumbers(t) {
			ma, mb, err := MatchTypes(a, b)
			require.NoError(t, err)

			want := maxType(a.Type(), b.Type())
			assert.Equal(t, want, ma.Type())
			assert.Equal(t, want, mb.Type())

			// widening is exact
			assert.True(t, a.Float64() == ma.Float64(), "%v %v", a, b)
			assert.True(t, b.Float64() == mb.Float64(), "%v %v", a, b)

			ma2, mb2, err := MatchTypes(ma, mb)
			require.NoError(t, err)
			assert.Equal(t, ma.Type(), ma2.Type())
			assert.Equal(t, ma.Bytes(), ma2.Bytes())
			assert.Equal(t, mb.Bytes(), mb2.Bytes())
		}
	}
}

func TestIntegerSingleRoundTrip(t *testing.T) {

	for i := -32768; i <= 32767; i++ {
		s, err := NewInteger(int16(i)).ToSingle()
		require.NoError(t, err)
		require.Equal(t, float64(i), s.Float64())

		back, err := s.ToInteger()
		require.NoError(t, err)
		require.Equal(t, int16(i), back.Int())

		d, err := NewInteger(int16(i)).ToDouble()
		require.NoError(t, err)
		back, err = d.ToInteger()
		require.NoError(t, err)
		require.Equal(t, int16(i), back.Int())
	}
}
