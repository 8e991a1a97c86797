package gwbasic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarVariables(t *testing.T) {

	st := NewSymtab()

	v, err := st.GetVariable("X", nil)
	require.NoError(t, err)
	assert.Equal(t, SingleType, v.Type())
	assert.True(t, v.IsZero())
	assert.True(t, v.IsView())

	require.NoError(t, st.SetVariable("X", nil, single(t, 2.5)))
	v, err = st.GetVariable("X", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v.Float64())

	err = st.SetVariable("X", nil, NewInteger(1))
	requireRunError(t, err, errTypeMismatch, noLine)

	// X and X(1) are different variables
	v, err = st.GetVariable("X", []int{1})
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.Clear()
	v, err = st.GetVariable("X", nil)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestImplicitArrays(t *testing.T) {

	st := NewSymtab()

	require.NoError(t, st.SetVariable("A%", []int{10}, NewInteger(7)))
	v, err := st.GetVariable("A%", []int{10})
	require.NoError(t, err)
	assert.Equal(t, int16(7), v.Int())

	_, err = st.GetVariable("A%", []int{11})
	requireRunError(t, err, errSubscriptRange, noLine)

	_, err = st.GetVariable("A%", []int{-1})
	requireRunError(t, err, errSubscriptRange, noLine)

	_, err = st.GetVariable("A%", []int{1, 1})
	requireRunError(t, err, errSubscriptRange, noLine)

	_, err = st.GetVariable("B", []int{1, 2, 3})
	requireRunError(t, err, errSubscriptRange, noLine)

	err = st.Dim("A%", []int{20})
	requireRunError(t, err, errDuplicateDef, noLine)
}

func TestDim(t *testing.T) {

	st := NewSymtab()

	require.NoError(t, st.Dim("M#", []int{3, 4}))

	require.NoError(t, st.SetVariable("M#", []int{3, 4}, double(t, 9)))
	require.NoError(t, st.SetVariable("M#", []int{0, 4}, double(t, 1)))

	v, err := st.GetVariable("M#", []int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 9.0, v.Float64())

	v, err = st.GetVariable("M#", []int{3, 3})
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = st.GetVariable("M#", []int{4, 0})
	requireRunError(t, err, errSubscriptRange, noLine)

	err = st.Dim("M#", []int{3, 4})
	requireRunError(t, err, errDuplicateDef, noLine)

	err = st.Dim("N", []int{-1})
	requireRunError(t, err, errIllegalFuncCall, noLine)

	err = st.Dim("BIG", []int{2000, 2000})
	requireRunError(t, err, errOutOfMemory, noLine)
}

func TestStringSpace(t *testing.T) {

	ss := NewStringSpace()
	vs := NewValues(ss, NewFloatErrorHandler(nil, nil), false)
	st := NewSymtab()

	keep, err := vs.NewString([]byte("keep"))
	require.NoError(t, err)
	require.NoError(t, st.SetVariable("K$", nil, keep))

	for i := 0; i < 10; i++ {
		_, err := vs.NewString([]byte("garbage"))
		require.NoError(t, err)
	}

	assert.Equal(t, 11, ss.Len())
	assert.Equal(t, []uint16{keep.StrPtr()}, st.StringPointers())

	ss.Collect(st.StringPointers())
	assert.Equal(t, 1, ss.Len())

	v, err := st.GetVariable("K$", nil)
	require.NoError(t, err)
	b, err := vs.StrBytes(v)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(b))

	_, err = ss.Dereference(9999)
	requireRunError(t, err, errIllegalFuncCall, noLine)

	ss.Clear()
	assert.Equal(t, 0, ss.Len())
}
