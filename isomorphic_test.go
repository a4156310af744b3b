package isomorphic

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wrapper[T any] struct {
	v T
}

type point struct {
	X, Y int32
}

type pair [2]int32

func TestRefOf_SameType(t *testing.T) {
	v := int64(-7)
	r := RefOf[int64](&v)

	assert.Same(t, &v, r)
	assert.Equal(t, v, *r)
}

func TestRefOf_WrapperToField(t *testing.T) {
	w := wrapper[int32]{v: 42}

	v := RefOf[int32](&w)
	assert.Equal(t, int32(42), *v)
	assert.Equal(t, unsafe.Pointer(&w), unsafe.Pointer(v))
}

func TestRefOf_RoundTripKeepsBits(t *testing.T) {
	w := wrapper[float64]{v: 3.25}

	v := RefOf[float64](&w)
	back := RefOf[wrapper[float64]](v)

	assert.Same(t, &w, back)
	assert.Equal(t, *(*uint64)(unsafe.Pointer(&w)), *(*uint64)(unsafe.Pointer(back)))
}

func TestRefOf_StructToArray(t *testing.T) {
	p := point{X: 3, Y: -4}

	arr := RefOf[pair](&p)
	assert.Equal(t, pair{3, -4}, *arr)
}

func TestMutRefOf_WritesVisibleThroughSource(t *testing.T) {
	w := wrapper[int32]{v: 42}

	v := MutRefOf[int32](&w)
	*v++

	assert.Equal(t, int32(43), w.v)
}

func TestMutRefOf_FieldToWrapper(t *testing.T) {
	v := int32(1)

	w := MutRefOf[wrapper[int32]](&v)
	w.v = 100

	assert.Equal(t, int32(100), v)
}

func TestCloneOf_IsIndependent(t *testing.T) {
	p := point{X: 1, Y: 2}

	arr := CloneOf[pair](&p)
	arr[0] = 99

	assert.Equal(t, pair{99, 2}, arr)
	assert.Equal(t, point{X: 1, Y: 2}, p, "source must not change")
}

func TestCloneOf_DuplicatesHandles(t *testing.T) {
	// A slice header is copied bit for bit, so both values share one backing
	// array: this is the documented hazard, not something CloneOf prevents.
	src := wrapper[[]int]{v: []int{1, 2, 3}}

	dup := CloneOf[[]int](&src)
	dup[0] = 10

	assert.Equal(t, 10, src.v[0])
}

func TestEndToEnd_Wrapper42(t *testing.T) {
	w := wrapper[int32]{v: 42}

	require.Equal(t, int32(42), *RefOf[int32](&w))
	before := CloneOf[int32](&w)

	*MutRefOf[int32](&w) += 1
	after := CloneOf[int32](&w)

	assert.Equal(t, int32(42), before)
	assert.Equal(t, int32(43), after)
	assert.Equal(t, int32(43), w.v)
}

func TestSizeofAlignof(t *testing.T) {
	assert.Equal(t, uintptr(8), Sizeof[point]())
	assert.Equal(t, Sizeof[point](), Sizeof[pair]())
	assert.Equal(t, Alignof[point](), Alignof[pair]())
	assert.Equal(t, uintptr(0), Sizeof[Iso[int, int]]())
}
