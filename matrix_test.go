package gust

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillColumn(t *testing.T) {
	const rows, cols = 4, 3
	d, err := Alloc[float32](rows*cols, true)
	require.NoError(t, err)
	defer Free(d)
	m := View[float32](d, rows*cols)

	require.NoError(t, FillColumn(m, rows, cols, 1, 9))
	SynchronizeOrFail(t)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			want := float32(0)
			if c == 1 {
				want = 9
			}
			assert.Equal(t, want, m.Slice()[c*rows+r], "element (%d,%d)", r, c)
		}
	}
}

func TestFillRow(t *testing.T) {
	const rows, cols = 3, 5
	d, err := Alloc[float64](rows*cols, true)
	require.NoError(t, err)
	defer Free(d)
	m := View[float64](d, rows*cols)

	require.NoError(t, FillRow(m, rows, cols, 2, -4))
	SynchronizeOrFail(t)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			want := 0.0
			if r == 2 {
				want = -4
			}
			assert.Equal(t, want, m.Slice()[c*rows+r], "element (%d,%d)", r, c)
		}
	}
}

// A negative index counts from the last row/column.
func TestNegativeIndexResolution(t *testing.T) {
	const rows, cols = 5, 4

	dNeg, err := Alloc[float32](rows*cols, true)
	require.NoError(t, err)
	defer Free(dNeg)
	dPos, err := Alloc[float32](rows*cols, true)
	require.NoError(t, err)
	defer Free(dPos)
	neg := View[float32](dNeg, rows*cols)
	pos := View[float32](dPos, rows*cols)

	require.NoError(t, FillRow(neg, rows, cols, -1, 6))
	require.NoError(t, FillRow(pos, rows, cols, rows-1, 6))
	require.NoError(t, FillColumn(neg, rows, cols, -2, 8))
	require.NoError(t, FillColumn(pos, rows, cols, cols-2, 8))
	SynchronizeOrFail(t)

	assert.Equal(t, pos.Slice(), neg.Slice())
}

func TestTransposeSmall(t *testing.T) {
	// Column-major [1 3 2 4] is the 2x2 matrix [[1,2],[3,4]].
	d, in := DeviceArrayOrFail(t, []float32{1, 3, 2, 4})
	defer Free(d)
	dOut, err := Alloc[float32](4, false)
	require.NoError(t, err)
	defer Free(dOut)
	out := View[float32](dOut, 4)

	require.NoError(t, Transpose(in, 2, 2, out))
	SynchronizeOrFail(t)

	// Transpose [[1,3],[2,4]] stored column-major.
	assert.Equal(t, []float32{1, 2, 3, 4}, out.Slice())
}

func TestTransposeRoundTrip(t *testing.T) {
	shapes := []struct{ rows, cols int }{
		{1, 1},
		{2, 3},
		{5, 3},
		{16, 16},
		{17, 33},
		{64, 48},
		{100, 7},
	}

	rng := rand.New(rand.NewSource(11))
	for _, sh := range shapes {
		n := sh.rows * sh.cols
		host := make([]float64, n)
		for i := range host {
			host[i] = rng.NormFloat64()
		}

		d, m := DeviceArrayOrFail(t, host)
		dT, err := Alloc[float64](n, false)
		require.NoError(t, err)
		dBack, err := Alloc[float64](n, false)
		require.NoError(t, err)

		mT := View[float64](dT, n)
		back := View[float64](dBack, n)

		require.NoError(t, Transpose(m, sh.rows, sh.cols, mT))
		require.NoError(t, Transpose(mT, sh.cols, sh.rows, back))
		SynchronizeOrFail(t)

		assert.Equal(t, host, back.Slice(), "round trip failed for %dx%d", sh.rows, sh.cols)

		Free(d)
		Free(dT)
		Free(dBack)
	}
}

func TestTransposeRectangular(t *testing.T) {
	const rows, cols = 3, 2
	// [[1,4],[2,5],[3,6]] column-major.
	d, in := DeviceArrayOrFail(t, []float64{1, 2, 3, 4, 5, 6})
	defer Free(d)
	dOut, err := Alloc[float64](rows*cols, false)
	require.NoError(t, err)
	defer Free(dOut)
	out := View[float64](dOut, rows*cols)

	require.NoError(t, Transpose(in, rows, cols, out))
	SynchronizeOrFail(t)

	// [[1,2,3],[4,5,6]] column-major.
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out.Slice())
}
