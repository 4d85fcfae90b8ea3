package gust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	d, x := DeviceArrayOrFail(t, []float64{0.2, -1.5, 3.7, 0, 2.2})
	defer Free(d)

	require.NoError(t, Softmax(x))
	SynchronizeOrFail(t)

	sum := 0.0
	for _, v := range x.Slice() {
		assert.Greater(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestSoftmaxUniform(t *testing.T) {
	d, x := DeviceArrayOrFail(t, []float32{0, 0, 0})
	defer Free(d)

	require.NoError(t, Softmax(x))
	SynchronizeOrFail(t)

	for _, v := range x.Slice() {
		assert.InDelta(t, 1.0/3.0, float64(v), 1e-6)
	}
}

func TestSoftmaxShiftInvariance(t *testing.T) {
	input := []float64{1, 2, 3, 4}
	shifted := []float64{101, 102, 103, 104}

	d1, x1 := DeviceArrayOrFail(t, input)
	defer Free(d1)
	d2, x2 := DeviceArrayOrFail(t, shifted)
	defer Free(d2)

	require.NoError(t, Softmax(x1))
	require.NoError(t, Softmax(x2))
	SynchronizeOrFail(t)

	for i := range input {
		assert.InDelta(t, x1.Slice()[i], x2.Slice()[i], 1e-12,
			"softmax not shift invariant at index %d", i)
	}
}

func TestSoftmaxToLeavesInputIntact(t *testing.T) {
	input := []float64{0.5, 1.5, -0.5}
	d, x := DeviceArrayOrFail(t, input)
	defer Free(d)
	dOut, err := Alloc[float64](len(input), false)
	require.NoError(t, err)
	defer Free(dOut)
	out := View[float64](dOut, len(input))

	require.NoError(t, SoftmaxTo(x, out))
	SynchronizeOrFail(t)

	assert.Equal(t, input, x.Slice())

	sum := 0.0
	for _, v := range out.Slice() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestSoftmaxMinusOneHot(t *testing.T) {
	input := []float64{0.7, -1.1, 2.3, 0.4}
	const label = 2

	d1, x := DeviceArrayOrFail(t, input)
	defer Free(d1)
	d2, ref := DeviceArrayOrFail(t, input)
	defer Free(d2)

	require.NoError(t, Softmax(ref))
	require.NoError(t, SoftmaxMinusOneHot(x, label))
	SynchronizeOrFail(t)

	for i := range input {
		want := ref.Slice()[i]
		if i == label {
			want--
		}
		assert.InDelta(t, want, x.Slice()[i], 1e-12, "gradient wrong at index %d", i)
	}

	// The gradient of a probability simplex sums to zero.
	sum := 0.0
	for _, v := range x.Slice() {
		sum += v
	}
	assert.InDelta(t, 0.0, sum, 1e-12)
}

func TestSoftmaxLogProbAt(t *testing.T) {
	input := []float64{0.3, 1.9, -2.4, 0.8}
	const label = 1

	d, x := DeviceArrayOrFail(t, input)
	defer Free(d)
	dOut, err := Alloc[float64](1, true)
	require.NoError(t, err)
	defer Free(dOut)
	outBuf := View[float64](dOut, 1)

	before := make([]uint64, len(input))
	for i, v := range x.Slice() {
		before[i] = math.Float64bits(v)
	}

	logProb := SoftmaxLogProbAt(x, label, outBuf)
	SynchronizeOrFail(t)

	// Input must be byte-for-byte untouched.
	for i, v := range x.Slice() {
		assert.Equal(t, before[i], math.Float64bits(v), "input mutated at index %d", i)
	}

	// Matches the full softmax at the label.
	dRef, ref := DeviceArrayOrFail(t, input)
	defer Free(dRef)
	require.NoError(t, Softmax(ref))
	SynchronizeOrFail(t)
	want := math.Log(ref.Slice()[label])

	assert.InDelta(t, want, logProb, 1e-12)
	assert.InDelta(t, want, outBuf.Slice()[0], 1e-12)
	assert.LessOrEqual(t, logProb, 0.0)
}

func TestFillRandNormalDeterministic(t *testing.T) {
	const n = 1024
	dA, err := Alloc[float64](n, false)
	require.NoError(t, err)
	defer Free(dA)
	dB, err := Alloc[float64](n, false)
	require.NoError(t, err)
	defer Free(dB)
	a := View[float64](dA, n)
	b := View[float64](dB, n)

	require.NoError(t, FillRandNormal(a, 0, 1))
	require.NoError(t, FillRandNormal(b, 0, 1))
	SynchronizeOrFail(t)

	// Fixed per-index stream positions make the fill reproducible.
	assert.Equal(t, a.Slice(), b.Slice())
}

func TestFillRandNormalMoments(t *testing.T) {
	const n = 100000
	const mean, stddev = 2.0, 3.0

	d, err := Alloc[float64](n, false)
	require.NoError(t, err)
	defer Free(d)
	x := View[float64](d, n)

	require.NoError(t, FillRandNormal(x, mean, stddev))
	SynchronizeOrFail(t)

	var sum, sumSq float64
	for _, v := range x.Slice() {
		sum += v
		sumSq += v * v
	}
	gotMean := sum / n
	gotStd := math.Sqrt(sumSq/n - gotMean*gotMean)

	assert.InDelta(t, mean, gotMean, 0.1)
	assert.InDelta(t, stddev, gotStd, 0.1)
}
