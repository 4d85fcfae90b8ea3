package gust

// Row/column utilities over the column-major matrix view: a flat device
// array reinterpreted with rows*cols elements where consecutive elements
// form a column. There is no separate matrix type. Negative row/column
// indices count from the end: index -1 is the last row or column.

// TileDim is the square tile edge used by Transpose to stage elements
// through fast local memory.
const TileDim = 16

// FillColumn sets every element of the given column to val. Columns are
// contiguous in column-major storage, so this is a plain range fill with
// no dedicated kernel.
func FillColumn[T Float](m Array[T], rows, cols, colIdx int, val T) error {
	if colIdx < 0 {
		colIdx += cols
	}
	return Fill(m.Range(rows*colIdx, rows), val)
}

// FillRow sets every element of the given row to val: one thread per
// column, each writing its column's element at the resolved row offset.
func FillRow[T Float](m Array[T], rows, cols, rowIdx int, val T) error {
	if rowIdx < 0 {
		rowIdx += rows
	}
	s := m.Slice()

	grid, block := KernelDim1D(cols)
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < cols {
			s[rows*idx+rowIdx] = val
		}
	})
	return Launch(kernel, grid, block)
}

// Transpose writes the transpose of the rows x cols matrix in into out,
// which must hold cols*rows elements. Each grid cell stages one TileDim
// square tile through a local buffer, then writes it back transposed, so
// both the read and the write sides walk memory column-contiguously.
// Threads outside the true matrix bounds skip their access on whichever
// side is out of range.
func Transpose[T Float](in Array[T], rows, cols int, out Array[T]) error {
	src := in.Slice()
	dst := out.Slice()

	grid := Dim3{X: tileCount(rows), Y: tileCount(cols), Z: 1}
	block := Dim3{X: 1, Y: 1, Z: 1}
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		var tile [TileDim][TileDim + 1]T
		r0 := tid.BlockIdx.X * TileDim
		c0 := tid.BlockIdx.Y * TileDim

		for tc := 0; tc < TileDim; tc++ {
			c := c0 + tc
			if c >= cols {
				break
			}
			for tr := 0; tr < TileDim; tr++ {
				r := r0 + tr
				if r >= rows {
					break
				}
				tile[tc][tr] = src[c*rows+r]
			}
		}

		for tr := 0; tr < TileDim; tr++ {
			r := r0 + tr
			if r >= rows {
				break
			}
			for tc := 0; tc < TileDim; tc++ {
				c := c0 + tc
				if c >= cols {
					break
				}
				dst[r*cols+c] = tile[tc][tr]
			}
		}
	})
	return Launch(kernel, grid, block)
}

// tileCount returns the tile-granular grid extent covering n elements.
func tileCount(n int) int {
	t := (n + TileDim - 1) / TileDim
	if t < 1 {
		t = 1
	}
	return t
}
