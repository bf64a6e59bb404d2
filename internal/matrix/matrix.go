// Package matrix provides a dense rows x cols array indexed by a
// pair.Pair[int], used by internal/subtype to hold one history entry per
// (left state, right state) pair visited during a subtype decision.
package matrix

import (
	"fmt"
	"strings"

	"github.com/dantte-lp/gosubtype/internal/pair"
)

// Matrix is a dense, row-major, bounds-checked rows x cols array.
type Matrix[T any] struct {
	dims  pair.Pair[int]
	cells []T
}

// New allocates a Matrix with the given dimensions, every cell initialized
// to zero.
func New[T any](dims pair.Pair[int], zero T) *Matrix[T] {
	cells := make([]T, dims.Left*dims.Right)
	for i := range cells {
		cells[i] = zero
	}
	return &Matrix[T]{dims: dims, cells: cells}
}

func (m *Matrix[T]) index(at pair.Pair[int]) int {
	if at.Left < 0 || at.Left >= m.dims.Left || at.Right < 0 || at.Right >= m.dims.Right {
		panic(fmt.Sprintf("matrix: index %+v out of bounds for dims %+v", at, m.dims))
	}
	return at.Left*m.dims.Right + at.Right
}

// Get returns the value stored at the given (row, col) pair.
func (m *Matrix[T]) Get(at pair.Pair[int]) T {
	return m.cells[m.index(at)]
}

// Set stores value at the given (row, col) pair.
func (m *Matrix[T]) Set(at pair.Pair[int], value T) {
	m.cells[m.index(at)] = value
}

// Dims returns the matrix's (rows, cols) dimensions.
func (m *Matrix[T]) Dims() pair.Pair[int] {
	return m.dims
}

// String renders the matrix as nested bracketed rows, mirroring the
// reference implementation's Debug output, for diagnostics.
func (m *Matrix[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for row := 0; row < m.dims.Left; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for col := 0; col < m.dims.Right; col++ {
			if col > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v", m.Get(pair.New(row, col)))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
