package gf2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/remiblancher/mceliece/internal/randutil"
)

// maxRegularAttempts caps the draws in NewRandomRegularMatrixAndInverse.
// A random square binary matrix is invertible with probability above 0.28.
const maxRegularAttempts = 256

var (
	// ErrSingular is returned when a matrix has no inverse.
	ErrSingular = errors.New("gf2: matrix is singular")

	// ErrRankDeficient is returned when a matrix cannot be brought into
	// systematic form because its rank is below its row count.
	ErrRankDeficient = errors.New("gf2: matrix rank is below its row count")

	// ErrRegularSearchExhausted is returned when no invertible matrix was
	// drawn within the attempt cap.
	ErrRegularSearchExhausted = errors.New("gf2: invertible matrix search exhausted")
)

// Matrix is a dense binary matrix stored row by row.
type Matrix struct {
	rows, cols int
	data       [][]uint64
}

// NewMatrix returns the rows x cols zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic("gf2: negative matrix dimension")
	}
	data := make([][]uint64, rows)
	w := wordsFor(cols)
	for i := range data {
		data[i] = make([]uint64, w)
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// NewIdentityMatrix returns the n x n identity.
func NewIdentityMatrix(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i>>6] |= uint64(1) << uint(i&63)
	}
	return m
}

// NewRandomMatrix returns a uniformly random rows x cols matrix.
func NewRandomMatrix(rows, cols int, r io.Reader) (*Matrix, error) {
	r = randutil.Reader(r)
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		v, err := NewRandomVector(cols, r)
		if err != nil {
			return nil, err
		}
		copy(m.data[i], v.words)
	}
	return m, nil
}

// NewRandomRegularMatrixAndInverse draws random k x k matrices until one is
// invertible and returns it together with its inverse.
func NewRandomRegularMatrixAndInverse(k int, r io.Reader) (s, sInv *Matrix, err error) {
	r = randutil.Reader(r)
	for attempt := 0; attempt < maxRegularAttempts; attempt++ {
		s, err = NewRandomMatrix(k, k, r)
		if err != nil {
			return nil, nil, err
		}
		sInv, err = s.Inverse()
		if err == nil {
			return s, sInv, nil
		}
		if !errors.Is(err, ErrSingular) {
			return nil, nil, err
		}
	}
	return nil, nil, ErrRegularSearchExhausted
}

// MatrixFromBytes decodes a matrix written by Bytes.
func MatrixFromBytes(b []byte) (*Matrix, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("%w: matrix header truncated", ErrInvalidLength)
	}
	rows := int(binary.LittleEndian.Uint32(b[0:4]))
	cols := int(binary.LittleEndian.Uint32(b[4:8]))
	if cols == 0 && rows != 0 {
		return nil, fmt.Errorf("%w: %d rows without columns", ErrInvalidLength, rows)
	}
	rowLen := (cols + 7) / 8
	if uint64(len(b)-8) != uint64(rows)*uint64(rowLen) {
		return nil, fmt.Errorf("%w: %d bytes for a %dx%d matrix", ErrInvalidLength, len(b), rows, cols)
	}
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		v, err := VectorFromBytes(cols, b[8+i*rowLen:8+(i+1)*rowLen])
		if err != nil {
			return nil, err
		}
		m.data[i] = v.words
	}
	return m, nil
}

// Bytes encodes the row and column counts as 4-byte little-endian integers
// followed by each row in vector byte order.
func (m *Matrix) Bytes() []byte {
	rowLen := (m.cols + 7) / 8
	out := make([]byte, 8, 8+m.rows*rowLen)
	binary.LittleEndian.PutUint32(out[0:4], uint32(m.rows))
	binary.LittleEndian.PutUint32(out[4:8], uint32(m.cols))
	for i := 0; i < m.rows; i++ {
		out = append(out, m.Row(i).Bytes()...)
	}
	return out
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Bit returns entry (i, j).
func (m *Matrix) Bit(i, j int) uint {
	return uint(m.data[i][j>>6]>>uint(j&63)) & 1
}

// SetBit sets entry (i, j) to b&1.
func (m *Matrix) SetBit(i, j int, b uint) {
	mask := uint64(1) << uint(j&63)
	if b&1 != 0 {
		m.data[i][j>>6] |= mask
	} else {
		m.data[i][j>>6] &^= mask
	}
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) *Vector {
	return &Vector{n: m.cols, words: append([]uint64(nil), m.data[i]...)}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([][]uint64, m.rows)}
	for i, row := range m.data {
		c.data[i] = append([]uint64(nil), row...)
	}
	return c
}

// Transpose returns m^T.
func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if m.data[i][j>>6]&(uint64(1)<<uint(j&63)) != 0 {
				t.data[j][i>>6] |= uint64(1) << uint(i&63)
			}
		}
	}
	return t
}

// Multiply returns m * b.
func (m *Matrix) Multiply(b *Matrix) *Matrix {
	if m.cols != b.rows {
		panic(fmt.Sprintf("gf2: cannot multiply %dx%d by %dx%d", m.rows, m.cols, b.rows, b.cols))
	}
	out := NewMatrix(m.rows, b.cols)
	for i := 0; i < m.rows; i++ {
		dst := out.data[i]
		for j := 0; j < m.cols; j++ {
			if m.data[i][j>>6]&(uint64(1)<<uint(j&63)) == 0 {
				continue
			}
			for w, x := range b.data[j] {
				dst[w] ^= x
			}
		}
	}
	return out
}

// MultiplyVector returns m * v^T as a vector of length Rows().
func (m *Matrix) MultiplyVector(v *Vector) *Vector {
	if v.n != m.cols {
		panic(fmt.Sprintf("gf2: vector length %d != matrix columns %d", v.n, m.cols))
	}
	out := NewVector(m.rows)
	for i, row := range m.data {
		var acc uint64
		for w, x := range row {
			acc ^= x & v.words[w]
		}
		if bits.OnesCount64(acc)&1 != 0 {
			out.words[i>>6] |= uint64(1) << uint(i&63)
		}
	}
	return out
}

// LeftMultiply returns v * m as a vector of length Cols().
func (m *Matrix) LeftMultiply(v *Vector) *Vector {
	if v.n != m.rows {
		panic(fmt.Sprintf("gf2: vector length %d != matrix rows %d", v.n, m.rows))
	}
	out := NewVector(m.cols)
	for i, row := range m.data {
		if v.words[i>>6]&(uint64(1)<<uint(i&63)) == 0 {
			continue
		}
		for w, x := range row {
			out.words[w] ^= x
		}
	}
	return out
}

// LeftMultiplyLeftCompactForm returns v * [m | I], that is v*m || v.
func (m *Matrix) LeftMultiplyLeftCompactForm(v *Vector) *Vector {
	return m.LeftMultiply(v).Concat(v)
}

// ExtendLeftCompactForm returns [m | I].
func (m *Matrix) ExtendLeftCompactForm() *Matrix {
	out := NewMatrix(m.rows, m.cols+m.rows)
	for i := 0; i < m.rows; i++ {
		copy(out.data[i], m.data[i])
		j := m.cols + i
		out.data[i][j>>6] |= uint64(1) << uint(j&63)
	}
	return out
}

// PermuteColumns returns the matrix whose column i is column p[i] of m.
func (m *Matrix) PermuteColumns(p *Permutation) *Matrix {
	if p.Len() != m.cols {
		panic(fmt.Sprintf("gf2: permutation length %d != matrix columns %d", p.Len(), m.cols))
	}
	out := NewMatrix(m.rows, m.cols)
	for i, src := range p.perm {
		sw, sb := src>>6, uint(src&63)
		dw, db := i>>6, uint(i&63)
		for r := 0; r < m.rows; r++ {
			out.data[r][dw] |= ((m.data[r][sw] >> sb) & 1) << db
		}
	}
	return out
}

// LeftSubMatrix returns the leftmost Rows() x Rows() block.
func (m *Matrix) LeftSubMatrix() *Matrix {
	return m.columnRange(0, m.rows)
}

// RightSubMatrix returns the block right of the leftmost Rows() columns.
func (m *Matrix) RightSubMatrix() *Matrix {
	return m.columnRange(m.rows, m.cols-m.rows)
}

func (m *Matrix) columnRange(from, n int) *Matrix {
	if from < 0 || n < 0 || from+n > m.cols {
		panic(fmt.Sprintf("gf2: column range [%d, %d) outside %d columns", from, from+n, m.cols))
	}
	out := NewMatrix(m.rows, n)
	for r := 0; r < m.rows; r++ {
		for j := 0; j < n; j++ {
			s := from + j
			out.data[r][j>>6] |= ((m.data[r][s>>6] >> uint(s&63)) & 1) << uint(j&63)
		}
	}
	return out
}

// Inverse returns m^-1 by Gauss-Jordan elimination.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		panic(fmt.Sprintf("gf2: cannot invert %dx%d matrix", m.rows, m.cols))
	}
	a := m.Clone()
	inv := NewIdentityMatrix(m.rows)
	for i := 0; i < m.rows; i++ {
		w, mask := i>>6, uint64(1)<<uint(i&63)
		pivot := -1
		for j := i; j < m.rows; j++ {
			if a.data[j][w]&mask != 0 {
				pivot = j
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingular
		}
		a.data[i], a.data[pivot] = a.data[pivot], a.data[i]
		inv.data[i], inv.data[pivot] = inv.data[pivot], inv.data[i]
		for j := 0; j < m.rows; j++ {
			if j != i && a.data[j][w]&mask != 0 {
				xorRow(a.data[j], a.data[i])
				xorRow(inv.data[j], inv.data[i])
			}
		}
	}
	return inv, nil
}

// SystematicForm brings m*P into the form [I | R] by Gauss-Jordan
// elimination. When a column has no pivot it is swapped with a later column
// that has one, and the swap is recorded in the permutation. It returns the
// reduced matrix and the final permutation Q, so that the reduced matrix is
// row-equivalent to m.PermuteColumns(Q).
func (m *Matrix) SystematicForm(p *Permutation) (*Matrix, *Permutation, error) {
	if m.rows > m.cols {
		return nil, nil, ErrRankDeficient
	}
	a := m.PermuteColumns(p)
	perm := p.Slice()

	for i := 0; i < m.rows; i++ {
		pivot := a.findPivot(i, i)
		if pivot < 0 {
			col := -1
			for c := i + 1; c < m.cols; c++ {
				if pivot = a.findPivot(i, c); pivot >= 0 {
					col = c
					break
				}
			}
			if col < 0 {
				return nil, nil, ErrRankDeficient
			}
			a.swapColumns(i, col)
			perm[i], perm[col] = perm[col], perm[i]
		}
		a.data[i], a.data[pivot] = a.data[pivot], a.data[i]

		w, mask := i>>6, uint64(1)<<uint(i&63)
		for j := 0; j < m.rows; j++ {
			if j != i && a.data[j][w]&mask != 0 {
				xorRow(a.data[j], a.data[i])
			}
		}
	}
	return a, &Permutation{perm: perm}, nil
}

// findPivot returns the first row >= from with a one in column col, or -1.
func (m *Matrix) findPivot(from, col int) int {
	w, mask := col>>6, uint64(1)<<uint(col&63)
	for r := from; r < m.rows; r++ {
		if m.data[r][w]&mask != 0 {
			return r
		}
	}
	return -1
}

func (m *Matrix) swapColumns(a, b int) {
	aw, ab := a>>6, uint(a&63)
	bw, bb := b>>6, uint(b&63)
	for _, row := range m.data {
		x := (row[aw] >> ab) & 1
		y := (row[bw] >> bb) & 1
		if x != y {
			row[aw] ^= uint64(1) << ab
			row[bw] ^= uint64(1) << bb
		}
	}
}

func xorRow(dst, src []uint64) {
	for i, x := range src {
		dst[i] ^= x
	}
}

// IsIdentity reports whether m is a square identity matrix.
func (m *Matrix) IsIdentity() bool {
	return m.rows == m.cols && m.Equal(NewIdentityMatrix(m.rows))
}

// Equal reports whether m and b have the same dimensions and entries.
func (m *Matrix) Equal(b *Matrix) bool {
	if m == nil || b == nil {
		return m == b
	}
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i := range m.data {
		for w := range m.data[i] {
			if m.data[i][w] != b.data[i][w] {
				return false
			}
		}
	}
	return true
}

// String renders one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d matrix\n", m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		sb.WriteString(m.Row(i).String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
