package maths

import (
	"fmt"
	"strings"
)

// subMatrix 提供了对另一个矩阵按行/列索引集合选取的视图。
// 它实现了 Matrix 接口，读写直接作用于基础矩阵，不复制底层数据。
type subMatrix[T Number] struct {
	baseMatrix Matrix[T] // 原始矩阵
	rowIndex   []int     // 视图行 -> 基础矩阵行
	colIndex   []int     // 视图列 -> 基础矩阵列
}

// NewIndexMatrix 创建由任意行/列索引集合组成的子矩阵视图。
// 索引顺序即视图中的顺序，可用于重排。
func NewIndexMatrix[T Number](base Matrix[T], rows, cols []int) Matrix[T] {
	if base == nil {
		panic("base matrix cannot be nil")
	}
	for _, r := range rows {
		if r < 0 || r >= base.Rows() {
			panic(fmt.Sprintf("sub-matrix row %d exceeds base matrix boundaries", r))
		}
	}
	for _, c := range cols {
		if c < 0 || c >= base.Cols() {
			panic(fmt.Sprintf("sub-matrix col %d exceeds base matrix boundaries", c))
		}
	}
	return &subMatrix[T]{
		baseMatrix: base,
		rowIndex:   append([]int(nil), rows...),
		colIndex:   append([]int(nil), cols...),
	}
}

// checkBounds 检查给定的行和列索引是否在子矩阵的边界内。
func (m *subMatrix[T]) checkBounds(row, col int) {
	if row < 0 || row >= len(m.rowIndex) || col < 0 || col >= len(m.colIndex) {
		panic(fmt.Sprintf("sub-matrix index out of range: (%d, %d) with size %dx%d", row, col, len(m.rowIndex), len(m.colIndex)))
	}
}

// Rows 返回子矩阵的行数。
func (m *subMatrix[T]) Rows() int { return len(m.rowIndex) }

// Cols 返回子矩阵的列数。
func (m *subMatrix[T]) Cols() int { return len(m.colIndex) }

// IsSquare 检查子矩阵是否为方阵。
func (m *subMatrix[T]) IsSquare() bool { return len(m.rowIndex) == len(m.colIndex) }

func (m *subMatrix[T]) String() string {
	var sb strings.Builder
	for r := range m.Rows() {
		for c := range m.Cols() {
			fmt.Fprintf(&sb, "%v ", m.Get(r, c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Get 获取子矩阵中指定位置的元素值。
func (m *subMatrix[T]) Get(row, col int) T {
	m.checkBounds(row, col)
	return m.baseMatrix.Get(m.rowIndex[row], m.colIndex[col])
}

// Set 设置子矩阵中指定位置的元素值。
func (m *subMatrix[T]) Set(row, col int, value T) {
	m.checkBounds(row, col)
	m.baseMatrix.Set(m.rowIndex[row], m.colIndex[col], value)
}

// Increment 增加子矩阵中指定位置的元素值。
func (m *subMatrix[T]) Increment(row, col int, value T) {
	m.checkBounds(row, col)
	m.baseMatrix.Increment(m.rowIndex[row], m.colIndex[col], value)
}

// ToDense 将子矩阵复制为二维切片。
func (m *subMatrix[T]) ToDense() [][]T {
	out := make([][]T, m.Rows())
	for r := range out {
		out[r] = make([]T, m.Cols())
		for c := range out[r] {
			out[r][c] = m.Get(r, c)
		}
	}
	return out
}

// BuildFromDense 用一个二维切片的数据填充子矩阵。
func (m *subMatrix[T]) BuildFromDense(dense [][]T) {
	if len(dense) != m.Rows() {
		panic("dense matrix dimension mismatch")
	}
	for r := range dense {
		if len(dense[r]) != m.Cols() {
			panic("dense matrix dimension mismatch")
		}
		for c := range dense[r] {
			m.Set(r, c, dense[r][c])
		}
	}
}

// Zero 将子矩阵视图区域内的所有元素设置为零。
func (m *subMatrix[T]) Zero() {
	var zero T
	for r := range m.Rows() {
		for c := range m.Cols() {
			m.Set(r, c, zero)
		}
	}
}

// Copy 将子矩阵的内容复制到目标矩阵 `a`。
func (m *subMatrix[T]) Copy(a Matrix[T]) {
	if a.Rows() != m.Rows() || a.Cols() != m.Cols() {
		panic("dimension mismatch for copy")
	}
	for r := range m.Rows() {
		for c := range m.Cols() {
			a.Set(r, c, m.Get(r, c))
		}
	}
}

// SwapRows 交换视图中的两行（只交换索引，不移动基础数据）。
func (m *subMatrix[T]) SwapRows(row1, row2 int) {
	m.checkBounds(row1, 0)
	m.checkBounds(row2, 0)
	m.rowIndex[row1], m.rowIndex[row2] = m.rowIndex[row2], m.rowIndex[row1]
}

// MatrixVectorMultiply 计算子矩阵与向量的乘积。
func (m *subMatrix[T]) MatrixVectorMultiply(x Vector[T]) Vector[T] {
	if x.Length() != m.Cols() {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, matrix cols=%d", x.Length(), m.Cols()))
	}
	result := NewDenseVector[T](m.Rows())
	for i := range m.Rows() {
		var sum T
		for j := range m.Cols() {
			sum += m.Get(i, j) * x.Get(j)
		}
		result.Set(i, sum)
	}
	return result
}
