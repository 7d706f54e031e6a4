package maths

import (
	"fmt"
	"strings"
)

// denseMatrix 稠密矩阵实现（行优先，全量存储所有元素）
type denseMatrix[T Number] struct {
	data       DataManager[T]
	rows, cols int
}

// NewDenseMatrix 创建指定维度的空稠密矩阵
func NewDenseMatrix[T Number](rows, cols int) Matrix[T] {
	if rows < 0 || cols < 0 {
		panic("invalid matrix dimensions: cannot be negative")
	}
	return &denseMatrix[T]{
		data: NewDataManager[T](rows * cols),
		rows: rows,
		cols: cols,
	}
}

// NewDenseMatrixFrom 从二维切片创建稠密矩阵（复制数据）
func NewDenseMatrixFrom[T Number](dense [][]T) Matrix[T] {
	rows := len(dense)
	cols := 0
	if rows > 0 {
		cols = len(dense[0])
	}
	m := NewDenseMatrix[T](rows, cols)
	m.BuildFromDense(dense)
	return m
}

// NewIdentity 创建 n 阶单位矩阵
func NewIdentity[T Number](n int) Matrix[T] {
	m := NewDenseMatrix[T](n, n)
	for i := range n {
		m.Set(i, i, 1)
	}
	return m
}

func (m *denseMatrix[T]) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: (%d, %d) with size %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Rows 返回矩阵行数
func (m *denseMatrix[T]) Rows() int { return m.rows }

// Cols 返回矩阵列数
func (m *denseMatrix[T]) Cols() int { return m.cols }

// IsSquare 判断是否为方阵
func (m *denseMatrix[T]) IsSquare() bool { return m.rows == m.cols }

// Get 获取指定行列元素值（越界panic）
func (m *denseMatrix[T]) Get(row, col int) T {
	return m.data.Get(m.index(row, col))
}

// Set 设置指定行列元素值（越界panic）
func (m *denseMatrix[T]) Set(row, col int, value T) {
	m.data.Set(m.index(row, col), value)
}

// Increment 增量更新矩阵元素（value累加，越界panic）
func (m *denseMatrix[T]) Increment(row, col int, value T) {
	m.data.Increment(m.index(row, col), value)
}

// ToDense 返回二维切片副本
func (m *denseMatrix[T]) ToDense() [][]T {
	out := make([][]T, m.rows)
	raw := m.data.DataPtr()
	for i := range m.rows {
		out[i] = make([]T, m.cols)
		copy(out[i], raw[i*m.cols:(i+1)*m.cols])
	}
	return out
}

// BuildFromDense 从稠密矩阵构建（覆盖原有数据）
func (m *denseMatrix[T]) BuildFromDense(dense [][]T) {
	if len(dense) != m.rows {
		panic("dense matrix dimension mismatch")
	}
	for i, row := range dense {
		if len(row) != m.cols {
			panic("dense matrix dimension mismatch")
		}
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
}

// Zero 清空矩阵为零矩阵
func (m *denseMatrix[T]) Zero() {
	m.data.Zero()
}

// Copy 复制自身数据到目标矩阵
func (m *denseMatrix[T]) Copy(a Matrix[T]) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	if target, ok := a.(*denseMatrix[T]); ok {
		m.data.Copy(target.data)
		return
	}
	for i := range m.rows {
		for j := range m.cols {
			a.Set(i, j, m.Get(i, j))
		}
	}
}

// SwapRows 交换两行
func (m *denseMatrix[T]) SwapRows(row1, row2 int) {
	if row1 == row2 {
		return
	}
	raw := m.data.DataPtr()
	r1 := raw[m.index(row1, 0) : m.index(row1, 0)+m.cols]
	r2 := raw[m.index(row2, 0) : m.index(row2, 0)+m.cols]
	for j := range r1 {
		r1[j], r2[j] = r2[j], r1[j]
	}
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，返回新向量）
func (m *denseMatrix[T]) MatrixVectorMultiply(x Vector[T]) Vector[T] {
	if x.Length() != m.cols {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, matrix cols=%d", x.Length(), m.cols))
	}
	result := NewDenseVector[T](m.rows)
	for i := range m.rows {
		var sum T
		for j := range m.cols {
			sum += m.Get(i, j) * x.Get(j)
		}
		result.Set(i, sum)
	}
	return result
}

// String 格式化输出矩阵
func (m *denseMatrix[T]) String() string {
	var sb strings.Builder
	for i := range m.rows {
		for j := range m.cols {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%v", m.Get(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Multiply 返回 A*B
func Multiply[T Number](a, b Matrix[T]) Matrix[T] {
	if a.Cols() != b.Rows() {
		panic("matrix dimension mismatch for multiply")
	}
	c := NewDenseMatrix[T](a.Rows(), b.Cols())
	for i := range a.Rows() {
		for k := range a.Cols() {
			aik := a.Get(i, k)
			if aik == 0 {
				continue
			}
			for j := range b.Cols() {
				c.Increment(i, j, aik*b.Get(k, j))
			}
		}
	}
	return c
}

// Equal 判断两个矩阵在容差内逐元素相等
func Equal[T Number](a, b Matrix[T], tol float64) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := range a.Rows() {
		for j := range a.Cols() {
			if Abs(a.Get(i, j)-b.Get(i, j)) > tol {
				return false
			}
		}
	}
	return true
}
