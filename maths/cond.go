package maths

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ToGonum 将实数部分写入 gonum 稠密矩阵；复数矩阵按
//
//	[ Re  -Im ]
//	[ Im   Re ]
//
// 展开为 2n×2n 实矩阵，其奇异值与原复矩阵相同（每个重复两次）。
func ToGonum[T Number](m Matrix[T]) *mat.Dense {
	r, c := m.Rows(), m.Cols()
	var zero T
	switch any(zero).(type) {
	case complex64, complex128:
		d := mat.NewDense(max(2*r, 1), max(2*c, 1), nil)
		for i := range r {
			for j := range c {
				v := complex128Of(m.Get(i, j))
				d.Set(i, j, real(v))
				d.Set(i, j+c, -imag(v))
				d.Set(i+r, j, imag(v))
				d.Set(i+r, j+c, real(v))
			}
		}
		return d
	}
	d := mat.NewDense(max(r, 1), max(c, 1), nil)
	for i := range r {
		for j := range c {
			d.Set(i, j, real(complex128Of(m.Get(i, j))))
		}
	}
	return d
}

func complex128Of[T Number](v T) complex128 {
	switch x := any(v).(type) {
	case float32:
		return complex(float64(x), 0)
	case float64:
		return complex(x, 0)
	case complex64:
		return complex128(x)
	case complex128:
		return x
	}
	return 0
}

// Cond 返回方阵的2-范数条件数，空矩阵为1，奇异矩阵为 +Inf。
func Cond[T Number](m Matrix[T]) float64 {
	if m.Rows() == 0 {
		return 1
	}
	c := mat.Cond(ToGonum(m), 2)
	if math.IsNaN(c) {
		return math.Inf(1)
	}
	return c
}
