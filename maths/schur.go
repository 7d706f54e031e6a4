package maths

import "fmt"

// matrixMultiplySubtract 执行矩阵运算 C = C - A * B。
func matrixMultiplySubtract[T Number](C, A, B Matrix[T]) {
	rowsC, colsC := C.Rows(), C.Cols()
	rowsA, colsA := A.Rows(), A.Cols()
	rowsB, colsB := B.Rows(), B.Cols()

	if colsA != rowsB || rowsA != rowsC || colsB != colsC {
		panic("matrix dimension mismatch for multiply-subtract")
	}

	for i := 0; i < rowsA; i++ {
		for j := 0; j < colsB; j++ {
			var sum T
			for k := 0; k < colsA; k++ {
				sum += A.Get(i, k) * B.Get(k, j)
			}
			C.Increment(i, j, -sum)
		}
	}
}

// SchurComplement 计算舒尔补 A[keep,keep] - A[keep,drop]·A[drop,drop]⁻¹·A[drop,keep]。
// 结果行列顺序与 keep 一致；drop 为空时返回 A[keep,keep] 的副本。
// A[drop,drop] 通过带部分主元的LU分解逐列求解，不显式求逆。
func SchurComplement[T Number](a Matrix[T], keep, drop []int) (Matrix[T], error) {
	if !a.IsSquare() {
		return nil, fmt.Errorf("schur complement: matrix is %dx%d, want square", a.Rows(), a.Cols())
	}
	out := NewDenseMatrix[T](len(keep), len(keep))
	NewIndexMatrix(a, keep, keep).Copy(out)
	if len(drop) == 0 {
		return out, nil
	}

	lu, err := NewLU[T](len(drop))
	if err != nil {
		return nil, err
	}
	if err := lu.Decompose(NewIndexMatrix(a, drop, drop)); err != nil {
		return nil, err
	}
	// X = A_LL⁻¹·A_LG
	x, err := SolveMatrix(lu, NewIndexMatrix(a, drop, keep))
	if err != nil {
		return nil, err
	}
	matrixMultiplySubtract(out, NewIndexMatrix(a, keep, drop), x)
	return out, nil
}

// EliminateOne 单节点舒尔补：消去第 k 行/列，其余行列保持原顺序。
// 用于三绕组变压器星点等内部节点的逐个消去。
func EliminateOne[T Number](a Matrix[T], k int) (Matrix[T], error) {
	n := a.Rows()
	if k < 0 || k >= n {
		return nil, fmt.Errorf("eliminate: index %d out of range [0,%d)", k, n)
	}
	pivot := a.Get(k, k)
	if Abs(pivot) < Epsilon {
		return nil, ErrSingular
	}
	keep := make([]int, 0, n-1)
	for i := range n {
		if i != k {
			keep = append(keep, i)
		}
	}
	out := NewDenseMatrix[T](n-1, n-1)
	for r, i := range keep {
		aik := a.Get(i, k)
		for c, j := range keep {
			v := a.Get(i, j)
			if aik != 0 {
				v -= aik * a.Get(k, j) / pivot
			}
			out.Set(r, c, v)
		}
	}
	return out, nil
}

// Complement 返回 [0,n) 中不属于 idx 的索引（升序）
func Complement(n int, idx []int) []int {
	in := make([]bool, n)
	for _, i := range idx {
		if i >= 0 && i < n {
			in[i] = true
		}
	}
	out := make([]int, 0, n-len(idx))
	for i := range n {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

// Components 返回 idx 所诱导子图的连通分量（按非零元素连边）。
// 分量内保持 idx 中的相对顺序，分量按首元素出现顺序排列。
func Components[T Number](a Matrix[T], idx []int) [][]int {
	seen := make(map[int]bool, len(idx))
	member := make(map[int]bool, len(idx))
	for _, i := range idx {
		member[i] = true
	}
	var comps [][]int
	for _, start := range idx {
		if seen[start] {
			continue
		}
		seen[start] = true
		stack := []int{start}
		var comp []int
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, v)
			for _, w := range idx {
				if seen[w] || !member[w] {
					continue
				}
				if a.Get(v, w) != 0 || a.Get(w, v) != 0 {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
		comps = append(comps, orderLike(comp, idx))
	}
	return comps
}

func orderLike(comp, idx []int) []int {
	in := make(map[int]bool, len(comp))
	for _, v := range comp {
		in[v] = true
	}
	out := make([]int, 0, len(comp))
	for _, v := range idx {
		if in[v] {
			out = append(out, v)
		}
	}
	return out
}
