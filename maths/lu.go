package maths

import "errors"

// ErrSingular 分解时主元为零
var ErrSingular = errors.New("lu dense decompose: matrix is singular or nearly singular")

// NewLU 创建稠密矩阵LU分解器（输入矩阵维度n）
// 参数:
//
//	n - 矩阵维度（必须为正整数）
//
// 返回:
//
//	LU接口实例，错误信息
func NewLU[T Number](n int) (LU[T], error) {
	if n < 1 {
		return nil, errors.New("lu dimension must be positive")
	}
	return &luDense[T]{
		baseLU: baseLU[T]{
			n:        n,
			L:        NewDenseMatrix[T](n, n),
			U:        NewDenseMatrix[T](n, n),
			Y:        NewDenseVector[T](n),
			P:        make([]int, n),
			pinverse: make([]int, n),
		},
	}, nil
}

// baseLU 公共LU分解结构体（存储共用字段）
// 实现PA = LU分解，其中：
//
//	P - 置换矩阵（用向量表示）
//	L - 单位下三角矩阵（对角线为1）
//	U - 上三角矩阵
type baseLU[T Number] struct {
	n        int       // 矩阵维度（方阵n×n）
	L        Matrix[T] // 下三角矩阵L（L[i][i]=1，严格下三角存储消元因子）
	U        Matrix[T] // 上三角矩阵U（存储消元后上三角元素）
	Y        Vector[T] // 中间变量：存储前向替换结果Ly=Pb
	P        []int     // 置换向量：P[i] = 分解后第i行对应的原始矩阵行索引
	pinverse []int     // 逆置换向量：pinverse[i] = 原始第i行对应的分解后行索引
}

// Dim 获取矩阵维度
func (lu *baseLU[T]) Dim() int {
	return lu.n
}

// init 初始化置换向量和L矩阵的对角线
// 功能:
//  1. 清零L矩阵，将输入矩阵A拷贝到U矩阵
//  2. 初始化置换向量P和pinverse为单位置换
//  3. 设置L矩阵对角线为1
func (lu *baseLU[T]) init(matrix Matrix[T]) {
	lu.L.Zero()
	matrix.Copy(lu.U) // 后续在U上进行原位消元
	for i := 0; i < lu.n; i++ {
		lu.P[i] = i
		lu.pinverse[i] = i
		lu.L.Set(i, i, 1)
	}
}

// updatePermutation 交换置换向量并同步更新逆置换
func (lu *baseLU[T]) updatePermutation(k, maxRow int) {
	lu.P[k], lu.P[maxRow] = lu.P[maxRow], lu.P[k]
	lu.pinverse[lu.P[k]] = k
	lu.pinverse[lu.P[maxRow]] = maxRow
}

// luDense 稠密矩阵LU分解实现（PA=LU，带部分主元）
type luDense[T Number] struct {
	baseLU[T]
}

// Decompose 执行稠密矩阵LU分解（高斯消元+部分主元）
// 参数:
//
//	matrix - 输入矩阵A（必须为方阵）
//
// 返回:
//
//	错误信息（如果矩阵奇异或维度不匹配）
//
// 算法步骤:
//  1. 初始化：拷贝A到U，初始化P、pinverse和L
//  2. 对每一列k（0到n-1）:
//     a. 部分主元选择：在U的当前列k中找[k, n-1]行模最大的元素
//     b. 行交换：交换U的行，交换L的前k-1列，更新置换向量
//     c. 高斯消元：计算消元因子存入L，更新U矩阵
func (lu *luDense[T]) Decompose(matrix Matrix[T]) error {
	if !matrix.IsSquare() {
		return errors.New("lu dense decompose: input must be square matrix")
	}
	if matrix.Rows() != lu.n {
		return errors.New("lu dense decompose: matrix dimension mismatch")
	}

	lu.init(matrix)

	for k := 0; k < lu.n; k++ {
		// 部分主元选择
		maxRow := k
		maxAbsVal := Abs(lu.U.Get(k, k))
		for i := k + 1; i < lu.n; i++ {
			if v := Abs(lu.U.Get(i, k)); v > maxAbsVal {
				maxAbsVal = v
				maxRow = i
			}
		}
		if maxAbsVal < Epsilon {
			return ErrSingular
		}

		if maxRow != k {
			lu.U.SwapRows(k, maxRow)
			// 只交换已填充的消元因子
			for j := 0; j < k; j++ {
				val1 := lu.L.Get(k, j)
				val2 := lu.L.Get(maxRow, j)
				lu.L.Set(k, j, val2)
				lu.L.Set(maxRow, j, val1)
			}
			lu.updatePermutation(k, maxRow)
		}

		pivotVal := lu.U.Get(k, k)
		for i := k + 1; i < lu.n; i++ {
			uik := lu.U.Get(i, k)
			if uik == 0 {
				continue
			}
			factor := uik / pivotVal
			lu.L.Set(i, k, factor)
			lu.U.Set(i, k, 0)

			// U[i][j] -= 因子 * U[k][j]（j >= k+1）
			for j := k + 1; j < lu.n; j++ {
				lu.U.Increment(i, j, -factor*lu.U.Get(k, j))
			}
		}
	}
	return nil
}

// SolveReuse 利用分解结果求解Ax=b（重用预分配向量）
// 数学步骤:
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
//
// 解x已经是原始顺序，无需额外重新排序
func (lu *luDense[T]) SolveReuse(b, x Vector[T]) error {
	if b.Length() != lu.n || x.Length() != lu.n {
		return errors.New("lu dense solve: vector dimension mismatch")
	}

	lu.Y.Zero()
	for i := 0; i < lu.n; i++ {
		sum := b.Get(lu.P[i])
		for j := 0; j < i; j++ {
			sum -= lu.L.Get(i, j) * lu.Y.Get(j)
		}
		lu.Y.Set(i, sum)
	}

	x.Zero()
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.Y.Get(i)
		for j := i + 1; j < lu.n; j++ {
			sum -= lu.U.Get(i, j) * x.Get(j)
		}
		diagVal := lu.U.Get(i, i)
		if Abs(diagVal) < Epsilon {
			return errors.New("lu dense solve: division by zero (U diagonal is zero)")
		}
		x.Set(i, sum/diagVal)
	}

	return nil
}

// SolveMatrix 逐列求解 AX = B，返回新矩阵X
func SolveMatrix[T Number](lu LU[T], b Matrix[T]) (Matrix[T], error) {
	n := lu.Dim()
	if b.Rows() != n {
		return nil, errors.New("lu dense solve: matrix dimension mismatch")
	}
	x := NewDenseMatrix[T](n, b.Cols())
	col := NewDenseVector[T](n)
	sol := NewDenseVector[T](n)
	for j := range b.Cols() {
		for i := range n {
			col.Set(i, b.Get(i, j))
		}
		if err := lu.SolveReuse(col, sol); err != nil {
			return nil, err
		}
		for i := range n {
			x.Set(i, j, sol.Get(i))
		}
	}
	return x, nil
}
