package maths

import (
	"math"
	"math/cmplx"

	"golang.org/x/exp/constraints"
)

// Epsilon 主元判零阈值
const Epsilon = 1e-16

// Number 是一个约束，允许任何浮点或复数类型
type Number interface {
	constraints.Float | constraints.Complex
}

// Abs 返回任何支持的 Number 类型的绝对值（复数取模）。
func Abs[T Number](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}

// DataManager 一维数据管理器（底层存储核心）
type DataManager[T Number] interface {
	Length() int    // 获取数据长度
	String() string // 返回数据的字符串表示

	Get(index int) T              // 获取指定索引处的元素值
	Set(index int, value T)       // 设置指定索引处的元素值
	Increment(index int, value T) // 增量更新指定索引处的元素值

	DataCopy() []T // 返回数据的切片副本
	DataPtr() []T  // 返回数据的切片引用（直接操作底层数据）

	Zero()                      // 清空所有数据
	Copy(target DataManager[T]) // 复制数据到目标管理器
}

// Vector 向量接口定义
type Vector[T Number] interface {
	Length() int    // 获取向量长度
	String() string // 格式化字符串输出

	Get(index int) T              // 获取指定索引元素值
	Set(index int, value T)       // 设置指定索引元素值
	Increment(index int, value T) // 增量更新元素（value累加）

	ToDense() []T     // 转换为稠密切片
	Zero()            // 清空向量为零向量
	Copy(a Vector[T]) // 复制自身数据到目标向量a
}

// Matrix 矩阵接口定义
type Matrix[T Number] interface {
	Rows() int      // 获取矩阵行数
	Cols() int      // 获取矩阵列数
	String() string // 格式化字符串输出
	IsSquare() bool // 判断是否为方阵（行数=列数）

	Get(row, col int) T              // 获取指定行列元素值
	Set(row, col int, value T)       // 设置指定行列元素值
	Increment(row, col int, value T) // 增量更新元素

	ToDense() [][]T             // 转换为二维切片副本
	BuildFromDense(dense [][]T) // 从稠密矩阵构建

	Zero()                   // 清空矩阵为零矩阵
	Copy(a Matrix[T])        // 复制自身数据到目标矩阵a
	SwapRows(row1, row2 int) // 交换两行

	MatrixVectorMultiply(x Vector[T]) Vector[T] // 矩阵向量乘法（返回A*x）
}

// LU 接口定义了 LU 分解和求解线性方程组的操作。
type LU[T Number] interface {
	Decompose(matrix Matrix[T]) error // 对输入方阵执行LU分解（PA=LU）
	SolveReuse(b, x Vector[T]) error  // 重用分解结果求解Ax=b
	Dim() int                         // 矩阵维度
}
