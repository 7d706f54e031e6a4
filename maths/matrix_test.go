package maths

import "testing"

func TestDenseMatrixSwapRows(t *testing.T) {
	m := NewDenseMatrixFrom([][]complex128{
		{1, 2},
		{3, 4},
	})
	m.SwapRows(0, 1)
	if m.Get(0, 0) != 3 || m.Get(1, 1) != 2 {
		t.Errorf("希望交换后为 [[3 4] [1 2]], 得到 %v", m.ToDense())
	}
}

func TestDenseMatrixCopyIndependent(t *testing.T) {
	src := NewDenseMatrixFrom([][]float64{{1, 2}, {3, 4}})
	dst := NewDenseMatrix[float64](2, 2)
	src.Copy(dst)
	dst.Set(0, 0, 9)
	if src.Get(0, 0) != 1 {
		t.Errorf("复制后修改目标不应影响源矩阵")
	}
	if dst.Get(1, 1) != 4 {
		t.Errorf("希望复制全部元素, 得到 %v", dst.ToDense())
	}
}

func TestIndexMatrixView(t *testing.T) {
	base := NewDenseMatrixFrom([][]float64{
		{11, 12, 13},
		{21, 22, 23},
		{31, 32, 33},
	})
	v := NewIndexMatrix(base, []int{2, 0}, []int{1, 2})
	if v.Rows() != 2 || v.Cols() != 2 {
		t.Fatalf("希望视图为 2x2, 得到 %dx%d", v.Rows(), v.Cols())
	}
	if v.Get(0, 0) != 32 || v.Get(1, 1) != 13 {
		t.Errorf("视图取值错误: %v", v.ToDense())
	}
	v.Increment(1, 0, 100)
	if base.Get(0, 1) != 112 {
		t.Errorf("视图写入应作用于基础矩阵, 得到 %v", base.Get(0, 1))
	}
}

func TestMatrixVectorMultiply(t *testing.T) {
	m := NewDenseMatrixFrom([][]complex128{{1, 1i}, {0, 2}})
	x := NewDenseVectorWithData([]complex128{1, 1i})
	y := m.MatrixVectorMultiply(x)
	if y.Get(0) != 0 || y.Get(1) != 2i {
		t.Errorf("A*x = %v", y.ToDense())
	}
}
