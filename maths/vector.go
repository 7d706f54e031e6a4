package maths

// denseVector 稠密向量实现
// 基于 DataManager 实现 Vector 接口
type denseVector[T Number] struct {
	DataManager[T]
}

// NewDenseVector 创建新的稠密向量
func NewDenseVector[T Number](length int) Vector[T] {
	return &denseVector[T]{
		DataManager: NewDataManager[T](length),
	}
}

// NewDenseVectorWithData 从现有数据创建稠密向量（不复制）
func NewDenseVectorWithData[T Number](data []T) Vector[T] {
	return &denseVector[T]{
		DataManager: NewDataManagerWithData(data),
	}
}

// ToDense 返回数据副本
func (v *denseVector[T]) ToDense() []T {
	return v.DataCopy()
}

// Copy 将自身值复制到 a 向量
func (v *denseVector[T]) Copy(a Vector[T]) {
	if target, ok := a.(*denseVector[T]); ok {
		v.DataManager.Copy(target.DataManager)
		return
	}
	if a.Length() != v.Length() {
		panic("denseVector.Copy: length mismatch")
	}
	for i := range v.Length() {
		a.Set(i, v.Get(i))
	}
}
