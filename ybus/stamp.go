package ybus

import (
	"admittance/maths"
	"admittance/types"
)

// NodeID 导纳矩阵节点索引，types.Reference 表示零电位参考点
type NodeID = types.NodeID

// Stamp 加盖接口：所有贡献都是累加，从不覆盖已有值。
// 与参考点相关的行列被忽略，因此对参考点的支路只影响另一端的对角元。
type Stamp interface {
	// StampMatrix 将一个值加到矩阵的(i,j)元素上。
	StampMatrix(i, j NodeID, value complex128)

	// StampAdmittance 在两节点间加盖串联导纳 y：对角 +y，非对角 -y。
	StampAdmittance(n1, n2 NodeID, y complex128)

	// StampImpedance 在两节点间加盖串联阻抗 z（y = 1/z）。
	StampImpedance(n1, n2 NodeID, z complex128)

	// StampShunt 在节点上加盖对地导纳，只影响对角元。
	StampShunt(n NodeID, y complex128)

	// StampBlock 加盖 2x2 导纳块（变压器等非对称二端口）。
	StampBlock(n1, n2 NodeID, block [2][2]complex128)
}

// stampType Stamp 的稠密矩阵实现
type stampType struct {
	A maths.Matrix[complex128]
}

// newStamp 创建 n 阶零矩阵加盖器
func newStamp(n int) *stampType {
	return &stampType{A: maths.NewDenseMatrix[complex128](n, n)}
}

// StampMatrix 将一个值加到矩阵的(i,j)元素上。参考点索引将被忽略。
func (s *stampType) StampMatrix(i, j NodeID, value complex128) {
	if i > types.Reference && j > types.Reference {
		s.A.Increment(i, j, value)
	}
}

// StampAdmittance 加盖串联导纳
func (s *stampType) StampAdmittance(n1, n2 NodeID, y complex128) {
	s.StampMatrix(n1, n1, y)
	s.StampMatrix(n2, n2, y)
	s.StampMatrix(n1, n2, -y)
	s.StampMatrix(n2, n1, -y)
}

// StampImpedance 加盖串联阻抗，零阻抗不加盖（理想短接由节点合并处理）
func (s *stampType) StampImpedance(n1, n2 NodeID, z complex128) {
	if z == 0 {
		return
	}
	s.StampAdmittance(n1, n2, 1/z)
}

// StampShunt 加盖对地导纳
func (s *stampType) StampShunt(n NodeID, y complex128) {
	s.StampMatrix(n, n, y)
}

// StampBlock 加盖 2x2 导纳块
func (s *stampType) StampBlock(n1, n2 NodeID, block [2][2]complex128) {
	s.StampMatrix(n1, n1, block[0][0])
	s.StampMatrix(n1, n2, block[0][1])
	s.StampMatrix(n2, n1, block[1][0])
	s.StampMatrix(n2, n2, block[1][1])
}
