package element

import (
	"admittance/types"
)

// SynchronousMachine 同步电机
// 电机以内电势串联内阻抗 Ra + jXd 表示，Xd 为次暂态（或暂态）电抗。
type SynchronousMachine struct {
	Common
	Bus    types.BusID
	Ra, Xd float64
	P, Q   float64 // 出力（系统基准），用于计算内电势
}

// Type 类型
func (m *SynchronousMachine) Type() types.ElementType { return types.TypeSynchronousMachine }

// Terminals 端口母线
func (m *SynchronousMachine) Terminals() []types.BusID { return []types.BusID{m.Bus} }

// Impedance 内阻抗
func (m *SynchronousMachine) Impedance() complex128 { return complex(m.Ra, m.Xd) }

// Admittance 内导纳
func (m *SynchronousMachine) Admittance() complex128 { return 1 / m.Impedance() }

// Power 出力 S = P + jQ
func (m *SynchronousMachine) Power() complex128 { return complex(m.P, m.Q) }

// Validate 参数检查
func (m *SynchronousMachine) Validate() error {
	if err := finite(m.Name, m.Ra, m.Xd, m.P, m.Q); err != nil {
		return err
	}
	if isShort(m.Impedance()) {
		return &types.InvalidParameterError{ID: m.Name, Reason: "zero internal impedance"}
	}
	return nil
}
