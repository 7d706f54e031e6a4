package element

import (
	"admittance/types"
)

// ACVoltageSource 交流电压源，只计内阻抗
type ACVoltageSource struct {
	Common
	Bus  types.BusID
	R, X float64
}

// Type 类型
func (s *ACVoltageSource) Type() types.ElementType { return types.TypeACVoltageSource }

// Terminals 端口母线
func (s *ACVoltageSource) Terminals() []types.BusID { return []types.BusID{s.Bus} }

// Impedance 内阻抗
func (s *ACVoltageSource) Impedance() complex128 { return complex(s.R, s.X) }

// Validate 参数检查
func (s *ACVoltageSource) Validate() error { return sourceImpedance(s.Name, s.R, s.X) }

func sourceImpedance(id string, r, x float64) error {
	if err := finite(id, r, x); err != nil {
		return err
	}
	if isShort(complex(r, x)) {
		return &types.InvalidParameterError{ID: id, Reason: "zero internal impedance"}
	}
	return nil
}
