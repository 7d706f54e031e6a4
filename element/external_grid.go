package element

import (
	"admittance/types"
)

// ExternalGrid 外部电网：理想电压源串联短路阻抗
type ExternalGrid struct {
	Common
	Bus  types.BusID
	R, X float64
}

// Type 类型
func (g *ExternalGrid) Type() types.ElementType { return types.TypeExternalGrid }

// Terminals 端口母线
func (g *ExternalGrid) Terminals() []types.BusID { return []types.BusID{g.Bus} }

// Impedance 短路阻抗
func (g *ExternalGrid) Impedance() complex128 { return complex(g.R, g.X) }

// Validate 参数检查
func (g *ExternalGrid) Validate() error { return sourceImpedance(g.Name, g.R, g.X) }
