package element

import (
	"admittance/types"
)

// Load 负荷，只计恒阻抗部分
type Load struct {
	Common
	Bus  types.BusID
	G, B float64 // 等值导纳
}

// Type 类型
func (l *Load) Type() types.ElementType { return types.TypeLoad }

// Terminals 端口母线
func (l *Load) Terminals() []types.BusID { return []types.BusID{l.Bus} }

// Shunt 对地导纳
func (l *Load) Shunt() complex128 { return complex(l.G, l.B) }

// Validate 参数检查
func (l *Load) Validate() error { return finite(l.Name, l.G, l.B) }
