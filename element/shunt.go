package element

import (
	"admittance/types"
)

// Shunt 并联电容/电抗器
type Shunt struct {
	Common
	Bus  types.BusID
	G, B float64
}

// Type 类型
func (s *Shunt) Type() types.ElementType { return types.TypeShunt }

// Terminals 端口母线
func (s *Shunt) Terminals() []types.BusID { return []types.BusID{s.Bus} }

// Shunt 对地导纳
func (s *Shunt) Shunt() complex128 { return complex(s.G, s.B) }

// Validate 参数检查
func (s *Shunt) Validate() error { return finite(s.Name, s.G, s.B) }
