package element

import (
	"admittance/types"
)

// CommonImpedance 两母线间的公共阻抗
type CommonImpedance struct {
	Common
	From, To types.BusID
	R, X     float64
}

// Type 类型
func (c *CommonImpedance) Type() types.ElementType { return types.TypeCommonImpedance }

// Terminals 端口母线
func (c *CommonImpedance) Terminals() []types.BusID { return []types.BusID{c.From, c.To} }

// Series 串联导纳，零阻抗时 ok 为 false
func (c *CommonImpedance) Series() (complex128, bool) { return admittance(c.R, c.X) }

// Validate 参数检查
func (c *CommonImpedance) Validate() error { return finite(c.Name, c.R, c.X) }
