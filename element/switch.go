package element

import (
	"admittance/types"
)

// Switch 开关/母联
// 断开时不加盖；闭合且阻抗为零时两端母线合并为同一节点。
type Switch struct {
	Common
	From, To types.BusID
	Closed   bool
	R, X     float64 // 闭合电阻/电抗，通常为0
}

// Type 类型
func (s *Switch) Type() types.ElementType { return types.TypeSwitch }

// Terminals 端口母线
func (s *Switch) Terminals() []types.BusID { return []types.BusID{s.From, s.To} }

// Series 闭合导纳，零阻抗时 ok 为 false
func (s *Switch) Series() (complex128, bool) { return admittance(s.R, s.X) }

// Validate 参数检查
func (s *Switch) Validate() error { return finite(s.Name, s.R, s.X) }
