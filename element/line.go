package element

import (
	"admittance/types"
)

// Line 输电线路（π 型等值，参数为全长标幺值）
type Line struct {
	Common
	From, To types.BusID
	R, X     float64 // 串联阻抗
	B        float64 // 总充电电纳，两端各一半
	Parallel int     // 并联回路数
}

// Type 类型
func (l *Line) Type() types.ElementType { return types.TypeLine }

// Terminals 端口母线
func (l *Line) Terminals() []types.BusID { return []types.BusID{l.From, l.To} }

// Series 串联导纳（含并联回路数），零阻抗时 ok 为 false
func (l *Line) Series() (y complex128, ok bool) {
	y, ok = admittance(l.R, l.X)
	return y * complex(parallelCount(l.Parallel), 0), ok
}

// Charging 每端的充电导纳
func (l *Line) Charging() complex128 {
	return complex(0, l.B*parallelCount(l.Parallel)/2)
}

// Validate 参数检查
func (l *Line) Validate() error {
	return finite(l.Name, l.R, l.X, l.B)
}
