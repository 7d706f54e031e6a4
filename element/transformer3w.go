package element

import (
	"admittance/types"
)

// Winding 三绕组变压器的一侧（星形等值支路）
type Winding struct {
	Bus types.BusID
	Z   complex128 // 星点到端口的阻抗
}

// Transformer3W 三绕组变压器，以星形等值表示
type Transformer3W struct {
	Common
	HV, MV, LV    types.BusID
	ZHV, ZMV, ZLV complex128 // 星形等值阻抗（系统基准）
}

// Type 类型
func (t *Transformer3W) Type() types.ElementType { return types.TypeTransformer3W }

// Terminals 端口母线
func (t *Transformer3W) Terminals() []types.BusID { return []types.BusID{t.HV, t.MV, t.LV} }

// Windings 三侧支路，顺序为 HV、MV、LV
func (t *Transformer3W) Windings() [3]Winding {
	return [3]Winding{{t.HV, t.ZHV}, {t.MV, t.ZMV}, {t.LV, t.ZLV}}
}

// Validate 参数检查
func (t *Transformer3W) Validate() error {
	return finite(t.Name, real(t.ZHV), imag(t.ZHV), real(t.ZMV), imag(t.ZMV), real(t.ZLV), imag(t.ZLV))
}
