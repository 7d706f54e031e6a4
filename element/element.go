package element

import (
	"math"

	"admittance/types"
)

// Element 网络元件接口
// 元件只通过母线标识弱引用端口母线，不持有母线。
type Element interface {
	ID() types.ElementID      // 元件唯一标识
	Type() types.ElementType  // 元件类型
	Terminals() []types.BusID // 端口母线（1~3个）
	Active() bool             // 是否投运
	Base() float64            // 参数所用的基准容量 MVA
	Validate() error          // 参数合法性检查
}

// Common 各元件共有的属性
type Common struct {
	Name      types.ElementID // 唯一标识
	InService bool            // 投运标记
	BaseMVA   float64         // 标幺参数的基准容量
}

// ID 元件标识
func (c Common) ID() types.ElementID { return c.Name }

// Active 是否投运
func (c Common) Active() bool { return c.InService }

// Base 基准容量
func (c Common) Base() float64 { return c.BaseMVA }

// NewCommon 创建投运状态的公共属性
func NewCommon(name types.ElementID, baseMVA float64) Common {
	return Common{Name: name, InService: true, BaseMVA: baseMVA}
}

// Bus 母线
type Bus struct {
	ID        types.BusID // 唯一标识
	NominalKV float64     // 额定电压 kV
	InService bool        // 投运标记
}

// NewBus 创建投运母线
func NewBus(id types.BusID, nominalKV float64) Bus {
	return Bus{ID: id, NominalKV: nominalKV, InService: true}
}

// parallelCount 并联回路数，未设置时为1
func parallelCount(n int) float64 {
	if n < 1 {
		return 1
	}
	return float64(n)
}

// admittance 串联阻抗对应的导纳，零阻抗返回0和false
func admittance(r, x float64) (complex128, bool) {
	z := complex(r, x)
	if isShort(z) {
		return 0, false
	}
	return 1 / z, true
}

func isShort(z complex128) bool {
	return real(z)*real(z)+imag(z)*imag(z) < types.ZeroImpedance*types.ZeroImpedance
}

// finite 检查参数均为有限值
func finite(id string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &types.InvalidParameterError{ID: id, Reason: "non-finite parameter"}
		}
	}
	return nil
}
