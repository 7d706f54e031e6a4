package types

import "fmt"

// ElementType 元件类型
type ElementType uint

// 电力网络元件类型常量定义
const (
	TypeUnknown            ElementType = iota // 未知类型
	TypeLine                                  // 线路
	TypeTransformer2W                         // 双绕组变压器
	TypeTransformer3W                         // 三绕组变压器
	TypeLoad                                  // 负荷（恒阻抗部分）
	TypeSynchronousMachine                    // 同步电机
	TypeSwitch                                // 开关/母联
	TypeCommonImpedance                       // 公共阻抗
	TypeACVoltageSource                       // 交流电压源
	TypeShunt                                 // 并联补偿
	TypeExternalGrid                          // 外部电网
)

// elementTypeInfo 类型注册信息
type elementTypeInfo struct {
	Name      string // 类型标签
	Terminals int    // 端口母线数量
}

// elementTypeString 元件映射
var elementTypeString = map[ElementType]elementTypeInfo{
	TypeUnknown: {Name: "unknown"},
}

var mapName = map[string]ElementType{}

func init() {
	ElementRegister(TypeLine, "line", 2)
	ElementRegister(TypeTransformer2W, "transformer2w", 2)
	ElementRegister(TypeTransformer3W, "transformer3w", 3)
	ElementRegister(TypeLoad, "load", 1)
	ElementRegister(TypeSynchronousMachine, "synchronous_machine", 1)
	ElementRegister(TypeSwitch, "switch", 2)
	ElementRegister(TypeCommonImpedance, "common_impedance", 2)
	ElementRegister(TypeACVoltageSource, "ac_voltage_source", 1)
	ElementRegister(TypeShunt, "shunt", 1)
	ElementRegister(TypeExternalGrid, "external_grid", 1)
}

// String 返回元件类型的标签
func (t ElementType) String() string {
	if et, ok := elementTypeString[t]; ok {
		return et.Name
	}
	return "unknown"
}

// Terminals 端口母线数量
func (t ElementType) Terminals() int {
	return elementTypeString[t].Terminals
}

// GetNameType 通过标签获取类型，未注册返回 TypeUnknown
func GetNameType(name string) ElementType {
	return mapName[name]
}

// ElementTypes 返回全部已注册类型（按枚举顺序）
func ElementTypes() []ElementType {
	out := make([]ElementType, 0, len(elementTypeString)-1)
	for t := TypeLine; t <= TypeExternalGrid; t++ {
		out = append(out, t)
	}
	return out
}

// ElementRegister 注册元件类型
func ElementRegister(et ElementType, name string, terminals int) {
	if _, ok := elementTypeString[et]; ok {
		panic(fmt.Errorf("element type already registered: %s:%d", name, et))
	}
	mapName[name] = et
	elementTypeString[et] = elementTypeInfo{Name: name, Terminals: terminals}
}
