package types

// NodeID 导纳矩阵行列索引（母线、内部节点）
type NodeID = int

// Reference 零电位参考节点，对其加盖的支路只影响对角元
const Reference NodeID = -1

// BusID 母线标识
type BusID = string

// ElementID 元件标识
type ElementID = string

// GridPolicy 外部电网处理方式
type GridPolicy uint8

const (
	GridReference GridPolicy = iota // 作为对参考点的并联导纳加盖
	GridElide                       // 忽略（相对导纳矩阵）
)

// String 返回策略名称
func (p GridPolicy) String() string {
	switch p {
	case GridReference:
		return "reference"
	case GridElide:
		return "elide"
	}
	return "unknown"
}

// RetainPolicy 降阶保留母线的选择方式
type RetainPolicy uint8

const (
	RetainExplicit   RetainPolicy = iota // 调用方给出母线列表
	RetainGenerators                     // 全部同步电机（内部节点或端口母线）
)

// String 返回策略名称
func (p RetainPolicy) String() string {
	switch p {
	case RetainExplicit:
		return "explicit"
	case RetainGenerators:
		return "generators"
	}
	return "unknown"
}
