package types

// 默认参数常量定义
var (
	DefaultBaseMVA    = 100.0 // 系统基准容量 MVA
	BaseTolerance     = 1e-9  // 元件基准容量与系统基准的允许偏差
	MaxCondition      = 1e12  // 消去块允许的最大条件数
	ZeroImpedance     = 1e-12 // 小于此模值的串联阻抗视为理想短接
	SymmetryTolerance = 1e-9  // 对称性检查容差
)
