package element

import (
	"math"
	"math/cmplx"

	"admittance/types"
)

// Transformer2W 双绕组变压器
// 变比 t = Tap·e^{jφ} 位于高压侧（HV）。
type Transformer2W struct {
	Common
	HV, LV     types.BusID
	R, X       float64 // 短路阻抗（系统基准）
	Tap        float64 // 非标准变比幅值，0 视为 1
	PhaseShift float64 // 移相角 rad
	Parallel   int     // 并联台数
}

// Type 类型
func (t *Transformer2W) Type() types.ElementType { return types.TypeTransformer2W }

// Terminals 端口母线
func (t *Transformer2W) Terminals() []types.BusID { return []types.BusID{t.HV, t.LV} }

// Series 串联导纳（含并联台数）
func (t *Transformer2W) Series() (y complex128, ok bool) {
	y, ok = admittance(t.R, t.X)
	return y * complex(parallelCount(t.Parallel), 0), ok
}

// Ratio 复变比
func (t *Transformer2W) Ratio() complex128 {
	tap := t.Tap
	if tap == 0 {
		tap = 1
	}
	return cmplx.Rect(tap, t.PhaseShift)
}

// Validate 参数检查
func (t *Transformer2W) Validate() error {
	if err := finite(t.Name, t.R, t.X, t.Tap, t.PhaseShift); err != nil {
		return err
	}
	if t.Tap < 0 {
		return &types.InvalidParameterError{ID: t.Name, Reason: "negative tap ratio"}
	}
	if _, ok := t.Series(); !ok {
		return &types.InvalidParameterError{ID: t.Name, Reason: "zero short-circuit impedance"}
	}
	return nil
}

// Stamp 返回 2x2 导纳块 [Yff Yft; Ytf Ytt]
//
//	Yff = y/|t|², Yft = -y/conj(t), Ytf = -y/t, Ytt = y
func (t *Transformer2W) Stamp() [2][2]complex128 {
	y, _ := t.Series()
	a := t.Ratio()
	mag2 := math.Pow(cmplx.Abs(a), 2)
	return [2][2]complex128{
		{y / complex(mag2, 0), -y / cmplx.Conj(a)},
		{-y / a, y},
	}
}
