package synchro

import (
	"fmt"
	"maps"
	"math"
	"math/cmplx"
	"slices"

	"admittance/network"
	"admittance/types"
	"admittance/ybus"
)

// Phasor 电压相量，幅值为标幺值，相角为弧度
type Phasor struct {
	Magnitude float64
	Angle     float64
}

// PhasorOf 由复数构造相量
func PhasorOf(v complex128) Phasor {
	return Phasor{Magnitude: cmplx.Abs(v), Angle: cmplx.Phase(v)}
}

// Complex 复数形式
func (p Phasor) Complex() complex128 { return cmplx.Rect(p.Magnitude, p.Angle) }

// OperatingPoint 运行点：母线（或电机内部节点）标识 -> 相量
type OperatingPoint map[string]Phasor

// BusResult 潮流计算结果中的一条母线记录，相角单位为度
type BusResult struct {
	Bus      types.BusID `yaml:"bus"`
	Voltage  float64     `yaml:"voltage"`
	AngleDeg float64     `yaml:"angle_deg"`
}

// FromLoadFlow 潮流结果转换为运行点
func FromLoadFlow(results []BusResult) (OperatingPoint, error) {
	op := make(OperatingPoint, len(results))
	for _, r := range results {
		if _, ok := op[r.Bus]; ok {
			return nil, &types.DuplicateIDError{Kind: "operating point", ID: r.Bus}
		}
		if math.IsNaN(r.Voltage) || math.IsInf(r.Voltage, 0) || math.IsNaN(r.AngleDeg) || math.IsInf(r.AngleDeg, 0) {
			return nil, &types.InvalidParameterError{ID: r.Bus, Reason: "non-finite load-flow result"}
		}
		op[r.Bus] = Phasor{Magnitude: r.Voltage, Angle: r.AngleDeg * math.Pi / 180}
	}
	return op, nil
}

// InternalEMF 同步电机内电势
//
//	E = V + Z·conj(S)/conj(V)
//
// v 为端口电压，z 为内阻抗，s 为电机出力（均为系统基准标幺值）。
func InternalEMF(v Phasor, z, s complex128) Phasor {
	vc := v.Complex()
	return PhasorOf(vc + z*cmplx.Conj(s)/cmplx.Conj(vc))
}

// MachineOperatingPoint 在潮流运行点上补充电机内部节点的内电势。
// 只处理在 y 中有内部节点的投运电机；dispatch 可按电机标识覆盖其出力，
// 未给出时取电机元件的 P、Q。返回新的运行点，lf 不被修改。
func MachineOperatingPoint(y *ybus.AdmittanceMatrix, net *network.Network, lf OperatingPoint, dispatch map[string]complex128) (OperatingPoint, error) {
	out := make(OperatingPoint, len(lf))
	for k, v := range lf {
		out[k] = v
	}
	for _, m := range net.Machines() {
		i, ok := y.Index(m.ID())
		if !ok || !y.Internal(i) {
			continue
		}
		v, ok := lookup(y, lf, m.Bus)
		if !ok {
			return nil, fmt.Errorf("synchro: %w", &types.MissingOperatingPointError{BusID: m.Bus})
		}
		if v.Magnitude == 0 {
			return nil, fmt.Errorf("synchro: %w", &types.InvalidParameterError{ID: m.Bus, Reason: "zero terminal voltage"})
		}
		s, ok := dispatch[m.ID()]
		if !ok {
			s = m.Power()
		}
		out[m.ID()] = InternalEMF(v, m.Impedance(), s)
	}
	return out, nil
}

// lookup 按标识取相量；被合并的母线与其代表节点共用同一相量
func lookup(y *ybus.AdmittanceMatrix, op OperatingPoint, id string) (Phasor, bool) {
	if p, ok := op[id]; ok {
		return p, true
	}
	i, ok := y.Index(id)
	if !ok {
		return Phasor{}, false
	}
	rep := y.Labels()[i]
	if p, ok := op[rep]; ok {
		return p, true
	}
	aliases := y.Aliases()
	for _, bus := range slices.Sorted(maps.Keys(aliases)) {
		if aliases[bus] != rep {
			continue
		}
		if p, ok := op[bus]; ok {
			return p, true
		}
	}
	return Phasor{}, false
}
