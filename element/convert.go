package element

import (
	"fmt"
	"math"
)

// 铭牌参数到系统基准标幺值的换算。
// 所有函数的 baseMVA 为系统基准容量，电压单位 kV，阻抗单位 Ω，电纳/电导单位 µS。

// ZBase 基准阻抗 Ω
func ZBase(kv, baseMVA float64) float64 {
	return kv * kv / baseMVA
}

// LineFromOhms 线路有名值换算为标幺值，b 为总充电电纳
func LineFromOhms(rOhm, xOhm, bMicroS, kv, baseMVA float64) (r, x, b float64) {
	zb := ZBase(kv, baseMVA)
	return rOhm / zb, xOhm / zb, bMicroS * 1e-6 * zb
}

// TransformerFromShortCircuit 由短路电压 uk% 和电阻分量 ukr% 求短路阻抗（系统基准）
func TransformerFromShortCircuit(ukPct, ukrPct, ratedMVA, baseMVA float64) (r, x float64, err error) {
	if ratedMVA <= 0 {
		return 0, 0, fmt.Errorf("transformer rated power %g MVA must be positive", ratedMVA)
	}
	z := ukPct / 100
	r = ukrPct / 100
	if z*z < r*r {
		return 0, 0, fmt.Errorf("transformer uk %g%% is smaller than ukr %g%%", ukPct, ukrPct)
	}
	x = math.Sqrt(z*z - r*r)
	scale := baseMVA / ratedMVA
	return r * scale, x * scale, nil
}

// OffNominalRatio 非标准变比：变压器额定变比与两侧母线额定电压比之比
func OffNominalRatio(ratedHV, ratedLV, nominalHV, nominalLV float64) float64 {
	return (ratedHV / ratedLV) / (nominalHV / nominalLV)
}

// TapRatio 计入分接头位置后的变比幅值
func TapRatio(ratio float64, position int, percentPerTap float64) float64 {
	return ratio * (1 + float64(position)*percentPerTap/100)
}

// StarImpedances 三绕组变压器两两短路阻抗（三角形）换算为星形等值阻抗。
// 输入顺序为 HV-MV、MV-LV、LV-HV，输出顺序为 HV、MV、LV。
func StarImpedances(zHM, zML, zLH complex128) [3]complex128 {
	return [3]complex128{
		(zHM + zLH - zML) / 2,
		(zHM + zML - zLH) / 2,
		(zML + zLH - zHM) / 2,
	}
}

// Transformer3WFromShortCircuit 由三组两两短路试验参数求星形等值阻抗（系统基准）。
// uk、ukr、ratedMVA 的顺序均为 HV-MV、MV-LV、LV-HV。
func Transformer3WFromShortCircuit(uk, ukr, ratedMVA [3]float64, baseMVA float64) ([3]complex128, error) {
	var pair [3]complex128
	for i := range pair {
		r, x, err := TransformerFromShortCircuit(uk[i], ukr[i], ratedMVA[i], baseMVA)
		if err != nil {
			return [3]complex128{}, fmt.Errorf("winding pair %d: %w", i, err)
		}
		pair[i] = complex(r, x)
	}
	return StarImpedances(pair[0], pair[1], pair[2]), nil
}

// MachineImpedance 电机基准下的 Ra、漏抗与暂态电抗换算为系统基准内阻抗
func MachineImpedance(ra, xl, xd1, ratedMVA, baseMVA float64) complex128 {
	return complex(ra, xl+xd1) * complex(baseMVA/ratedMVA, 0)
}

// ExternalGridImpedance 由短路容量 S_sc、电压系数 c 和 R/X 求外部电网阻抗
func ExternalGridImpedance(sscMVA, c, rx, baseMVA float64) complex128 {
	z := c * baseMVA / sscMVA
	x := z / math.Sqrt(1+rx*rx)
	return complex(rx*x, x)
}

// LoadAdmittance 恒阻抗负荷导纳 Y = (P - jQ)/|V|²，P、Q 单位 MW/Mvar，v 为标幺电压
func LoadAdmittance(pMW, qMVAr, v, baseMVA float64) complex128 {
	s := complex(pMW/baseMVA, -qMVAr/baseMVA)
	return s / complex(v*v, 0)
}

// ShuntAdmittance 并联元件的 G、B（µS）换算为标幺导纳
func ShuntAdmittance(gMicroS, bMicroS, kv, baseMVA float64) complex128 {
	zb := ZBase(kv, baseMVA)
	return complex(gMicroS, bMicroS) * complex(1e-6*zb, 0)
}

// SourceImpedance 电压源内阻抗有名值换算为标幺值
func SourceImpedance(rOhm, xOhm, kv, baseMVA float64) complex128 {
	return complex(rOhm, xOhm) / complex(ZBase(kv, baseMVA), 0)
}

// Rebase 标幺阻抗从 fromMVA 基准换算到 toMVA 基准
func Rebase(z complex128, fromMVA, toMVA float64) complex128 {
	return z * complex(toMVA/fromMVA, 0)
}
