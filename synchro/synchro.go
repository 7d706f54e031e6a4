package synchro

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"admittance/types"
	"admittance/ybus"

	"gonum.org/v1/gonum/mat"
)

// Matrix 同步功率系数矩阵，行列与输入导纳矩阵的标签一致，构造后不可修改
type Matrix struct {
	labels []string
	index  map[string]int
	k      *mat.Dense
}

// Coefficients 计算同步功率系数
//
//	K_ij = |E_i||E_j|(G_ij·sin(δ_i-δ_j) - B_ij·cos(δ_i-δ_j))  (i≠j)
//	K_ii = -Σ_{j≠i} K_ij
//
// y 通常为降阶到发电机节点的导纳矩阵，op 须给出每个节点的相量。
func Coefficients(y *ybus.AdmittanceMatrix, op OperatingPoint) (*Matrix, error) {
	labels := y.Labels()
	n := len(labels)
	e := make([]Phasor, n)
	for i, l := range labels {
		p, ok := lookup(y, op, l)
		if !ok {
			return nil, fmt.Errorf("synchro: %w", &types.MissingOperatingPointError{BusID: l})
		}
		e[i] = p
	}

	k := mat.NewDense(max(n, 1), max(n, 1), nil)
	for i := range n {
		var sum float64
		for j := range n {
			if i == j {
				continue
			}
			yij := y.At(i, j)
			d := e[i].Angle - e[j].Angle
			v := e[i].Magnitude * e[j].Magnitude * (real(yij)*math.Sin(d) - imag(yij)*math.Cos(d))
			k.Set(i, j, v)
			sum += v
		}
		k.Set(i, i, -sum)
	}

	index := make(map[string]int, n)
	for i, l := range labels {
		index[l] = i
	}
	return &Matrix{labels: labels, index: index, k: k}, nil
}

// Size 矩阵阶数
func (m *Matrix) Size() int { return len(m.labels) }

// Labels 行列标签副本
func (m *Matrix) Labels() []string { return append([]string(nil), m.labels...) }

// At 返回 K_ij
func (m *Matrix) At(i, j int) float64 { return m.k.At(i, j) }

// AtID 按标签取 K
func (m *Matrix) AtID(row, col string) (float64, error) {
	i, ok := m.index[row]
	if !ok {
		return 0, &types.UnknownBusError{BusID: row}
	}
	j, ok := m.index[col]
	if !ok {
		return 0, &types.UnknownBusError{BusID: col}
	}
	return m.k.At(i, j), nil
}

// Dense gonum 矩阵副本
func (m *Matrix) Dense() *mat.Dense {
	if m.Size() == 0 {
		return &mat.Dense{}
	}
	return mat.DenseCopyOf(m.k)
}

// RowSum 第 i 行之和，按定义为零
func (m *Matrix) RowSum(i int) float64 {
	return mat.Sum(m.k.RowView(i))
}

// DistributionRatios 扰动发生在 disturbed 节点时，其余各节点分担的功率比例
//
//	r_i = K_id / Σ_{k≠d} K_kd,  r_d = 0
func (m *Matrix) DistributionRatios(disturbed string) (map[string]float64, error) {
	d, ok := m.index[disturbed]
	if !ok {
		return nil, fmt.Errorf("synchro: %w", &types.UnknownBusError{BusID: disturbed})
	}
	var sum float64
	for i := range m.Size() {
		if i != d {
			sum += m.k.At(i, d)
		}
	}
	if sum == 0 || math.IsNaN(sum) {
		return nil, fmt.Errorf("synchro: %w", &types.InvalidParameterError{ID: disturbed, Reason: "no synchronizing coupling to other nodes"})
	}
	out := make(map[string]float64, m.Size())
	for i, l := range m.labels {
		if i == d {
			out[l] = 0
			continue
		}
		out[l] = m.k.At(i, d) / sum
	}
	return out, nil
}

// Format 输出带标签的表格
func (m *Matrix) Format(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, l := range m.labels {
		fmt.Fprintf(tw, "%s\t", l)
	}
	fmt.Fprintln(tw)
	for i, l := range m.labels {
		fmt.Fprintf(tw, "%s\t", l)
		for j := range m.labels {
			fmt.Fprintf(tw, "%.4f\t", m.k.At(i, j))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
