package ybus

import (
	"fmt"
	"io"
	"math/cmplx"
	"text/tabwriter"

	"admittance/maths"
	"admittance/types"
)

// AdmittanceMatrix 带母线标签的复数标幺导纳矩阵，构造后不可修改。
// 行列顺序即标签顺序。
type AdmittanceMatrix struct {
	m        maths.Matrix[complex128]
	labels   []string
	index    map[string]int
	internal []bool            // 电机内部节点
	aliases  map[string]string // 被合并母线 -> 代表标签
}

// NewAdmittanceMatrix 由标签和矩阵数据创建导纳矩阵（复制数据）
func NewAdmittanceMatrix(labels []string, data [][]complex128) (*AdmittanceMatrix, error) {
	if len(data) != len(labels) {
		return nil, fmt.Errorf("ybus: %d labels for %d rows", len(labels), len(data))
	}
	for i, row := range data {
		if len(row) != len(labels) {
			return nil, fmt.Errorf("ybus: row %d has %d columns, want %d", i, len(row), len(labels))
		}
	}
	m := maths.NewDenseMatrix[complex128](len(labels), len(labels))
	m.BuildFromDense(data)
	return newMatrix(m, labels, make([]bool, len(labels)), nil)
}

func newMatrix(m maths.Matrix[complex128], labels []string, internal []bool, aliases map[string]string) (*AdmittanceMatrix, error) {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, ok := index[l]; ok {
			return nil, &types.DuplicateIDError{Kind: "node", ID: l}
		}
		index[l] = i
	}
	return &AdmittanceMatrix{m: m, labels: labels, index: index, internal: internal, aliases: aliases}, nil
}

// Derive 以本矩阵中 rows 指定的节点为标签创建新矩阵，data 为对应的新数据。
// 降阶等运算使用它保留标签、内部节点标记和别名。
func (y *AdmittanceMatrix) Derive(rows []int, data maths.Matrix[complex128]) *AdmittanceMatrix {
	if data.Rows() != len(rows) || data.Cols() != len(rows) {
		panic("ybus: derive dimension mismatch")
	}
	labels := make([]string, len(rows))
	internal := make([]bool, len(rows))
	keep := make(map[string]bool, len(rows))
	for i, r := range rows {
		labels[i] = y.labels[r]
		internal[i] = y.internal[r]
		keep[labels[i]] = true
	}
	aliases := map[string]string{}
	for bus, rep := range y.aliases {
		if keep[rep] {
			aliases[bus] = rep
		}
	}
	out, err := newMatrix(data, labels, internal, aliases)
	if err != nil {
		panic(err)
	}
	return out
}

// Size 矩阵阶数
func (y *AdmittanceMatrix) Size() int { return len(y.labels) }

// Labels 行列标签副本
func (y *AdmittanceMatrix) Labels() []string { return append([]string(nil), y.labels...) }

// At 返回 (i,j) 元素
func (y *AdmittanceMatrix) At(i, j int) complex128 { return y.m.Get(i, j) }

// Index 标签对应的行列索引，被合并的母线解析到其代表节点
func (y *AdmittanceMatrix) Index(id string) (int, bool) {
	if i, ok := y.index[id]; ok {
		return i, true
	}
	if rep, ok := y.aliases[id]; ok {
		i, ok := y.index[rep]
		return i, ok
	}
	return 0, false
}

// AtID 按母线标识取元素
func (y *AdmittanceMatrix) AtID(row, col string) (complex128, error) {
	i, ok := y.Index(row)
	if !ok {
		return 0, &types.UnknownBusError{BusID: row}
	}
	j, ok := y.Index(col)
	if !ok {
		return 0, &types.UnknownBusError{BusID: col}
	}
	return y.m.Get(i, j), nil
}

// Internal 第 i 个节点是否为电机内部节点
func (y *AdmittanceMatrix) Internal(i int) bool { return y.internal[i] }

// Aliases 被合并母线到代表标签的映射副本
func (y *AdmittanceMatrix) Aliases() map[string]string {
	out := make(map[string]string, len(y.aliases))
	for k, v := range y.aliases {
		out[k] = v
	}
	return out
}

// Matrix 矩阵数据副本
func (y *AdmittanceMatrix) Matrix() maths.Matrix[complex128] {
	m := maths.NewDenseMatrix[complex128](y.Size(), y.Size())
	y.m.Copy(m)
	return m
}

// Raw 二维数组形式
func (y *AdmittanceMatrix) Raw() [][]complex128 { return y.m.ToDense() }

// Table 以母线标识为键的表格形式
func (y *AdmittanceMatrix) Table() map[string]map[string]complex128 {
	out := make(map[string]map[string]complex128, y.Size())
	for i, ri := range y.labels {
		row := make(map[string]complex128, y.Size())
		for j, cj := range y.labels {
			row[cj] = y.m.Get(i, j)
		}
		out[ri] = row
	}
	return out
}

// RowSum 第 i 行元素之和
func (y *AdmittanceMatrix) RowSum(i int) complex128 {
	var sum complex128
	for j := range y.Size() {
		sum += y.m.Get(i, j)
	}
	return sum
}

// IsSymmetric 容差内是否对称
func (y *AdmittanceMatrix) IsSymmetric(tol float64) bool {
	for i := range y.Size() {
		for j := i + 1; j < y.Size(); j++ {
			if cmplx.Abs(y.m.Get(i, j)-y.m.Get(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

// Equal 标签相同且元素在容差内相等
func (y *AdmittanceMatrix) Equal(other *AdmittanceMatrix, tol float64) bool {
	if y.Size() != other.Size() {
		return false
	}
	for i, l := range y.labels {
		if other.labels[i] != l {
			return false
		}
	}
	return maths.Equal(y.m, other.m, tol)
}

// Format 输出带标签的表格
func (y *AdmittanceMatrix) Format(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, l := range y.labels {
		fmt.Fprintf(tw, "%s\t", l)
	}
	fmt.Fprintln(tw)
	for i, l := range y.labels {
		fmt.Fprintf(tw, "%s\t", l)
		for j := range y.labels {
			v := y.m.Get(i, j)
			fmt.Fprintf(tw, "%.4f%+.4fj\t", real(v), imag(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
