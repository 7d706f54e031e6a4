package kron

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"admittance/maths"
	"admittance/network"
	"admittance/types"
	"admittance/ybus"
)

// Option 降阶选项
type Option func(*options)

type options struct {
	maxCond float64
	log     *slog.Logger
}

// WithMaxCondition 设置消去块允许的最大条件数，默认 types.MaxCondition
func WithMaxCondition(c float64) Option {
	return func(o *options) {
		if c > 0 {
			o.maxCond = c
		}
	}
}

// WithLogger 设置日志，默认丢弃
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{maxCond: types.MaxCondition, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Reduce Kron 降阶：保留 retained 指定的节点，消去其余节点。
//
//	Y_red = Y_GG - Y_GL·Y_LL⁻¹·Y_LG
//
// 结果的行列顺序与 retained 一致。消去集合为空时返回按 retained 重排的原矩阵。
// Y_LL 的条件数超过阈值时返回 *types.SingularReductionError，
// 并指出导致奇异的孤岛母线。
func Reduce(y *ybus.AdmittanceMatrix, retained []int, opts ...Option) (*ybus.AdmittanceMatrix, error) {
	o := newOptions(opts)
	if err := checkRetained(y.Size(), retained); err != nil {
		return nil, fmt.Errorf("kron: %w", err)
	}
	a := y.Matrix()
	drop := maths.Complement(y.Size(), retained)

	if len(drop) > 0 {
		cond := maths.Cond(maths.NewIndexMatrix(a, drop, drop))
		o.log.Debug("kron reduction", "retained", len(retained), "eliminated", len(drop), "cond", cond)
		if !(cond <= o.maxCond) {
			return nil, fmt.Errorf("kron: %w", singular(y, a, drop, cond, o.maxCond))
		}
	}

	out, err := maths.SchurComplement(a, retained, drop)
	if err != nil {
		if errors.Is(err, maths.ErrSingular) {
			return nil, fmt.Errorf("kron: %w", &types.SingularReductionError{Buses: labels(y, drop), Cond: math.Inf(1)})
		}
		return nil, fmt.Errorf("kron: %w", err)
	}
	return y.Derive(retained, out), nil
}

// singular 找出条件数超限的孤岛；没有单独的孤岛超限时指向全部被消去节点
func singular(y *ybus.AdmittanceMatrix, a maths.Matrix[complex128], drop []int, cond, limit float64) error {
	for _, comp := range maths.Components(a, drop) {
		c := maths.Cond(maths.NewIndexMatrix(a, comp, comp))
		if !(c <= limit) {
			return &types.SingularReductionError{Buses: labels(y, comp), Cond: c}
		}
	}
	return &types.SingularReductionError{Buses: labels(y, drop), Cond: cond}
}

func labels(y *ybus.AdmittanceMatrix, idx []int) []types.BusID {
	all := y.Labels()
	out := make([]types.BusID, len(idx))
	for i, k := range idx {
		out[i] = all[k]
	}
	return out
}

func checkRetained(n int, retained []int) error {
	seen := make(map[int]bool, len(retained))
	for _, i := range retained {
		if i < 0 || i >= n {
			return &types.InvalidParameterError{ID: "retained", Reason: fmt.Sprintf("index %d out of range [0,%d)", i, n)}
		}
		if seen[i] {
			return &types.InvalidParameterError{ID: "retained", Reason: fmt.Sprintf("index %d listed twice", i)}
		}
		seen[i] = true
	}
	return nil
}

// ReduceByID 按母线标识降阶，被合并的母线解析到其代表节点
func ReduceByID(y *ybus.AdmittanceMatrix, ids []types.BusID, opts ...Option) (*ybus.AdmittanceMatrix, error) {
	idx, err := resolve(y, ids)
	if err != nil {
		return nil, fmt.Errorf("kron: %w", err)
	}
	return Reduce(y, idx, opts...)
}

// Eliminate 消去单个节点，其余节点保持原顺序
func Eliminate(y *ybus.AdmittanceMatrix, index int, opts ...Option) (*ybus.AdmittanceMatrix, error) {
	if index < 0 || index >= y.Size() {
		return nil, fmt.Errorf("kron: %w", &types.InvalidParameterError{ID: "eliminate", Reason: fmt.Sprintf("index %d out of range [0,%d)", index, y.Size())})
	}
	return Reduce(y, maths.Complement(y.Size(), []int{index}), opts...)
}

func resolve(y *ybus.AdmittanceMatrix, ids []types.BusID) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := y.Index(id)
		if !ok {
			return nil, &types.UnknownBusError{BusID: id}
		}
		if slices.Contains(out, i) {
			return nil, &types.InvalidParameterError{ID: id, Reason: "bus retained twice"}
		}
		out = append(out, i)
	}
	return out, nil
}

// Generators 选择保留节点。
// types.RetainExplicit 按 explicit 给出的母线（保持调用顺序）；
// types.RetainGenerators 取全部投运同步电机：有内部节点时取内部节点，
// 否则取端口母线，去重后按矩阵顺序排列。
func Generators(y *ybus.AdmittanceMatrix, net *network.Network, policy types.RetainPolicy, explicit []types.BusID) ([]int, error) {
	switch policy {
	case types.RetainExplicit:
		if len(explicit) == 0 {
			return nil, fmt.Errorf("kron: %w", &types.InvalidParameterError{ID: "retain", Reason: "no buses given"})
		}
		idx, err := resolve(y, explicit)
		if err != nil {
			return nil, fmt.Errorf("kron: %w", err)
		}
		return idx, nil
	case types.RetainGenerators:
		var idx []int
		for _, m := range net.Machines() {
			i, ok := y.Index(m.ID())
			if !ok || !y.Internal(i) {
				if i, ok = y.Index(m.Bus); !ok {
					continue
				}
			}
			if !slices.Contains(idx, i) {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			return nil, fmt.Errorf("kron: %w", &types.InvalidParameterError{ID: "retain", Reason: "no in-service synchronous machine"})
		}
		slices.Sort(idx)
		return idx, nil
	}
	return nil, fmt.Errorf("kron: %w", &types.InvalidParameterError{ID: "retain", Reason: "unknown policy " + policy.String()})
}
