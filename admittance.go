package admittance

import (
	"fmt"
	"log/slog"
	"math"

	"admittance/config"
	"admittance/element"
	"admittance/kron"
	"admittance/load"
	"admittance/network"
	"admittance/synchro"
	"admittance/types"
	"admittance/ybus"
)

// Analysis 计算流程：拓扑 -> 导纳矩阵 -> （降阶）-> 同步功率系数
type Analysis struct {
	cfg *config.Config
	log *slog.Logger
}

// Result 计算结果，降阶模式以外 Reduced 与 K 为 nil；没有运行点时 K 为 nil
type Result struct {
	Y       *ybus.AdmittanceMatrix
	Reduced *ybus.AdmittanceMatrix
	K       *synchro.Matrix
	Ratios  map[string]float64 // 配置了扰动电机时的功率分配比例
}

// NewAnalysis 创建计算流程，cfg 为 nil 时使用默认配置
func NewAnalysis(cfg *config.Config, log *slog.Logger) *Analysis {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Analysis{cfg: cfg, log: log}
}

// RunFile 加载网络模型文件并计算，运行点取文件中的潮流结果
func (a *Analysis) RunFile(path string) (*Result, error) {
	m, err := load.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return a.Run(m.Network, m.OperatingPoint)
}

// Run 对网络执行计算，op 为潮流运行点（可为 nil）
func (a *Analysis) Run(net *network.Network, op synchro.OperatingPoint) (*Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if math.Abs(net.BaseMVA()-a.cfg.BaseMVA) > types.BaseTolerance*a.cfg.BaseMVA {
		return nil, &types.InconsistentBaseError{ElementID: "network", Got: net.BaseMVA(), Want: a.cfg.BaseMVA}
	}
	log := a.log.With("network", net.PID().String())

	grid, _ := a.cfg.GridPolicy()
	y, err := ybus.Build(net,
		ybus.WithLogger(log),
		ybus.WithExternalGrid(grid),
		ybus.WithMachineInternalNodes(a.cfg.InternalNodes()),
	)
	if err != nil {
		return nil, err
	}
	log.Info("admittance matrix built", "size", y.Size(), "merged", len(y.Aliases()))
	res := &Result{Y: y}
	if a.cfg.Mode != config.ModeReduced {
		return res, nil
	}

	policy, _ := a.cfg.RetainPolicy()
	idx, err := kron.Generators(y, net, policy, a.cfg.Retain.Buses)
	if err != nil {
		return nil, err
	}
	res.Reduced, err = kron.Reduce(y, idx, kron.WithMaxCondition(a.cfg.MaxCondition), kron.WithLogger(log))
	if err != nil {
		return nil, err
	}
	log.Info("network reduced", "retained", res.Reduced.Labels())
	if op == nil {
		log.Warn("no operating point, synchronizing coefficients skipped")
		return res, nil
	}

	op, err = synchro.MachineOperatingPoint(y, net, op, nil)
	if err != nil {
		return nil, err
	}
	res.K, err = synchro.Coefficients(res.Reduced, op)
	if err != nil {
		return nil, err
	}
	if a.cfg.Disturbed != "" {
		label, err := a.disturbed(net, res.Reduced)
		if err != nil {
			return nil, err
		}
		if res.Ratios, err = res.K.DistributionRatios(label); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// disturbed 扰动电机在降阶矩阵中的标签：内部节点，或其端口母线
func (a *Analysis) disturbed(net *network.Network, reduced *ybus.AdmittanceMatrix) (string, error) {
	id := a.cfg.Disturbed
	if i, ok := reduced.Index(id); ok {
		return reduced.Labels()[i], nil
	}
	if el, ok := net.Element(id); ok {
		if m, ok := el.(*element.SynchronousMachine); ok {
			if i, ok := reduced.Index(m.Bus); ok {
				return reduced.Labels()[i], nil
			}
		}
	}
	return "", fmt.Errorf("disturbed %q: %w", id, &types.UnknownBusError{BusID: id})
}
