package ybus

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"admittance/element"
	"admittance/maths"
	"admittance/network"
	"admittance/types"
)

// Option 构建选项
type Option func(*Builder)

// WithLogger 设置日志，默认丢弃
func WithLogger(log *slog.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithExternalGrid 设置外部电网处理方式，默认 types.GridReference
func WithExternalGrid(p types.GridPolicy) Option {
	return func(b *Builder) { b.grid = p }
}

// WithMachineInternalNodes 为每台投运同步电机建立内部节点（降阶模式），
// 电机内阻抗作为内部节点与端口母线间的串联支路加盖。
func WithMachineInternalNodes(on bool) Option {
	return func(b *Builder) { b.internal = on }
}

// Builder 导纳矩阵构建器，自身无状态，可并发使用
type Builder struct {
	log      *slog.Logger
	grid     types.GridPolicy
	internal bool
}

// NewBuilder 创建构建器
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{log: slog.New(slog.DiscardHandler), grid: types.GridReference}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build 使用默认构建器构建导纳矩阵
func Build(net *network.Network, opts ...Option) (*AdmittanceMatrix, error) {
	return NewBuilder(opts...).Build(net)
}

// nodeKind 原始节点类别
type nodeKind uint8

const (
	kindBus     nodeKind = iota // 投运母线
	kindMachine                 // 电机内部节点
	kindStar                    // 三绕组变压器星点
)

// build 单次构建的上下文，内部节点在此分配，构建结束即丢弃
type build struct {
	*Builder
	net     *network.Network
	buses   []element.Bus
	nodes   union          // 原始节点（母线、内部节点、星点）
	kinds   []nodeKind     // 原始节点类别
	owners  []string       // 原始节点所属元件（内部节点、星点）
	star    map[string]int // 变压器 -> 星点原始编号
	machine map[string]int // 电机 -> 内部节点原始编号
	final   map[int]int    // 根节点 -> 矩阵索引
	stamp   *stampType
	order   []int // 矩阵索引 -> 根节点
}

// Build 构建导纳矩阵。网络在读取前被冻结。
// 任一元件出错则整个构建失败，不返回任何矩阵。
func (b *Builder) Build(net *network.Network) (*AdmittanceMatrix, error) {
	net.Freeze()
	ctx := &build{
		Builder: b,
		net:     net,
		buses:   net.ActiveBuses(),
		star:    map[string]int{},
		machine: map[string]int{},
	}
	for range ctx.buses {
		ctx.addNode(kindBus, "")
	}

	elements := net.Elements()
	for _, el := range elements {
		if err := supported(el); err != nil {
			return nil, fmt.Errorf("ybus: %w", err)
		}
		if !el.Active() {
			b.log.Debug("element skipped", "element", el.ID(), "reason", "out of service")
			continue
		}
		if err := ctx.check(el); err != nil {
			return nil, fmt.Errorf("ybus: %w", err)
		}
		ctx.plan(el)
	}

	ctx.compress()
	for _, el := range elements {
		if !el.Active() {
			continue
		}
		if err := ctx.dispatch(el); err != nil {
			return nil, fmt.Errorf("ybus: %w", err)
		}
	}

	y, err := ctx.finish()
	if err != nil {
		return nil, fmt.Errorf("ybus: %w", err)
	}
	b.log.Debug("admittance matrix built", "network", net.PID(), "buses", len(ctx.buses), "size", y.Size())
	return y, nil
}

func (c *build) addNode(kind nodeKind, owner string) int {
	c.kinds = append(c.kinds, kind)
	c.owners = append(c.owners, owner)
	return c.nodes.add()
}

// supported 检查元件类型，停运元件同样检查
func supported(el element.Element) error {
	switch el.(type) {
	case *element.Line, *element.Transformer2W, *element.Transformer3W, *element.Load,
		*element.SynchronousMachine, *element.Switch, *element.CommonImpedance,
		*element.ACVoltageSource, *element.Shunt, *element.ExternalGrid:
		return nil
	}
	return unsupported(el)
}

// check 检查投运元件的基准容量与参数
func (c *build) check(el element.Element) error {
	base := c.net.BaseMVA()
	if math.Abs(el.Base()-base) > types.BaseTolerance*base {
		return &types.InconsistentBaseError{ElementID: el.ID(), Got: el.Base(), Want: base}
	}
	return el.Validate()
}

func unsupported(el element.Element) error {
	tag := el.Type().String()
	if el.Type() == types.TypeUnknown {
		tag = fmt.Sprintf("%T", el)
	}
	return &types.UnsupportedElementTypeError{ElementID: el.ID(), Tag: tag}
}

// terminal 端口母线的原始节点编号，母线停运时 ok 为 false
func (c *build) terminal(bus types.BusID) (int, bool) {
	return c.net.Index(bus)
}

// plan 分配内部节点并记录理想短接
func (c *build) plan(el element.Element) {
	switch e := el.(type) {
	case *element.Switch:
		if !e.Closed {
			return
		}
		c.merge(e, e.From, e.To)
	case *element.Line:
		c.merge(e, e.From, e.To)
	case *element.CommonImpedance:
		c.merge(e, e.From, e.To)
	case *element.Transformer3W:
		var windings []element.Winding
		for _, w := range e.Windings() {
			if _, ok := c.terminal(w.Bus); ok {
				windings = append(windings, w)
			}
		}
		if len(windings) == 0 {
			c.log.Debug("element skipped", "element", e.ID(), "reason", "all terminals out of service")
			return
		}
		s := c.addNode(kindStar, e.ID())
		c.star[e.ID()] = s
		for _, w := range windings {
			if cmplxShort(w.Z) {
				bus, _ := c.terminal(w.Bus)
				c.nodes.join(s, bus)
				c.log.Debug("star point merged", "transformer", e.ID(), "bus", w.Bus)
			}
		}
	case *element.SynchronousMachine:
		if !c.internal {
			return
		}
		if _, ok := c.terminal(e.Bus); !ok {
			return
		}
		c.machine[e.ID()] = c.addNode(kindMachine, e.ID())
	}
}

// merge 零阻抗串联元件两端合并为同一节点
func (c *build) merge(el interface {
	element.Element
	Series() (complex128, bool)
}, from, to types.BusID) {
	if _, ok := el.Series(); ok {
		return
	}
	a, okA := c.terminal(from)
	b, okB := c.terminal(to)
	if !okA || !okB {
		return
	}
	if c.nodes.join(a, b) {
		c.log.Debug("buses merged", "element", el.ID(), "from", from, "to", to)
	}
}

func cmplxShort(z complex128) bool {
	return math.Hypot(real(z), imag(z)) < types.ZeroImpedance
}

// compress 原始节点映射为矩阵索引：母线组在前（按组内首条母线的顺序），
// 其次为电机内部节点，星点在最后以便逐个消去。
func (c *build) compress() {
	c.final = map[int]int{}
	for _, pass := range []nodeKind{kindBus, kindMachine, kindStar} {
		for raw := range c.nodes.len() {
			root := c.nodes.find(raw)
			if c.kinds[root] != pass {
				continue
			}
			if _, ok := c.final[root]; ok {
				continue
			}
			c.final[root] = len(c.order)
			c.order = append(c.order, root)
		}
	}
	c.stamp = newStamp(len(c.order))
}

// idx 原始节点的矩阵索引
func (c *build) idx(raw int) NodeID {
	return c.final[c.nodes.find(raw)]
}

// bus 端口母线的矩阵索引，母线停运时 ok 为 false
func (c *build) bus(id types.BusID) (NodeID, bool) {
	raw, ok := c.terminal(id)
	if !ok {
		return 0, false
	}
	return c.idx(raw), true
}

// dispatch 按元件类型加盖，每种类型一个加盖函数
func (c *build) dispatch(el element.Element) error {
	switch e := el.(type) {
	case *element.Line:
		c.stampLine(e)
	case *element.Transformer2W:
		c.stampTransformer2W(e)
	case *element.Transformer3W:
		c.stampTransformer3W(e)
	case *element.Load:
		c.stampShunt(e, e.Bus, e.Shunt())
	case *element.SynchronousMachine:
		c.stampMachine(e)
	case *element.Switch:
		if e.Closed {
			c.stampSeries(e, e.From, e.To)
		}
	case *element.CommonImpedance:
		c.stampSeries(e, e.From, e.To)
	case *element.ACVoltageSource:
		c.stampShunt(e, e.Bus, 1/e.Impedance())
	case *element.Shunt:
		c.stampShunt(e, e.Bus, e.Shunt())
	case *element.ExternalGrid:
		if c.grid == types.GridElide {
			c.log.Debug("element skipped", "element", e.ID(), "reason", "external grid elided")
			return nil
		}
		c.stampShunt(e, e.Bus, 1/e.Impedance())
	default:
		return unsupported(el)
	}
	return nil
}

// ends 两端母线的矩阵索引，任一端停运时跳过
func (c *build) ends(el element.Element, from, to types.BusID) (NodeID, NodeID, bool) {
	a, okA := c.bus(from)
	b, okB := c.bus(to)
	if !okA || !okB {
		c.log.Debug("element skipped", "element", el.ID(), "reason", "terminal out of service")
		return 0, 0, false
	}
	return a, b, true
}

func (c *build) stampSeries(el interface {
	element.Element
	Series() (complex128, bool)
}, from, to types.BusID) {
	a, b, ok := c.ends(el, from, to)
	if !ok {
		return
	}
	if y, ok := el.Series(); ok {
		c.stamp.StampAdmittance(a, b, y)
	}
}

func (c *build) stampLine(l *element.Line) {
	a, b, ok := c.ends(l, l.From, l.To)
	if !ok {
		return
	}
	if y, ok := l.Series(); ok {
		c.stamp.StampAdmittance(a, b, y)
	}
	ysh := l.Charging()
	c.stamp.StampShunt(a, ysh)
	c.stamp.StampShunt(b, ysh)
}

func (c *build) stampTransformer2W(t *element.Transformer2W) {
	a, b, ok := c.ends(t, t.HV, t.LV)
	if !ok {
		return
	}
	c.stamp.StampBlock(a, b, t.Stamp())
}

func (c *build) stampTransformer3W(t *element.Transformer3W) {
	s, ok := c.star[t.ID()]
	if !ok {
		return
	}
	star := c.idx(s)
	for _, w := range t.Windings() {
		bus, ok := c.bus(w.Bus)
		if !ok || cmplxShort(w.Z) {
			continue
		}
		c.stamp.StampImpedance(star, bus, w.Z)
	}
}

func (c *build) stampMachine(m *element.SynchronousMachine) {
	bus, ok := c.bus(m.Bus)
	if !ok {
		c.log.Debug("element skipped", "element", m.ID(), "reason", "terminal out of service")
		return
	}
	if raw, ok := c.machine[m.ID()]; ok {
		c.stamp.StampAdmittance(c.idx(raw), bus, m.Admittance())
		return
	}
	c.stamp.StampShunt(bus, m.Admittance())
}

func (c *build) stampShunt(el element.Element, id types.BusID, y complex128) {
	bus, ok := c.bus(id)
	if !ok {
		c.log.Debug("element skipped", "element", el.ID(), "reason", "terminal out of service")
		return
	}
	c.stamp.StampShunt(bus, y)
}

// finish 消去星点并生成带标签的矩阵
func (c *build) finish() (*AdmittanceMatrix, error) {
	m := c.stamp.A
	size := len(c.order)
	for k := size - 1; k >= 0 && c.kinds[c.order[k]] == kindStar; k-- {
		reduced, err := maths.EliminateOne(m, k)
		if err != nil {
			owner := c.owners[c.order[k]]
			if errors.Is(err, maths.ErrSingular) {
				return nil, &types.InvalidParameterError{ID: owner, Reason: "star point admittance is singular"}
			}
			return nil, err
		}
		c.log.Debug("star point eliminated", "transformer", c.owners[c.order[k]])
		m = reduced
		size--
	}

	labels := make([]string, size)
	internal := make([]bool, size)
	busIDs := map[string]bool{}
	for _, b := range c.buses {
		busIDs[b.ID] = true
	}
	for k := range size {
		root := c.order[k]
		switch c.kinds[root] {
		case kindBus:
			labels[k] = c.buses[root].ID
		case kindMachine:
			labels[k] = c.owners[root]
			internal[k] = true
			if busIDs[labels[k]] {
				return nil, &types.InvalidParameterError{ID: labels[k], Reason: "machine internal node label collides with a bus id"}
			}
		}
	}
	aliases := map[string]string{}
	for i, b := range c.buses {
		if root := c.nodes.find(i); root != i {
			aliases[b.ID] = c.buses[root].ID
		}
	}
	return newMatrix(m, labels, internal, aliases)
}
