package network

import (
	"iter"
	"sync"

	"admittance/element"
	"admittance/types"

	"github.com/google/uuid"
)

// Network 电力网络拓扑：母线与元件的容器
// 投运母线按加入顺序编号，编号即导纳矩阵的行列顺序，在实例生命周期内不变。
// 冻结后只读，可被多个构建过程并发读取。
type Network struct {
	mu       sync.RWMutex
	pid      uuid.UUID
	baseMVA  float64
	frozen   bool
	buses    []element.Bus                     // 加入顺序
	busByID  map[types.BusID]int               // 母线 -> buses 下标
	index    map[types.BusID]int               // 投运母线 -> 矩阵索引
	active   []int                             // 矩阵索引 -> buses 下标
	elements []element.Element                 // 加入顺序
	elemByID map[types.ElementID]int           // 元件 -> elements 下标
	incident map[types.BusID][]element.Element // 母线 -> 端口在此的元件
}

// New 创建网络，baseMVA 为系统基准容量
func New(baseMVA float64) (*Network, error) {
	if !(baseMVA > 0) {
		return nil, &types.InvalidParameterError{ID: "base_mva", Reason: "must be positive"}
	}
	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	return &Network{
		pid:      pid,
		baseMVA:  baseMVA,
		busByID:  map[types.BusID]int{},
		index:    map[types.BusID]int{},
		elemByID: map[types.ElementID]int{},
		incident: map[types.BusID][]element.Element{},
	}, nil
}

// PID 网络实例标识
func (n *Network) PID() uuid.UUID { return n.pid }

// BaseMVA 系统基准容量
func (n *Network) BaseMVA() float64 { return n.baseMVA }

// AddBus 添加母线，标识重复时返回 *types.DuplicateIDError
func (n *Network) AddBus(bus element.Bus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.frozen {
		return types.ErrFrozen
	}
	if _, ok := n.busByID[bus.ID]; ok {
		return &types.DuplicateIDError{Kind: "bus", ID: bus.ID}
	}
	n.busByID[bus.ID] = len(n.buses)
	if bus.InService {
		n.index[bus.ID] = len(n.active)
		n.active = append(n.active, len(n.buses))
	}
	n.buses = append(n.buses, bus)
	return nil
}

// AddElement 添加元件，标识重复时返回 *types.DuplicateIDError，
// 端口母线不存在时返回 *types.UnknownBusError
func (n *Network) AddElement(el element.Element) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.frozen {
		return types.ErrFrozen
	}
	if _, ok := n.elemByID[el.ID()]; ok {
		return &types.DuplicateIDError{Kind: "element", ID: el.ID()}
	}
	terminals := el.Terminals()
	for _, bus := range terminals {
		if _, ok := n.busByID[bus]; !ok {
			return &types.UnknownBusError{ElementID: el.ID(), BusID: bus}
		}
	}
	n.elemByID[el.ID()] = len(n.elements)
	n.elements = append(n.elements, el)
	for i, bus := range terminals {
		if !contains(terminals[:i], bus) {
			n.incident[bus] = append(n.incident[bus], el)
		}
	}
	return nil
}

func contains(list []types.BusID, id types.BusID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// Freeze 冻结网络，之后的修改返回 types.ErrFrozen
func (n *Network) Freeze() {
	n.mu.Lock()
	n.frozen = true
	n.mu.Unlock()
}

// Frozen 是否已冻结
func (n *Network) Frozen() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.frozen
}

// ActiveBuses 投运母线（按矩阵索引顺序）
func (n *Network) ActiveBuses() []element.Bus {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]element.Bus, len(n.active))
	for i, k := range n.active {
		out[i] = n.buses[k]
	}
	return out
}

// Buses 全部母线（含停运，按加入顺序）
func (n *Network) Buses() []element.Bus {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]element.Bus(nil), n.buses...)
}

// Bus 按标识查找母线
func (n *Network) Bus(id types.BusID) (element.Bus, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	k, ok := n.busByID[id]
	if !ok {
		return element.Bus{}, false
	}
	return n.buses[k], true
}

// Index 投运母线的矩阵索引
func (n *Network) Index(id types.BusID) (int, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	i, ok := n.index[id]
	return i, ok
}

// Elements 全部元件（含停运，按加入顺序）
func (n *Network) Elements() []element.Element {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]element.Element(nil), n.elements...)
}

// Element 按标识查找元件
func (n *Network) Element(id types.ElementID) (element.Element, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	k, ok := n.elemByID[id]
	if !ok {
		return nil, false
	}
	return n.elements[k], true
}

// ElementsOf 端口连接在指定母线上的元件序列（按加入顺序，含停运元件）
func (n *Network) ElementsOf(id types.BusID) iter.Seq[element.Element] {
	return func(yield func(element.Element) bool) {
		n.mu.RLock()
		list := n.incident[id]
		n.mu.RUnlock()
		for _, el := range list {
			if !yield(el) {
				return
			}
		}
	}
}

// Machines 投运的同步电机（按加入顺序）
func (n *Network) Machines() []*element.SynchronousMachine {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var out []*element.SynchronousMachine
	for _, el := range n.elements {
		if m, ok := el.(*element.SynchronousMachine); ok && m.Active() {
			out = append(out, m)
		}
	}
	return out
}
