package load

import (
	"fmt"
	"math"

	"admittance/element"
	"admittance/network"
	"admittance/types"
)

// record 元件记录。标幺参数直接给出，或通过 rating 由铭牌参数换算。
type record struct {
	ID        string   `yaml:"id"`
	Type      string   `yaml:"type"`
	Terminals []string `yaml:"terminals"`
	InService *bool    `yaml:"in_service"`
	BaseMVA   float64  `yaml:"base_mva"`

	R        float64 `yaml:"r"`
	X        float64 `yaml:"x"`
	B        float64 `yaml:"b"`
	G        float64 `yaml:"g"`
	Parallel int     `yaml:"parallel"`

	Tap           float64     `yaml:"tap"`
	PhaseShiftDeg float64     `yaml:"phase_shift_deg"`
	Windings      []impedance `yaml:"windings"` // 三绕组星形等值阻抗 HV、MV、LV

	Closed *bool `yaml:"closed"`

	Ra float64 `yaml:"ra"`
	Xd float64 `yaml:"xd"`
	P  float64 `yaml:"p"`
	Q  float64 `yaml:"q"`

	Rating *rating `yaml:"rating"`
}

type impedance struct {
	R float64 `yaml:"r"`
	X float64 `yaml:"x"`
}

// rating 铭牌参数，单位 Ω、µS、%、MVA、kV
type rating struct {
	ROhm    float64 `yaml:"r_ohm"`
	XOhm    float64 `yaml:"x_ohm"`
	BMicroS float64 `yaml:"b_us"`
	GMicroS float64 `yaml:"g_us"`

	UkPct      float64        `yaml:"uk_pct"`
	UkrPct     float64        `yaml:"ukr_pct"`
	RatedMVA   float64        `yaml:"rated_mva"`
	RatedHVKV  float64        `yaml:"rated_hv_kv"`
	RatedLVKV  float64        `yaml:"rated_lv_kv"`
	TapPos     int            `yaml:"tap_pos"`
	TapStepPct float64        `yaml:"tap_step_pct"`
	Pairs      []shortCircuit `yaml:"pairs"` // 三绕组：HV-MV、MV-LV、LV-HV

	Ra  float64 `yaml:"ra"`
	Xl  float64 `yaml:"xl"`
	Xd1 float64 `yaml:"xd1"`
	PMW float64 `yaml:"p_mw"`
	QMV float64 `yaml:"q_mvar"`
	VPU float64 `yaml:"v_pu"` // 负荷额定功率对应的电压，缺省 1

	SscMVA float64  `yaml:"ssc_mva"`
	C      *float64 `yaml:"c"`
	RX     float64  `yaml:"rx"`
}

type shortCircuit struct {
	UkPct    float64 `yaml:"uk_pct"`
	UkrPct   float64 `yaml:"ukr_pct"`
	RatedMVA float64 `yaml:"rated_mva"`
}

// builder 单条记录的创建上下文
type builder struct {
	net    *network.Network
	rec    *record
	common element.Common
	base   float64 // 系统基准容量
}

// creators 各类型元件的创建函数
var creators = map[types.ElementType]func(b *builder) (element.Element, error){
	types.TypeLine:               (*builder).line,
	types.TypeTransformer2W:      (*builder).transformer2W,
	types.TypeTransformer3W:      (*builder).transformer3W,
	types.TypeLoad:               (*builder).load,
	types.TypeSynchronousMachine: (*builder).machine,
	types.TypeSwitch:             (*builder).switchElement,
	types.TypeCommonImpedance:    (*builder).commonImpedance,
	types.TypeACVoltageSource:    (*builder).source,
	types.TypeShunt:              (*builder).shunt,
	types.TypeExternalGrid:       (*builder).externalGrid,
}

// create 按类型标签创建元件
func create(net *network.Network, rec *record, base float64) (element.Element, error) {
	et := types.GetNameType(rec.Type)
	fn, ok := creators[et]
	if !ok {
		return nil, &types.UnsupportedElementTypeError{ElementID: rec.ID, Tag: rec.Type}
	}
	if len(rec.Terminals) != et.Terminals() {
		return nil, &types.InvalidParameterError{ID: rec.ID, Reason: fmt.Sprintf("%s needs %d terminals, got %d", et, et.Terminals(), len(rec.Terminals))}
	}
	elementBase := rec.BaseMVA
	if elementBase == 0 || rec.Rating != nil {
		elementBase = base
	}
	b := &builder{
		net:    net,
		rec:    rec,
		common: element.Common{Name: rec.ID, InService: enabled(rec.InService), BaseMVA: elementBase},
		base:   base,
	}
	return fn(b)
}

func (b *builder) terminal(i int) string { return b.rec.Terminals[i] }

// kv 端口母线的额定电压，铭牌换算需要
func (b *builder) kv(i int) (float64, error) {
	bus, ok := b.net.Bus(b.terminal(i))
	if !ok {
		return 0, &types.UnknownBusError{ElementID: b.rec.ID, BusID: b.terminal(i)}
	}
	if !(bus.NominalKV > 0) {
		return 0, &types.InvalidParameterError{ID: b.rec.ID, Reason: fmt.Sprintf("rating needs nominal_kv of bus %q", bus.ID)}
	}
	return bus.NominalKV, nil
}

// ohms 有名值阻抗换算为标幺值
func (b *builder) ohms() (complex128, error) {
	kv, err := b.kv(0)
	if err != nil {
		return 0, err
	}
	return element.SourceImpedance(b.rec.Rating.ROhm, b.rec.Rating.XOhm, kv, b.base), nil
}

func (b *builder) invalid(err error) error {
	return &types.InvalidParameterError{ID: b.rec.ID, Reason: err.Error()}
}

func (b *builder) line() (element.Element, error) {
	l := &element.Line{Common: b.common, From: b.terminal(0), To: b.terminal(1),
		R: b.rec.R, X: b.rec.X, B: b.rec.B, Parallel: b.rec.Parallel}
	if rt := b.rec.Rating; rt != nil {
		kv, err := b.kv(0)
		if err != nil {
			return nil, err
		}
		l.R, l.X, l.B = element.LineFromOhms(rt.ROhm, rt.XOhm, rt.BMicroS, kv, b.base)
	}
	return l, nil
}

func (b *builder) transformer2W() (element.Element, error) {
	t := &element.Transformer2W{Common: b.common, HV: b.terminal(0), LV: b.terminal(1),
		R: b.rec.R, X: b.rec.X, Tap: b.rec.Tap, PhaseShift: b.rec.PhaseShiftDeg * math.Pi / 180, Parallel: b.rec.Parallel}
	rt := b.rec.Rating
	if rt == nil {
		return t, nil
	}
	r, x, err := element.TransformerFromShortCircuit(rt.UkPct, rt.UkrPct, rt.RatedMVA, b.base)
	if err != nil {
		return nil, b.invalid(err)
	}
	t.R, t.X = r, x
	ratio := 1.0
	if rt.RatedHVKV > 0 && rt.RatedLVKV > 0 {
		hv, err := b.kv(0)
		if err != nil {
			return nil, err
		}
		lv, err := b.kv(1)
		if err != nil {
			return nil, err
		}
		ratio = element.OffNominalRatio(rt.RatedHVKV, rt.RatedLVKV, hv, lv)
	}
	t.Tap = element.TapRatio(ratio, rt.TapPos, rt.TapStepPct)
	return t, nil
}

func (b *builder) transformer3W() (element.Element, error) {
	t := &element.Transformer3W{Common: b.common, HV: b.terminal(0), MV: b.terminal(1), LV: b.terminal(2)}
	if rt := b.rec.Rating; rt != nil {
		if len(rt.Pairs) != 3 {
			return nil, &types.InvalidParameterError{ID: b.rec.ID, Reason: "rating needs 3 short-circuit pairs"}
		}
		var uk, ukr, rated [3]float64
		for i, p := range rt.Pairs {
			uk[i], ukr[i], rated[i] = p.UkPct, p.UkrPct, p.RatedMVA
		}
		z, err := element.Transformer3WFromShortCircuit(uk, ukr, rated, b.base)
		if err != nil {
			return nil, b.invalid(err)
		}
		t.ZHV, t.ZMV, t.ZLV = z[0], z[1], z[2]
		return t, nil
	}
	if len(b.rec.Windings) != 3 {
		return nil, &types.InvalidParameterError{ID: b.rec.ID, Reason: fmt.Sprintf("need 3 windings, got %d", len(b.rec.Windings))}
	}
	w := b.rec.Windings
	t.ZHV, t.ZMV, t.ZLV = complex(w[0].R, w[0].X), complex(w[1].R, w[1].X), complex(w[2].R, w[2].X)
	return t, nil
}

func (b *builder) load() (element.Element, error) {
	l := &element.Load{Common: b.common, Bus: b.terminal(0), G: b.rec.G, B: b.rec.B}
	if rt := b.rec.Rating; rt != nil {
		v := rt.VPU
		if v == 0 {
			v = 1
		}
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, &types.InvalidParameterError{ID: b.rec.ID, Reason: fmt.Sprintf("rating needs positive v_pu, got %v", v)}
		}
		y := element.LoadAdmittance(rt.PMW, rt.QMV, v, b.base)
		l.G, l.B = real(y), imag(y)
	}
	return l, nil
}

func (b *builder) machine() (element.Element, error) {
	m := &element.SynchronousMachine{Common: b.common, Bus: b.terminal(0),
		Ra: b.rec.Ra, Xd: b.rec.Xd, P: b.rec.P, Q: b.rec.Q}
	if rt := b.rec.Rating; rt != nil {
		if !(rt.RatedMVA > 0) {
			return nil, &types.InvalidParameterError{ID: b.rec.ID, Reason: "rating needs positive rated_mva"}
		}
		z := element.MachineImpedance(rt.Ra, rt.Xl, rt.Xd1, rt.RatedMVA, b.base)
		m.Ra, m.Xd = real(z), imag(z)
		m.P, m.Q = rt.PMW/b.base, rt.QMV/b.base
	}
	return m, nil
}

func (b *builder) switchElement() (element.Element, error) {
	return &element.Switch{Common: b.common, From: b.terminal(0), To: b.terminal(1),
		Closed: enabled(b.rec.Closed), R: b.rec.R, X: b.rec.X}, nil
}

func (b *builder) commonImpedance() (element.Element, error) {
	c := &element.CommonImpedance{Common: b.common, From: b.terminal(0), To: b.terminal(1), R: b.rec.R, X: b.rec.X}
	if b.rec.Rating != nil {
		z, err := b.ohms()
		if err != nil {
			return nil, err
		}
		c.R, c.X = real(z), imag(z)
	}
	return c, nil
}

func (b *builder) source() (element.Element, error) {
	s := &element.ACVoltageSource{Common: b.common, Bus: b.terminal(0), R: b.rec.R, X: b.rec.X}
	if b.rec.Rating != nil {
		z, err := b.ohms()
		if err != nil {
			return nil, err
		}
		s.R, s.X = real(z), imag(z)
	}
	return s, nil
}

func (b *builder) shunt() (element.Element, error) {
	s := &element.Shunt{Common: b.common, Bus: b.terminal(0), G: b.rec.G, B: b.rec.B}
	if rt := b.rec.Rating; rt != nil {
		kv, err := b.kv(0)
		if err != nil {
			return nil, err
		}
		y := element.ShuntAdmittance(rt.GMicroS, rt.BMicroS, kv, b.base)
		s.G, s.B = real(y), imag(y)
	}
	return s, nil
}

func (b *builder) externalGrid() (element.Element, error) {
	g := &element.ExternalGrid{Common: b.common, Bus: b.terminal(0), R: b.rec.R, X: b.rec.X}
	if rt := b.rec.Rating; rt != nil {
		if !(rt.SscMVA > 0) {
			return nil, &types.InvalidParameterError{ID: b.rec.ID, Reason: "rating needs positive ssc_mva"}
		}
		c := 1.1
		if rt.C != nil {
			c = *rt.C
		}
		z := element.ExternalGridImpedance(rt.SscMVA, c, rt.RX, b.base)
		g.R, g.X = real(z), imag(z)
	}
	return g, nil
}
