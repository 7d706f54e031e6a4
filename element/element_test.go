package element

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"admittance/types"

	"gotest.tools/v3/assert"
)

func near(a, b complex128) bool { return cmplx.Abs(a-b) < 1e-9 }

func TestElementsImplementInterface(t *testing.T) {
	c := NewCommon("E", 100)
	all := []Element{
		&Line{Common: c}, &Transformer2W{Common: c}, &Transformer3W{Common: c},
		&Load{Common: c}, &SynchronousMachine{Common: c}, &Switch{Common: c},
		&CommonImpedance{Common: c}, &ACVoltageSource{Common: c}, &Shunt{Common: c},
		&ExternalGrid{Common: c},
	}
	seen := map[types.ElementType]bool{}
	for _, el := range all {
		assert.Equal(t, len(el.Terminals()), el.Type().Terminals(), el.Type().String())
		seen[el.Type()] = true
		assert.Assert(t, el.Active())
		assert.Equal(t, el.Base(), 100.0)
	}
	assert.Equal(t, len(seen), len(types.ElementTypes()))
}

func TestLineSeriesAndCharging(t *testing.T) {
	l := &Line{Common: NewCommon("L1", 100), From: "A", To: "B", R: 0.01, X: 0.1, B: 0.04, Parallel: 2}
	y, ok := l.Series()
	assert.Assert(t, ok)
	assert.Assert(t, near(y, 2/complex(0.01, 0.1)))
	assert.Assert(t, near(l.Charging(), 0.04i))

	short := &Line{Common: NewCommon("L2", 100), From: "A", To: "B"}
	_, ok = short.Series()
	assert.Assert(t, !ok)
}

func TestTransformerStamp(t *testing.T) {
	tr := &Transformer2W{Common: NewCommon("T1", 100), HV: "A", LV: "B", X: 0.1, Tap: 1.05, PhaseShift: math.Pi / 6}
	assert.NilError(t, tr.Validate())
	s := tr.Stamp()
	y := 1 / complex(0, 0.1)
	a := cmplx.Rect(1.05, math.Pi/6)
	assert.Assert(t, near(s[0][0], y/complex(1.05*1.05, 0)))
	assert.Assert(t, near(s[1][1], y))
	assert.Assert(t, near(s[0][1], -y/cmplx.Conj(a)))
	assert.Assert(t, near(s[1][0], -y/a))

	nominal := &Transformer2W{Common: NewCommon("T2", 100), HV: "A", LV: "B", X: 0.1}
	assert.Equal(t, nominal.Ratio(), complex(1, 0))
}

func TestValidate(t *testing.T) {
	cases := []Element{
		&Line{Common: NewCommon("L", 100), R: math.NaN()},
		&SynchronousMachine{Common: NewCommon("G", 100)},
		&ExternalGrid{Common: NewCommon("X", 100)},
		&Transformer2W{Common: NewCommon("T", 100), X: 0.1, Tap: -1},
		&Transformer2W{Common: NewCommon("T0", 100)},
	}
	for _, el := range cases {
		err := el.Validate()
		var invalid *types.InvalidParameterError
		assert.Assert(t, errors.As(err, &invalid), el.ID())
		assert.Equal(t, invalid.ID, el.ID())
	}
}

func TestLineFromOhms(t *testing.T) {
	// 110 kV, 100 MVA: Zb = 121 Ω
	r, x, b := LineFromOhms(1.21, 12.1, 100, 110, 100)
	assert.Assert(t, math.Abs(r-0.01) < 1e-12)
	assert.Assert(t, math.Abs(x-0.1) < 1e-12)
	assert.Assert(t, math.Abs(b-0.0121) < 1e-12)
}

func TestTransformerFromShortCircuit(t *testing.T) {
	r, x, err := TransformerFromShortCircuit(10, 6, 50, 100)
	assert.NilError(t, err)
	assert.Assert(t, math.Abs(r-0.12) < 1e-12)
	assert.Assert(t, math.Abs(x-0.16) < 1e-12)

	_, _, err = TransformerFromShortCircuit(1, 2, 50, 100)
	assert.ErrorContains(t, err, "smaller than ukr")
	assert.Assert(t, math.Abs(OffNominalRatio(115, 10.5, 110, 10)-(115/10.5)/11) < 1e-12)
	assert.Assert(t, math.Abs(TapRatio(1, -2, 1.25)-0.975) < 1e-12)
}

func TestStarImpedances(t *testing.T) {
	zHM, zML, zLH := complex(0.01, 0.1), complex(0.02, 0.15), complex(0.015, 0.2)
	z := StarImpedances(zHM, zML, zLH)
	// 星形两支路之和还原为三角形的对应阻抗
	assert.Assert(t, near(z[0]+z[1], zHM))
	assert.Assert(t, near(z[1]+z[2], zML))
	assert.Assert(t, near(z[2]+z[0], zLH))

	got, err := Transformer3WFromShortCircuit([3]float64{10, 10, 10}, [3]float64{}, [3]float64{100, 100, 100}, 100)
	assert.NilError(t, err)
	for _, zi := range got {
		assert.Assert(t, near(zi, 0.05i))
	}
}

func TestSourceConversions(t *testing.T) {
	assert.Assert(t, near(MachineImpedance(0.005, 0.1, 0.2, 200, 100), complex(0.0025, 0.15)))

	// S_sc = 1000 MVA, c = 1.1, R/X = 0, 100 MVA 基准: X = 0.11
	assert.Assert(t, near(ExternalGridImpedance(1000, 1.1, 0, 100), 0.11i))
	zg := ExternalGridImpedance(1000, 1, 0.1, 100)
	assert.Assert(t, math.Abs(cmplx.Abs(zg)-0.1) < 1e-12)
	assert.Assert(t, math.Abs(real(zg)/imag(zg)-0.1) < 1e-12)

	assert.Assert(t, near(LoadAdmittance(50, 20, 1, 100), complex(0.5, -0.2)))
	assert.Assert(t, near(LoadAdmittance(50, 20, 0.5, 100), complex(2, -0.8)))
	assert.Assert(t, near(ShuntAdmittance(0, 100, 110, 100), 0.0121i))
	assert.Assert(t, near(SourceImpedance(1.21, 12.1, 110, 100), complex(0.01, 0.1)))
	assert.Assert(t, near(Rebase(0.1i, 50, 100), 0.2i))
}
