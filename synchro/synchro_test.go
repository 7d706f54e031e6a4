package synchro

import (
	"errors"
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"admittance/element"
	"admittance/kron"
	"admittance/network"
	"admittance/types"
	"admittance/ybus"

	"gotest.tools/v3/assert"
)

func approx(t *testing.T, got, want float64, msg ...any) {
	t.Helper()
	assert.Assert(t, math.Abs(got-want) < 1e-9, "got %v want %v %v", got, want, msg)
}

// threeMachines 三台电机经内部节点降阶后的导纳矩阵
func threeMachines(t *testing.T) (*ybus.AdmittanceMatrix, *network.Network) {
	t.Helper()
	net, err := network.New(100)
	assert.NilError(t, err)
	for _, id := range []string{"A", "B", "C", "D"} {
		assert.NilError(t, net.AddBus(element.NewBus(id, 110)))
	}
	for _, el := range []element.Element{
		&element.Line{Common: element.NewCommon("L1", 100), From: "A", To: "D", R: 0.01, X: 0.1},
		&element.Line{Common: element.NewCommon("L2", 100), From: "B", To: "D", R: 0.02, X: 0.15},
		&element.Line{Common: element.NewCommon("L3", 100), From: "C", To: "D", R: 0.01, X: 0.2},
		&element.Load{Common: element.NewCommon("D1", 100), Bus: "D", G: 1.2, B: -0.4},
		&element.SynchronousMachine{Common: element.NewCommon("G1", 100), Bus: "A", Ra: 0.003, Xd: 0.2, P: 0.8, Q: 0.2},
		&element.SynchronousMachine{Common: element.NewCommon("G2", 100), Bus: "B", Xd: 0.25, P: 0.5, Q: 0.1},
		&element.SynchronousMachine{Common: element.NewCommon("G3", 100), Bus: "C", Xd: 0.3, P: 0.3},
	} {
		assert.NilError(t, net.AddElement(el))
	}
	y, err := ybus.Build(net, ybus.WithMachineInternalNodes(true))
	assert.NilError(t, err)
	idx, err := kron.Generators(y, net, types.RetainGenerators, nil)
	assert.NilError(t, err)
	red, err := kron.Reduce(y, idx)
	assert.NilError(t, err)
	return red, net
}

func TestTwoMachineCoefficient(t *testing.T) {
	x := 0.5
	y, err := ybus.NewAdmittanceMatrix([]string{"G1", "G2"}, [][]complex128{
		{complex(0, -1/x), complex(0, 1/x)},
		{complex(0, 1/x), complex(0, -1/x)},
	})
	assert.NilError(t, err)
	op := OperatingPoint{
		"G1": {Magnitude: 1.1, Angle: 0.3},
		"G2": {Magnitude: 1.0, Angle: 0},
	}
	k, err := Coefficients(y, op)
	assert.NilError(t, err)

	// 纯电抗：K_12 = -|E1||E2|·B_12·cos(δ12)
	want := -1.1 * 1.0 / x * math.Cos(0.3)
	approx(t, k.At(0, 1), want)
	approx(t, k.At(1, 0), want)
	approx(t, k.At(0, 0), -want)
	assert.DeepEqual(t, k.Labels(), []string{"G1", "G2"})
}

func TestLossyCoefficient(t *testing.T) {
	yij := complex(-0.4, 3)
	y, err := ybus.NewAdmittanceMatrix([]string{"A", "B"}, [][]complex128{{-yij, yij}, {yij, -yij}})
	assert.NilError(t, err)
	op := OperatingPoint{"A": {1.05, 0.2}, "B": {0.95, -0.1}}
	k, err := Coefficients(y, op)
	assert.NilError(t, err)
	d := 0.3
	approx(t, k.At(0, 1), 1.05*0.95*(real(yij)*math.Sin(d)-imag(yij)*math.Cos(d)))
	approx(t, k.At(1, 0), 1.05*0.95*(real(yij)*math.Sin(-d)-imag(yij)*math.Cos(-d)))
}

func TestDiagonalBalancesRow(t *testing.T) {
	y, net := threeMachines(t)
	lf, err := FromLoadFlow([]BusResult{
		{Bus: "A", Voltage: 1.02, AngleDeg: 8},
		{Bus: "B", Voltage: 1.01, AngleDeg: 4},
		{Bus: "C", Voltage: 1.0, AngleDeg: 1},
	})
	assert.NilError(t, err)
	op, err := MachineOperatingPoint(y, net, lf, nil)
	assert.NilError(t, err)

	k, err := Coefficients(y, op)
	assert.NilError(t, err)
	assert.DeepEqual(t, k.Labels(), []string{"G1", "G2", "G3"})
	for i := range k.Size() {
		approx(t, k.RowSum(i), 0, i)
		var off float64
		for j := range k.Size() {
			if j != i {
				off += k.At(i, j)
			}
		}
		approx(t, k.At(i, i), -off, i)
	}
}

func TestMissingOperatingPoint(t *testing.T) {
	y, err := ybus.NewAdmittanceMatrix([]string{"G1", "G2"}, [][]complex128{{-2i, 2i}, {2i, -2i}})
	assert.NilError(t, err)
	k, err := Coefficients(y, OperatingPoint{"G1": {1, 0}})
	assert.Assert(t, k == nil)
	assert.ErrorIs(t, err, types.ErrMissingOperatingPoint)
	var missing *types.MissingOperatingPointError
	assert.Assert(t, errors.As(err, &missing))
	assert.Equal(t, missing.BusID, "G2")
}

func TestOperatingPointThroughAlias(t *testing.T) {
	net, err := network.New(100)
	assert.NilError(t, err)
	for _, id := range []string{"A", "B", "C"} {
		assert.NilError(t, net.AddBus(element.NewBus(id, 110)))
	}
	assert.NilError(t, net.AddElement(&element.Switch{Common: element.NewCommon("S1", 100), From: "A", To: "B", Closed: true}))
	assert.NilError(t, net.AddElement(&element.Line{Common: element.NewCommon("L1", 100), From: "B", To: "C", X: 0.1}))
	y, err := ybus.Build(net)
	assert.NilError(t, err)

	// 只给出被合并母线 B 的相量
	k, err := Coefficients(y, OperatingPoint{"B": {1, 0.1}, "C": {1, 0}})
	assert.NilError(t, err)
	approx(t, k.At(0, 1), -10*math.Cos(0.1))
}

func TestFromLoadFlow(t *testing.T) {
	op, err := FromLoadFlow([]BusResult{{Bus: "A", Voltage: 1.02, AngleDeg: 30}, {Bus: "B", Voltage: 0.99, AngleDeg: -90}})
	assert.NilError(t, err)
	approx(t, op["A"].Magnitude, 1.02)
	approx(t, op["A"].Angle, math.Pi/6)
	approx(t, op["B"].Angle, -math.Pi/2)

	_, err = FromLoadFlow([]BusResult{{Bus: "A", Voltage: 1}, {Bus: "A", Voltage: 1}})
	assert.ErrorIs(t, err, types.ErrDuplicateID)
	_, err = FromLoadFlow([]BusResult{{Bus: "A", Voltage: math.NaN()}})
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestInternalEMF(t *testing.T) {
	e := InternalEMF(Phasor{Magnitude: 1}, complex(0, 0.2), complex(1, 0))
	assert.Assert(t, cmplx.Abs(e.Complex()-complex(1, 0.2)) < 1e-12)

	// 迟相运行时内电势幅值高于端电压
	v := Phasor{Magnitude: 1.0, Angle: 0.1}
	e = InternalEMF(v, complex(0.003, 0.25), complex(0.8, 0.3))
	assert.Assert(t, e.Magnitude > v.Magnitude)
	assert.Assert(t, e.Angle > v.Angle)
}

func TestMachineOperatingPoint(t *testing.T) {
	y, net := threeMachines(t)
	lf := OperatingPoint{"A": {1, 0}, "B": {1, 0}, "C": {1, 0}}
	op, err := MachineOperatingPoint(y, net, lf, map[string]complex128{"G3": 0})
	assert.NilError(t, err)
	assert.Equal(t, len(lf), 3, "input is not modified")
	assert.Equal(t, op["G3"], Phasor{Magnitude: 1, Angle: 0})
	assert.Assert(t, cmplx.Abs(op["G2"].Complex()-(1+0.25i*(0.5-0.1i))) < 1e-12)

	_, err = MachineOperatingPoint(y, net, OperatingPoint{"A": {1, 0}}, nil)
	assert.ErrorIs(t, err, types.ErrMissingOperatingPoint)
	_, err = MachineOperatingPoint(y, net, OperatingPoint{"A": {1, 0}, "B": {0, 0}, "C": {1, 0}}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestDistributionRatios(t *testing.T) {
	y, net := threeMachines(t)
	lf := OperatingPoint{"A": {1.02, 0.12}, "B": {1.01, 0.06}, "C": {1, 0}}
	op, err := MachineOperatingPoint(y, net, lf, nil)
	assert.NilError(t, err)
	k, err := Coefficients(y, op)
	assert.NilError(t, err)

	r, err := k.DistributionRatios("G1")
	assert.NilError(t, err)
	assert.Equal(t, r["G1"], 0.0)
	approx(t, r["G2"]+r["G3"], 1)
	assert.Assert(t, r["G2"] > 0 && r["G3"] > 0)

	_, err = k.DistributionRatios("G9")
	assert.ErrorIs(t, err, types.ErrUnknownBus)
}

func TestMatrixOutput(t *testing.T) {
	y, err := ybus.NewAdmittanceMatrix([]string{"G1", "G2"}, [][]complex128{{-2i, 2i}, {2i, -2i}})
	assert.NilError(t, err)
	k, err := Coefficients(y, OperatingPoint{"G1": {1, 0}, "G2": {1, 0}})
	assert.NilError(t, err)

	d := k.Dense()
	d.Set(0, 0, 42)
	approx(t, k.At(0, 0), 2, "dense is a copy")
	v, err := k.AtID("G2", "G1")
	assert.NilError(t, err)
	approx(t, v, -2)
	_, err = k.AtID("G1", "X")
	assert.ErrorIs(t, err, types.ErrUnknownBus)
	assert.Error(t, err, `bus "X": unknown bus`)

	var sb strings.Builder
	assert.NilError(t, k.Format(&sb))
	assert.Assert(t, strings.Contains(sb.String(), "-2.0000"), sb.String())
	assert.Assert(t, strings.Contains(sb.String(), "G2"))
}
