package network

import (
	"errors"
	"testing"

	"admittance/element"
	"admittance/types"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
)

func newNetwork(t *testing.T) *Network {
	t.Helper()
	net, err := New(100)
	assert.NilError(t, err)
	return net
}

func TestNewRejectsBadBase(t *testing.T) {
	_, err := New(0)
	assert.Assert(t, errors.Is(err, types.ErrInvalidParameter))
}

func TestPIDAssigned(t *testing.T) {
	a, b := newNetwork(t), newNetwork(t)
	assert.Assert(t, a.PID() != uuid.Nil)
	assert.Assert(t, a.PID() != b.PID())
}

func TestActiveBusOrder(t *testing.T) {
	net := newNetwork(t)
	assert.NilError(t, net.AddBus(element.NewBus("C", 110)))
	assert.NilError(t, net.AddBus(element.Bus{ID: "X", NominalKV: 110}))
	assert.NilError(t, net.AddBus(element.NewBus("A", 110)))
	assert.NilError(t, net.AddBus(element.NewBus("B", 20)))

	active := net.ActiveBuses()
	ids := make([]string, len(active))
	for i, b := range active {
		ids[i] = b.ID
	}
	assert.DeepEqual(t, ids, []string{"C", "A", "B"})

	i, ok := net.Index("A")
	assert.Assert(t, ok)
	assert.Equal(t, i, 1)
	_, ok = net.Index("X")
	assert.Assert(t, !ok, "out-of-service bus has no index")
	_, ok = net.Bus("X")
	assert.Assert(t, ok, "out-of-service bus is still stored")
	assert.Equal(t, len(net.Buses()), 4)
}

func TestDuplicateIDs(t *testing.T) {
	net := newNetwork(t)
	assert.NilError(t, net.AddBus(element.NewBus("A", 110)))
	assert.NilError(t, net.AddBus(element.NewBus("B", 110)))

	err := net.AddBus(element.NewBus("A", 20))
	var dup *types.DuplicateIDError
	assert.Assert(t, errors.As(err, &dup))
	assert.Equal(t, dup.ID, "A")

	line := &element.Line{Common: element.NewCommon("L1", 100), From: "A", To: "B", X: 0.1}
	assert.NilError(t, net.AddElement(line))
	err = net.AddElement(&element.Shunt{Common: element.NewCommon("L1", 100), Bus: "A"})
	assert.Assert(t, errors.As(err, &dup))
	assert.Equal(t, dup.Kind, "element")
	assert.Equal(t, len(net.Elements()), 1)
}

func TestUnknownTerminal(t *testing.T) {
	net := newNetwork(t)
	assert.NilError(t, net.AddBus(element.NewBus("A", 110)))
	err := net.AddElement(&element.Line{Common: element.NewCommon("L1", 100), From: "A", To: "Z"})
	var unknown *types.UnknownBusError
	assert.Assert(t, errors.As(err, &unknown))
	assert.Equal(t, unknown.BusID, "Z")
	_, ok := net.Element("L1")
	assert.Assert(t, !ok)
}

func TestElementsOf(t *testing.T) {
	net := newNetwork(t)
	for _, id := range []string{"A", "B", "C"} {
		assert.NilError(t, net.AddBus(element.NewBus(id, 110)))
	}
	assert.NilError(t, net.AddElement(&element.Line{Common: element.NewCommon("L1", 100), From: "A", To: "B", X: 0.1}))
	assert.NilError(t, net.AddElement(&element.Line{Common: element.NewCommon("L2", 100), From: "B", To: "C", X: 0.1}))
	assert.NilError(t, net.AddElement(&element.Load{Common: element.NewCommon("D1", 100), Bus: "B", G: 1}))

	var ids []string
	for el := range net.ElementsOf("B") {
		ids = append(ids, el.ID())
	}
	assert.DeepEqual(t, ids, []string{"L1", "L2", "D1"})

	// 提前终止
	count := 0
	for range net.ElementsOf("B") {
		count++
		break
	}
	assert.Equal(t, count, 1)
}

func TestFreeze(t *testing.T) {
	net := newNetwork(t)
	assert.NilError(t, net.AddBus(element.NewBus("A", 110)))
	net.Freeze()
	assert.Assert(t, net.Frozen())
	assert.ErrorIs(t, net.AddBus(element.NewBus("B", 110)), types.ErrFrozen)
	assert.ErrorIs(t, net.AddElement(&element.Shunt{Common: element.NewCommon("S", 100), Bus: "A"}), types.ErrFrozen)
}

func TestMachines(t *testing.T) {
	net := newNetwork(t)
	assert.NilError(t, net.AddBus(element.NewBus("A", 110)))
	g1 := &element.SynchronousMachine{Common: element.NewCommon("G1", 100), Bus: "A", Xd: 0.2}
	g2 := &element.SynchronousMachine{Common: element.Common{Name: "G2", BaseMVA: 100}, Bus: "A", Xd: 0.2}
	assert.NilError(t, net.AddElement(g1))
	assert.NilError(t, net.AddElement(g2))
	machines := net.Machines()
	assert.Equal(t, len(machines), 1)
	assert.Equal(t, machines[0].ID(), "G1")
}
