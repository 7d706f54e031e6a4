package types

import (
	"errors"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
)

func TestElementTypeTags(t *testing.T) {
	all := ElementTypes()
	assert.Equal(t, len(all), 10)
	for _, et := range all {
		assert.Equal(t, GetNameType(et.String()), et)
		assert.Assert(t, et.Terminals() >= 1 && et.Terminals() <= 3, et.String())
	}
	assert.Equal(t, GetNameType("hvdc"), TypeUnknown)
	assert.Equal(t, TypeTransformer3W.Terminals(), 3)
}

func TestElementRegisterTwicePanics(t *testing.T) {
	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	ElementRegister(TypeLine, "line", 2)
}

func TestErrorsMatchSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
		text     string
	}{
		{&DuplicateIDError{Kind: "bus", ID: "B1"}, ErrDuplicateID, `bus "B1"`},
		{&UnknownBusError{ElementID: "L1", BusID: "B9"}, ErrUnknownBus, `"B9"`},
		{&UnknownBusError{BusID: "G9"}, ErrUnknownBus, `bus "G9": unknown bus`},
		{&UnsupportedElementTypeError{ElementID: "X1", Tag: "hvdc"}, ErrUnsupportedElementType, `"X1"`},
		{&InconsistentBaseError{ElementID: "T1", Got: 1, Want: 100}, ErrInconsistentBase, `"T1"`},
		{&SingularReductionError{Buses: []BusID{"B3", "B4"}, Cond: 1e17}, ErrSingularReduction, "B3, B4"},
		{&MissingOperatingPointError{BusID: "G2"}, ErrMissingOperatingPoint, `"G2"`},
		{&InvalidParameterError{ID: "M1", Reason: "zero impedance"}, ErrInvalidParameter, "zero impedance"},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("stage: %w", c.err)
		assert.Assert(t, errors.Is(wrapped, c.sentinel), c.err.Error())
		assert.ErrorContains(t, wrapped, c.text)
	}
}
