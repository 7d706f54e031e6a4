package maths

import (
	"math"
	"testing"
)

func ladder() Matrix[complex128] {
	// 4 节点梯形网络，每个节点对地有少量导纳
	y1, y2, y3 := 1/(0.01+0.1i), 1/(0.02+0.2i), 1/(0.03+0.15i)
	g := 0.05 + 0i
	return NewDenseMatrixFrom([][]complex128{
		{y1 + g, -y1, 0, 0},
		{-y1, y1 + y2 + g, -y2, 0},
		{0, -y2, y2 + y3 + g, -y3},
		{0, 0, -y3, y3 + g},
	})
}

func TestSchurComplementEmptyDrop(t *testing.T) {
	a := ladder()
	got, err := SchurComplement(a, []int{0, 1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("SchurComplement failed: %v", err)
	}
	if !Equal(got, a, 0) {
		t.Errorf("empty elimination changed the matrix:\n%v", got)
	}
}

func TestSchurComplementReorder(t *testing.T) {
	a := ladder()
	got, err := SchurComplement(a, []int{3, 0}, nil)
	if err != nil {
		t.Fatalf("SchurComplement failed: %v", err)
	}
	if got.Get(0, 0) != a.Get(3, 3) || got.Get(1, 1) != a.Get(0, 0) || got.Get(0, 1) != a.Get(3, 0) {
		t.Errorf("retained order not honoured:\n%v", got)
	}
}

// TestEliminateOneSequence 逐个消去与一次性消去结果一致。
func TestEliminateOneSequence(t *testing.T) {
	a := ladder()
	once, err := SchurComplement(a, []int{0, 3}, []int{1, 2})
	if err != nil {
		t.Fatalf("SchurComplement failed: %v", err)
	}

	step, err := EliminateOne(a, 2)
	if err != nil {
		t.Fatalf("EliminateOne failed: %v", err)
	}
	// 消去节点2后，原节点1仍在索引1
	step, err = EliminateOne(step, 1)
	if err != nil {
		t.Fatalf("EliminateOne failed: %v", err)
	}
	if !Equal(once, step, 1e-9) {
		t.Errorf("sequential elimination differs:\n%v\n%v", once, step)
	}
}

func TestSchurComplementSingular(t *testing.T) {
	a := NewDenseMatrixFrom([][]complex128{
		{1, -1, 0},
		{-1, 1, 0},
		{0, 0, 0},
	})
	if _, err := SchurComplement(a, []int{0, 1}, []int{2}); err == nil {
		t.Fatalf("expected singular error")
	}
}

func TestComponents(t *testing.T) {
	a := NewDenseMatrixFrom([][]float64{
		{1, 1, 0, 0, 0},
		{1, 1, 0, 0, 0},
		{0, 0, 1, 0, 1},
		{0, 0, 0, 1, 0},
		{0, 0, 1, 0, 1},
	})
	comps := Components(a, []int{4, 0, 2, 3, 1})
	if len(comps) != 3 {
		t.Fatalf("want 3 components, got %v", comps)
	}
	want := [][]int{{4, 2}, {0, 1}, {3}}
	for i := range want {
		if len(comps[i]) != len(want[i]) {
			t.Fatalf("component %d = %v, want %v", i, comps[i], want[i])
		}
		for j := range want[i] {
			if comps[i][j] != want[i][j] {
				t.Errorf("component %d = %v, want %v", i, comps[i], want[i])
			}
		}
	}
}

func TestCond(t *testing.T) {
	if c := Cond(NewIdentity[complex128](3)); math.Abs(c-1) > 1e-12 {
		t.Errorf("Cond(I) = %g, want 1", c)
	}
	d := NewDenseMatrixFrom([][]complex128{{2i, 0}, {0, 0.5}})
	if c := Cond(d); math.Abs(c-4) > 1e-9 {
		t.Errorf("Cond(diag(2i,0.5)) = %g, want 4", c)
	}
	s := NewDenseMatrixFrom([][]complex128{{1, -1}, {-1, 1}})
	if c := Cond(s); c < 1e15 {
		t.Errorf("Cond(singular) = %g, want huge", c)
	}
}

func TestComplement(t *testing.T) {
	got := Complement(5, []int{3, 0})
	want := []int{1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("Complement = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Complement = %v, want %v", got, want)
		}
	}
}
