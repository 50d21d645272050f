package rng

import "testing"

func TestForCommand_Deterministic(t *testing.T) {
	a := ForCommand(42, 7)
	b := ForCommand(42, 7)
	for i := 0; i < 20; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestScripted(t *testing.T) {
	s := &Scripted{Values: []int{3, 9, -1}}
	if v := s.Intn(6); v != 3 {
		t.Fatalf("got %d", v)
	}
	if v := s.Intn(6); v != 3 {
		t.Fatalf("got %d want 9%%6", v)
	}
	if v := s.Intn(6); v != 5 {
		t.Fatalf("got %d", v)
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected exhausted")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	s.Intn(2)
}
