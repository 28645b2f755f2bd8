package credential

import (
	"sync"
	"testing"
)

func TestGate_IsValid(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*Gate)
		want  bool
	}{
		{name: "absent", setup: func(g *Gate) { g.Clear() }, want: false},
		{name: "empty", setup: func(g *Gate) { g.Set("") }, want: false},
		{name: "blank", setup: func(g *Gate) { g.Set(" \t\n ") }, want: false},
		{name: "value", setup: func(g *Gate) { g.Set("z_c0=abc") }, want: true},
		{name: "padded value", setup: func(g *Gate) { g.Set("  z_c0=abc  ") }, want: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := &Gate{}
			tc.setup(g)
			if got := g.IsValid(); got != tc.want {
				t.Fatalf("IsValid()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestGate_GetReturnsLatestValue(t *testing.T) {
	g := NewGate("first")
	g.Set("second")
	value, ok := g.Get()
	if !ok || value != "second" {
		t.Fatalf("unexpected value: %q ok=%v", value, ok)
	}

	g.Clear()
	if _, ok := g.Get(); ok {
		t.Fatal("expected cleared gate to report absent")
	}
}

func TestGate_NilIsInvalid(t *testing.T) {
	var g *Gate
	if g.IsValid() {
		t.Fatal("expected nil gate to be invalid")
	}
}

func TestGate_ConcurrentReadersAndWriter(t *testing.T) {
	g := NewGate("a")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = g.IsValid()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			g.Set("b")
		} else {
			g.Clear()
		}
	}
	wg.Wait()
}
