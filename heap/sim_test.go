package heap

import (
	"sync"
	"testing"
)

func TestSim_BudgetExhaustion(t *testing.T) {
	s := NewSimWithBudget(100)

	if err := s.AllocBytes(60); err != nil {
		t.Fatalf("first alloc failed: %v", err)
	}
	if err := s.AllocBytes(60); err == nil {
		t.Fatal("alloc past budget should fail")
	}
	if err := s.AllocBytes(40); err != nil {
		t.Fatalf("alloc within remaining budget failed: %v", err)
	}
	if s.BytesUsed() != 100 {
		t.Fatalf("BytesUsed = %d, want 100", s.BytesUsed())
	}
}

func TestSim_UnlimitedByDefault(t *testing.T) {
	s := NewSim()
	for i := 0; i < 1000; i++ {
		if err := s.AllocBytes(1 << 20); err != nil {
			t.Fatalf("unbudgeted alloc failed: %v", err)
		}
	}
}

func TestSim_ForwardingChain(t *testing.T) {
	s := NewSim()
	a, b, c := &struct{ n int }{1}, &struct{ n int }{2}, &struct{ n int }{3}

	if got := s.Adjust(a); got != a {
		t.Fatal("unrelocated ref should adjust to itself")
	}

	s.Relocate(a, b)
	s.Relocate(b, c)
	if got := s.Adjust(a); got != c {
		t.Fatal("Adjust should follow the forwarding chain to the newest copy")
	}
	if got := s.Adjust(nil); got != nil {
		t.Fatal("Adjust(nil) should be nil")
	}
}

func TestSim_ConcurrentAlloc(t *testing.T) {
	s := NewSim()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := s.AllocBytes(8); err != nil {
					t.Errorf("alloc: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if s.AllocCount() != 800 {
		t.Fatalf("AllocCount = %d, want 800", s.AllocCount())
	}
	if s.BytesUsed() != 6400 {
		t.Fatalf("BytesUsed = %d, want 6400", s.BytesUsed())
	}
}

func TestUnlimited(t *testing.T) {
	h := Unlimited()
	if err := h.AllocBytes(1 << 30); err != nil {
		t.Fatalf("unlimited heap should never fail: %v", err)
	}
	v := &struct{}{}
	if h.Adjust(v) != v {
		t.Fatal("unlimited heap barrier should be identity")
	}
}
