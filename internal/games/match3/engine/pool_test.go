package engine

import "testing"

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool(3)

	for want := Handle(0); want < 3; want++ {
		h, ok := p.Acquire()
		if !ok || h != want {
			t.Fatalf("expected handle %d, got %d (ok=%v)", want, h, ok)
		}
	}
	if _, ok := p.Acquire(); ok {
		t.Fatal("expected exhausted pool")
	}

	p.Release(1)
	p.Release(1)
	p.Release(99)
	if p.Available() != 1 {
		t.Errorf("expected 1 available after releases, got %d", p.Available())
	}

	h, ok := p.Acquire()
	if !ok || h != 1 {
		t.Errorf("expected released handle 1 to be reused, got %d (ok=%v)", h, ok)
	}
	if p.Cap() != 3 {
		t.Errorf("expected capacity 3, got %d", p.Cap())
	}
}

func TestBarrierWaitsForIssuer(t *testing.T) {
	fired := 0
	b := newBarrier(func() { fired++ })

	// Completions that arrive while still issuing must not advance.
	b.add()()
	b.add()()
	if fired != 0 {
		t.Fatal("barrier fired before release")
	}

	b.release()
	if fired != 1 {
		t.Errorf("expected barrier to fire once, fired %d", fired)
	}
}

func TestBarrierEmptyPhase(t *testing.T) {
	fired := 0
	newBarrier(func() { fired++ }).release()

	if fired != 1 {
		t.Errorf("expected empty barrier to fire on release, fired %d", fired)
	}
}

func TestBarrierCallbackCountsOnce(t *testing.T) {
	fired := 0
	b := newBarrier(func() { fired++ })
	first := b.add()
	second := b.add()
	b.release()

	first()
	first()
	if fired != 0 {
		t.Fatal("a repeated callback must not stand in for another one")
	}
	second()
	if fired != 1 {
		t.Errorf("expected barrier to fire once, fired %d", fired)
	}
}
