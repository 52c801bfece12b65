package engine

// Pool is an arena of reusable tile visual handles.
type Pool struct {
	free  []Handle
	inUse []bool
}

// NewPool creates a pool of capacity handles, all free.
func NewPool(capacity int) *Pool {
	p := &Pool{
		free:  make([]Handle, 0, capacity),
		inUse: make([]bool, capacity),
	}
	// Push in reverse so Acquire hands out 0, 1, 2, ... first.
	for h := capacity - 1; h >= 0; h-- {
		p.free = append(p.free, Handle(h))
	}
	return p
}

// Acquire takes a free handle. Returns false when the pool is exhausted.
func (p *Pool) Acquire() (Handle, bool) {
	if len(p.free) == 0 {
		return 0, false
	}
	h := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.inUse[h] = true
	return h, true
}

// Release returns a handle to the pool. Unknown or already free handles are ignored.
func (p *Pool) Release(h Handle) {
	if int(h) < 0 || int(h) >= len(p.inUse) || !p.inUse[h] {
		return
	}
	p.inUse[h] = false
	p.free = append(p.free, h)
}

// Cap returns the total number of handles.
func (p *Pool) Cap() int {
	return len(p.inUse)
}

// Available returns the number of free handles.
func (p *Pool) Available() int {
	return len(p.free)
}
