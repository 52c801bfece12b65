package engine

// barrier joins the completions of one animation phase and runs next when
// the last one arrives. It starts holding one token for the issuer, so
// completions that fire synchronously while animations are still being
// issued cannot trigger next early. The issuer drops its token with release
// once every animation is out; a phase with no animations advances right there.
type barrier struct {
	remaining int
	next      func()
}

func newBarrier(next func()) *barrier {
	return &barrier{remaining: 1, next: next}
}

// add registers one more pending completion and returns its callback.
// Each callback counts once no matter how often it is invoked.
func (b *barrier) add() func() {
	b.remaining++
	fired := false
	return func() {
		if fired {
			return
		}
		fired = true
		b.done()
	}
}

// release drops the issuer's token.
func (b *barrier) release() {
	b.done()
}

func (b *barrier) done() {
	if b.remaining <= 0 {
		return
	}
	b.remaining--
	if b.remaining == 0 {
		b.next()
	}
}
