package state

import "sync/atomic"

// Bridge hands the latest committed RobotState from the control goroutine to
// the render goroutine. Single writer, single reader; neither side ever
// blocks on the other. The payload is immutable, so only the pointer swap
// needs to be atomic.
//
// The reader may legitimately skip intermediate states when commits outpace
// frames: TryConsume always surfaces the newest value, never an older one.
type Bridge struct {
	seq    atomic.Uint64
	latest atomic.Pointer[SharedTarget]

	// consumed is touched only by the reader goroutine.
	consumed uint64
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Publish stores s as the newest shared target and returns its sequence
// number. It never blocks and always succeeds. Call from the control
// goroutine only.
func (b *Bridge) Publish(s RobotState) uint64 {
	t := &SharedTarget{
		Seq:   b.seq.Add(1),
		State: s,
	}
	b.latest.Store(t)
	return t.Seq
}

// TryConsume returns the newest published target not yet consumed, or
// ok=false when nothing new has arrived. A target with a sequence number at
// or below one already consumed is never returned. Call from the render
// goroutine only.
func (b *Bridge) TryConsume() (SharedTarget, bool) {
	t := b.latest.Load()
	if t == nil || t.Seq <= b.consumed {
		return SharedTarget{}, false
	}
	b.consumed = t.Seq
	return *t, true
}
