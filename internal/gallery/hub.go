package gallery

import "sync"

// hub fans snapshots out to subscribers. Snapshots carry the version of the
// mutation that produced them; an older version arriving after a newer one
// is dropped so subscribers only move forward.
//
// Callbacks run outside the hub lock. One publisher at a time delivers: a
// snapshot published while another delivery is running, including one
// published from inside a callback, is queued and delivered by that running
// publisher once the current callbacks return.
type hub[T any] struct {
	mu         sync.Mutex
	subs       map[int]func(T)
	next       int
	last       uint64
	pending    []T
	delivering bool
}

// subscribe registers fn. Callbacks may subscribe, unsubscribe or publish;
// changes to the subscriber set apply from the next snapshot on.
func (h *hub[T]) subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]func(T))
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *hub[T]) publish(version uint64, v T) {
	h.mu.Lock()
	if version <= h.last {
		h.mu.Unlock()
		return
	}
	h.last = version
	h.pending = append(h.pending, v)
	if h.delivering {
		h.mu.Unlock()
		return
	}
	h.delivering = true

	for len(h.pending) > 0 {
		snap := h.pending[0]
		h.pending = h.pending[1:]
		subs := make([]func(T), 0, len(h.subs))
		for _, fn := range h.subs {
			subs = append(subs, fn)
		}
		h.mu.Unlock()

		for _, fn := range subs {
			fn(snap)
		}

		h.mu.Lock()
	}

	h.delivering = false
	h.pending = nil
	h.mu.Unlock()
}
