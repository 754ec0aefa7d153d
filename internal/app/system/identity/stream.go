// internal/app/system/identity/stream.go
package identity

import "sync"

// Stream delivers identity snapshots to subscribers in emission order.
//
// Dispatch is run-to-completion: Publish holds the stream lock while every
// subscriber processes the snapshot, so a delivery is fully handled before
// the next one is accepted. Subscribers must not call back into the stream.
type Stream struct {
	mu   sync.Mutex
	seq  uint64
	last State
	has  bool
	subs []func(State)
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// Subscribe registers fn for all future snapshots. If a snapshot has been
// published already, fn is immediately invoked with the latest one so late
// subscribers do not miss the current provider condition.
func (s *Stream) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	if s.has {
		fn(s.last)
	}
}

// Publish assigns the next sequence number and delivers st to every
// subscriber before returning.
func (s *Stream) Publish(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	st.Seq = s.seq
	s.last = st
	s.has = true
	for _, fn := range s.subs {
		fn(st)
	}
}

// Latest returns the most recent snapshot and whether one exists.
func (s *Stream) Latest() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.has
}
