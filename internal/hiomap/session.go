package hiomap

import "sync"

// Session is the long-lived protocol state shared by the dispatcher and the
// notification bridge: the last-seen sequence number and the cached BMC-side
// event mask. One Session exists per process, created at startup and threaded
// by reference into both consumers.
//
// The command channel delivers one command at a time and backend
// notifications arrive serialized, so the two call sites never actually race
// in deployment. The mutex makes that serialization a contract of this type
// rather than a property of the surroundings.
type Session struct {
	mu        sync.Mutex
	seq       uint8
	events    uint8
	eventBits map[string]uint8
}

// NewSession returns a session with the standard event name table and zeroed
// protocol state.
func NewSession() *Session {
	return &Session{eventBits: EventBits()}
}

// acceptSequence applies the duplicate-delivery guard and, on acceptance,
// commits seq as the new last-seen value. Versioned commands are rejected
// when seq equals the previous value byte-for-byte; the same numeric value
// may legitimately reappear after the counter wraps, since only the single
// most recent value is held. Rejected duplicates do not advance the stored
// value. Commit happens before the handler runs, so a failed command still
// advances the guard: sequence acceptance is about framing, not success.
func (s *Session) acceptSequence(seq uint8, versioned bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if versioned && s.seq == seq {
		return false
	}
	s.seq = seq
	return true
}

// LastSequence returns the most recently committed sequence number.
func (s *Session) LastSequence() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// EventMask returns the current BMC-side event bits.
func (s *Session) EventMask() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

// clearEvents drops the acknowledged bits from the mask. The backend signals
// carry no value, so this cache is the only record of pending bits; it is
// cleared only after the backend accepted the acknowledgment.
func (s *Session) clearEvents(mask uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events &^= mask
}

// foldProperties applies a property-change notification: each known name
// sets or clears its bit according to the boolean value. Unknown names are
// ignored. Returns the resulting mask.
func (s *Session) foldProperties(values map[string]bool) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, set := range values {
		bit, ok := s.eventBits[name]
		if !ok {
			continue
		}
		if set {
			s.events |= bit
		} else {
			s.events &^= bit
		}
	}
	return s.events
}

// foldSignal applies a bare named signal. Signals carry no value and can
// only set their bit; there is no clear path through this channel. Unknown
// names leave the mask untouched. Returns the resulting mask.
func (s *Session) foldSignal(name string) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bit, ok := s.eventBits[name]; ok {
		s.events |= bit
	}
	return s.events
}
