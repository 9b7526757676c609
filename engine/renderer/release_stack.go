package renderer

import (
	"log/slog"
)

// releaseEntry is one step of a releaseStack.
type releaseEntry struct {
	name    string
	release func()
}

// releaseStack records cleanup steps during a multi-step initialization so a failure
// can undo exactly what was created, newest first.
type releaseStack struct {
	log     *slog.Logger
	entries []releaseEntry
}

// push records a cleanup step.
//
// Parameters:
//   - name: the resource name used in debug logging
//   - release: the function that releases the resource
func (s *releaseStack) push(name string, release func()) {
	s.entries = append(s.entries, releaseEntry{name: name, release: release})
}

// pop runs and removes the newest cleanup step. No-op when empty.
func (s *releaseStack) pop() {
	n := len(s.entries)
	if n == 0 {
		return
	}
	e := s.entries[n-1]
	s.entries = s.entries[:n-1]
	if s.log != nil {
		s.log.Debug("releasing gpu resource", "resource", e.name)
	}
	e.release()
}

// unwind runs every remaining cleanup step, newest first.
func (s *releaseStack) unwind() {
	for len(s.entries) > 0 {
		s.pop()
	}
}

// discard forgets every step without running it, once ownership has moved elsewhere.
func (s *releaseStack) discard() {
	s.entries = nil
}

// len returns the number of pending cleanup steps.
func (s *releaseStack) len() int {
	return len(s.entries)
}
