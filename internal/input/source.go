package input

import "sync"

// Source produces one Snapshot per tick.
type Source interface {
	Poll() Snapshot
}

// ScriptedSource replays a fixed sequence of snapshots, then reports an
// idle device. Used for headless runs and tests.
type ScriptedSource struct {
	mu     sync.Mutex
	frames []Snapshot
	next   int
}

func NewScriptedSource(frames ...Snapshot) *ScriptedSource {
	return &ScriptedSource{frames: frames}
}

// Push appends frames to the replay queue.
func (s *ScriptedSource) Push(frames ...Snapshot) {
	s.mu.Lock()
	s.frames = append(s.frames, frames...)
	s.mu.Unlock()
}

func (s *ScriptedSource) Poll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.frames) {
		if n := len(s.frames); n > 0 {
			// hold the last pointer position so the mouse delta settles to zero
			return Snapshot{Position: s.frames[n-1].Position}
		}
		return Snapshot{}
	}
	f := s.frames[s.next]
	s.next++
	return f
}
