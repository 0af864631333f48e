package engine

import "time"

// Status is the phase a game is in, derived from its state.
type Status int

const (
	StatusLoading Status = iota
	StatusInvalid
	StatusPlaying
	StatusEnding
	StatusDead
	StatusSectionMissing
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusInvalid:
		return "invalid"
	case StatusPlaying:
		return "playing"
	case StatusEnding:
		return "ending"
	case StatusDead:
		return "dead"
	case StatusSectionMissing:
		return "section_missing"
	}
	return "unknown"
}

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 2500 * time.Millisecond

// Toast is a short-lived message. Generation increases with every toast shown in a
// game so an expiry can tell whether it still refers to the visible toast.
type Toast struct {
	Title      string
	Message    string
	Generation uint64
	Duration   time.Duration
}

// Visible reports whether a toast is being shown.
func (t Toast) Visible() bool { return t.Message != "" }

// Ticket identifies the session a save was issued under. A restart starts a new
// epoch, loading a book starts a new session.
type Ticket struct {
	Session string
	Epoch   int
}

// State is the runtime state of one play session. Values are replaced, never
// mutated, by Game.Apply.
type State struct {
	// Override is the current section id; empty means the start section.
	Override  string
	Health    int
	Paused    bool
	Visited   map[string]struct{}
	NavError  string
	SaveError string
	Toast     Toast
	Saving    bool
	Epoch     int

	toastSeq uint64
}

// HasVisited reports whether the section id was entered in this session.
func (s State) HasVisited(id string) bool {
	_, ok := s.Visited[id]
	return ok
}

func (s State) withVisited(id string) map[string]struct{} {
	if s.HasVisited(id) {
		return s.Visited
	}
	visited := make(map[string]struct{}, len(s.Visited)+1)
	for k := range s.Visited {
		visited[k] = struct{}{}
	}
	visited[id] = struct{}{}
	return visited
}

func (s State) showToast(title, message string, d time.Duration) (State, Toast) {
	s.toastSeq++
	s.Toast = Toast{Title: title, Message: message, Generation: s.toastSeq, Duration: d}
	return s, s.Toast
}
