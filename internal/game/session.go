package game

import (
	"fmt"
	"sync"
	"time"

	"trailquiz/internal/taxonomy"
)

// State is a session lifecycle phase.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateComplete
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateInProgress:
		return "in progress"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// GuessRecord is the outcome of one answered question.
type GuessRecord struct {
	Guess           string
	ResolvedTaxonID int64
	Points          int
	MatchedRank     taxonomy.Rank
	Explanation     string
	SubmittedAt     time.Time
}

// Session is the state machine for one game. The question list is fixed at
// Start and never changes afterward; each question takes exactly one guess,
// and advancing past the last question completes the session.
type Session struct {
	id      string
	created time.Time

	mu      sync.Mutex
	state   State
	specs   []QuestionSpec
	current int
	score   int
	results []*GuessRecord
}

// NewSession returns a not-started session with its question list fixed.
func NewSession(id string, specs []QuestionSpec) *Session {
	return &Session{
		id:      id,
		created: time.Now(),
		state:   StateNotStarted,
		specs:   specs,
		results: make([]*GuessRecord, len(specs)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions returns how many questions the session holds.
func (s *Session) Questions() int { return len(s.specs) }

// Start moves the session to its first question.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return fmt.Errorf("start: %w (%s)", ErrInvalidSessionState, s.state)
	}
	if len(s.specs) == 0 {
		return fmt.Errorf("start: %w", ErrInsufficientTaxa)
	}
	s.state = StateInProgress
	s.current = 0
	return nil
}

// Current returns the index and spec of the question awaiting a guess or an
// advance.
func (s *Session) Current() (int, QuestionSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return 0, QuestionSpec{}, fmt.Errorf("current question: %w (%s)", ErrInvalidSessionState, s.state)
	}
	return s.current, s.specs[s.current], nil
}

// Answered reports whether the current question already took its guess.
func (s *Session) Answered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateInProgress && s.results[s.current] != nil
}

// RecordGuess applies the scored outcome of the current question's guess and
// returns the cumulative score. A question takes exactly one guess; a second
// submit for the same question fails and leaves the score untouched.
func (s *Session) RecordGuess(rec GuessRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return 0, fmt.Errorf("submit guess: %w (%s)", ErrInvalidSessionState, s.state)
	}
	if s.results[s.current] != nil {
		return 0, fmt.Errorf("submit guess: question %d already answered: %w", s.current+1, ErrInvalidSessionState)
	}
	rec.SubmittedAt = time.Now()
	s.results[s.current] = &rec
	s.score += rec.Points
	return s.score, nil
}

// Advance moves to the next question, or to Complete after the last one.
// Advancing an unanswered question forfeits it.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return fmt.Errorf("advance: %w (%s)", ErrInvalidSessionState, s.state)
	}
	if s.current+1 >= len(s.specs) {
		s.state = StateComplete
		return nil
	}
	s.current++
	return nil
}

// Score returns the points accumulated so far.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// FinalScore returns the total and the per-question outcomes. It is valid
// only once the session is complete; unanswered questions appear as nil.
func (s *Session) FinalScore() (int, []*GuessRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateComplete {
		return 0, nil, fmt.Errorf("final score: %w (%s)", ErrInvalidSessionState, s.state)
	}
	out := make([]*GuessRecord, len(s.results))
	copy(out, s.results)
	return s.score, out, nil
}
