package app

import (
	"time"

	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// SessionState is the top-level state of a quiz session.
type SessionState int

const (
	StateNotStarted SessionState = iota
	StateInProgress
	StateCompleted
)

// unanswered is the sentinel selection for a question with no answer yet.
const unanswered = -1

// Session drives a single user's run through one quiz. It is transient:
// nothing is persisted until the completed session goes through the
// submission guard. All transitions happen on the caller's single
// logical thread; a Session must not be shared across goroutines.
type Session struct {
	quiz  domain.Quiz
	state SessionState
	now   func() time.Time

	current    int
	selections []int
	startedAt  time.Time

	timeSpentSecs int
	resultsShown  bool

	attempt *domain.Attempt // set by the submission guard after a durable write
}

// NewSession builds a NotStarted session over quiz.
func NewSession(quiz domain.Quiz) *Session {
	return NewSessionWithClock(quiz, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(quiz domain.Quiz, now func() time.Time) *Session {
	s := &Session{quiz: quiz, now: now}
	s.clear()
	return s
}

func (s *Session) clear() {
	s.state = StateNotStarted
	s.current = 0
	s.selections = make([]int, len(s.quiz.Questions))
	for i := range s.selections {
		s.selections[i] = unanswered
	}
	s.startedAt = time.Time{}
	s.timeSpentSecs = 0
	s.resultsShown = false
	s.attempt = nil
}

// Start moves NotStarted to InProgress and records the start timestamp.
// Calling it in any other state is a no-op.
func (s *Session) Start() {
	if s.state != StateNotStarted || len(s.quiz.Questions) == 0 {
		return
	}
	s.state = StateInProgress
	s.startedAt = s.now()
}

// SelectAnswer records (or overwrites) the selection for a question.
// Out-of-range indices and calls outside InProgress are no-ops; the
// upstream UI contract means those only happen on caller bugs.
func (s *Session) SelectAnswer(questionIndex, optionIndex int) {
	if s.state != StateInProgress {
		return
	}
	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return
	}
	if optionIndex < 0 || optionIndex >= len(s.quiz.Questions[questionIndex].Options) {
		return
	}
	s.selections[questionIndex] = optionIndex
}

// Next advances the cursor by one. The current question must already be
// answered; forward progress through unanswered questions is not allowed.
func (s *Session) Next() {
	if s.state != StateInProgress {
		return
	}
	if s.selections[s.current] == unanswered {
		return
	}
	if s.current < len(s.quiz.Questions)-1 {
		s.current++
	}
}

// Previous moves the cursor back by one, clamped at the first question.
func (s *Session) Previous() {
	if s.state != StateInProgress {
		return
	}
	if s.current > 0 {
		s.current--
	}
}

// Finish completes the session from the last question once it has an
// answer. It fixes the elapsed time and marks results as shown. Repeat
// calls leave score and time untouched.
func (s *Session) Finish() {
	if s.state != StateInProgress {
		return
	}
	if s.current != len(s.quiz.Questions)-1 || s.selections[s.current] == unanswered {
		return
	}
	s.state = StateCompleted
	elapsed := s.now().Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	s.timeSpentSecs = int(elapsed / time.Second)
	s.resultsShown = true
}

// Reset returns the session to NotStarted for a retake.
func (s *Session) Reset() {
	s.clear()
}

// Score is derived from the selections on every call, never stored.
// The unanswered sentinel can never equal a valid correct index, so
// unanswered questions always count as wrong.
func (s *Session) Score() int {
	score := 0
	for i, q := range s.quiz.Questions {
		if s.selections[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// TimeSpent returns the whole seconds between Start and Finish.
// It is zero until the session completes.
func (s *Session) TimeSpent() int { return s.timeSpentSecs }

// State returns the session's top-level state.
func (s *Session) State() SessionState { return s.state }

// CurrentQuestion returns the cursor position.
func (s *Session) CurrentQuestion() int { return s.current }

// Selection returns the selected option for a question, or -1.
func (s *Session) Selection(questionIndex int) int {
	if questionIndex < 0 || questionIndex >= len(s.selections) {
		return unanswered
	}
	return s.selections[questionIndex]
}

// Completed reports whether the session reached the Completed state.
func (s *Session) Completed() bool { return s.state == StateCompleted }

// ResultsShown reports whether the results screen was reached.
func (s *Session) ResultsShown() bool { return s.resultsShown }

// Submitted reports whether a durable attempt exists for this session.
func (s *Session) Submitted() bool { return s.attempt != nil }

// Attempt returns the persisted attempt, if the session was submitted.
func (s *Session) Attempt() (domain.Attempt, bool) {
	if s.attempt == nil {
		return domain.Attempt{}, false
	}
	return *s.attempt, true
}

// Quiz returns the quiz this session runs over.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// TotalQuestions returns the quiz length.
func (s *Session) TotalQuestions() int { return len(s.quiz.Questions) }

func (s *Session) markSubmitted(a domain.Attempt) {
	s.attempt = &a
}
