package domain

import "errors"

var (
	// ErrQuizNotFound indicates no quiz exists for the requested article.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotCompleted is returned when a session is submitted before finishing.
	ErrSessionNotCompleted = errors.New("session not completed")
	// ErrAlreadySubmitted is a status, not a failure: the session's attempt
	// is already durable and the duplicate submission was discarded.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrNotPerfect indicates an attempt was offered to the leaderboard
	// without a perfect score; callers must filter before recording.
	ErrNotPerfect = errors.New("attempt is not a perfect score")
	// ErrUnknownBadge indicates a grant for an id missing from the catalog.
	ErrUnknownBadge = errors.New("unknown badge id")
)
