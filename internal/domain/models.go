package domain

import "time"

// Question is a single multiple-choice question. CorrectAnswer indexes
// into Options and must satisfy 0 <= CorrectAnswer < len(Options).
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Valid reports whether the correct-answer index is in range.
func (q Question) Valid() bool {
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

// Quiz is an immutable quiz definition attached to one article.
type Quiz struct {
	ID        string     `json:"id"`
	ArticleID string     `json:"articleId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Attempt is one persisted record of a user completing a quiz.
// Attempts are written exactly once and never mutated.
type Attempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	ArticleID      string    `json:"articleId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeSpentSecs  int       `json:"timeSpentSecs"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Perfect reports whether every question was answered correctly.
func (a Attempt) Perfect() bool {
	return a.TotalQuestions > 0 && a.Score == a.TotalQuestions
}

// LeaderboardEntry holds a user's fastest perfect attempt for an article.
// At most one entry exists per (user, article) pair; Rank is 1-based and
// recomputed across the article's entries after every accepted write.
type LeaderboardEntry struct {
	UserID         string    `json:"userId"`
	ArticleID      string    `json:"articleId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeSpentSecs  int       `json:"timeSpentSecs"`
	CompletedAt    time.Time `json:"completedAt"`
	Rank           int       `json:"rank"`
}

// BadgeCategory groups badges on the profile page.
type BadgeCategory string

const (
	CategoryWriter    BadgeCategory = "writer"
	CategoryReader    BadgeCategory = "reader"
	CategoryCommunity BadgeCategory = "community"
	CategoryQuality   BadgeCategory = "quality"
	CategoryQuiz      BadgeCategory = "quiz"
)

// Badge is a static catalog entry; the catalog is never mutated at runtime.
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    BadgeCategory `json:"category"`
}

// NotificationKindBadge is the kind used for badge-earned notifications.
const NotificationKindBadge = "badge_earned"

// Notification is the record emitted when a badge is newly granted.
type Notification struct {
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	BadgeID   string    `json:"badgeId"`
	CreatedAt time.Time `json:"createdAt"`
}
