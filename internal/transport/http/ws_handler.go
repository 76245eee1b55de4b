package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/app"
	"github.com/budd9442/edify.lk-sub000/internal/domain"
)

// WSHandler runs one quiz session per WebSocket connection. The session
// state machine is single-threaded by contract, and a connection's read
// loop is exactly one logical thread, so every transition happens inline
// here with no extra locking.
type WSHandler struct {
	service  *app.GamificationService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GamificationService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionIndex int `json:"questionIndex"`
	OptionIndex   int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionView is what the client sees while answering: no correct
// index, no explanation.
type questionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type quizView struct {
	QuizID    string         `json:"quizId"`
	ArticleID string         `json:"articleId"`
	Title     string         `json:"title"`
	Questions []questionView `json:"questions"`
}

type positionView struct {
	CurrentQuestion int `json:"currentQuestion"`
}

type reviewView struct {
	QuestionIndex int    `json:"questionIndex"`
	Selected      int    `json:"selected"`
	Correct       int    `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

type resultsView struct {
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	TimeSpentSecs  int          `json:"timeSpentSecs"`
	Review         []reviewView `json:"review"`
}

// ServeWS upgrades the request and drives a quiz session until the
// client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	articleID := r.URL.Query().Get("articleId")
	userID := r.URL.Query().Get("userId")
	if articleID == "" || userID == "" {
		http.Error(w, "missing articleId or userId", http.StatusBadRequest)
		return
	}

	session, err := h.service.OpenSession(r.Context(), articleID)
	if err != nil {
		status := http.StatusInternalServerError
		if err == domain.ErrQuizNotFound {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := func(msg any) bool {
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("ws write error", zap.Error(err))
			return false
		}
		return true
	}

	if !send(outboundMessage[quizView]{Type: "quiz", Payload: publicQuiz(session.Quiz())}) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "start":
			session.Start()
			send(outboundMessage[positionView]{Type: "started", Payload: positionView{CurrentQuestion: session.CurrentQuestion()}})
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			session.SelectAnswer(payload.QuestionIndex, payload.OptionIndex)
			send(outboundMessage[positionView]{Type: "answerRecorded", Payload: positionView{CurrentQuestion: session.CurrentQuestion()}})
		case "next":
			session.Next()
			send(outboundMessage[positionView]{Type: "position", Payload: positionView{CurrentQuestion: session.CurrentQuestion()}})
		case "previous":
			session.Previous()
			send(outboundMessage[positionView]{Type: "position", Payload: positionView{CurrentQuestion: session.CurrentQuestion()}})
		case "finish":
			session.Finish()
			if !session.Completed() {
				send(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "cannot finish: not on an answered last question"}})
				continue
			}
			send(outboundMessage[resultsView]{Type: "results", Payload: results(session)})
		case "submit":
			result, err := h.service.SubmitSession(r.Context(), userID, session)
			if err != nil {
				h.logger.Error("submit failed",
					zap.String("user_id", userID),
					zap.String("article_id", articleID),
					zap.Error(err))
				send(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			send(outboundMessage[app.SubmissionResult]{Type: "submission", Payload: result})
			if entries, err := h.service.Leaderboard(r.Context(), articleID, 10); err == nil {
				send(outboundMessage[[]domain.LeaderboardEntry]{Type: "leaderboard", Payload: entries})
			}
		case "reset":
			session.Reset()
			send(outboundMessage[positionView]{Type: "reset", Payload: positionView{CurrentQuestion: session.CurrentQuestion()}})
		default:
			send(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

func publicQuiz(quiz domain.Quiz) quizView {
	questions := make([]questionView, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = questionView{Prompt: q.Prompt, Options: q.Options}
	}
	return quizView{
		QuizID:    quiz.ID,
		ArticleID: quiz.ArticleID,
		Title:     quiz.Title,
		Questions: questions,
	}
}

func results(session *app.Session) resultsView {
	quiz := session.Quiz()
	review := make([]reviewView, len(quiz.Questions))
	for i, q := range quiz.Questions {
		review[i] = reviewView{
			QuestionIndex: i,
			Selected:      session.Selection(i),
			Correct:       q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	return resultsView{
		Score:          session.Score(),
		TotalQuestions: session.TotalQuestions(),
		TimeSpentSecs:  session.TimeSpent(),
		Review:         review,
	}
}
