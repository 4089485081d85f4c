package rest

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/service"
)

type quizResponse struct {
	SessionID uuid.UUID        `json:"session_id"`
	Mode      service.QuizMode `json:"mode"`
	Question  string           `json:"question,omitempty"`
	Correct   int              `json:"correct"`
	Target    int              `json:"target"` // -1 for open-ended practice
}

type startQuizRequest struct {
	Target   *int `json:"target"`
	MaxWrong *int `json:"max_wrong"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerResponse struct {
	Outcome      service.AnswerOutcome `json:"outcome"`
	Expected     string                `json:"expected,omitempty"` // revealed when the word is skipped
	Close        bool                  `json:"close,omitempty"`    // wrong answer was a near miss
	AttemptsLeft int                   `json:"attempts_left"`
	Next         string                `json:"next,omitempty"`
	Completed    bool                  `json:"completed"`
	Correct      int                   `json:"correct"`
}

func quizView(session service.QuizSnapshot) quizResponse {
	resp := quizResponse{
		SessionID: session.ID,
		Mode:      session.Mode,
		Correct:   session.Correct,
		Target:    session.Policy.Target,
	}
	if w := session.Question; w != nil {
		resp.Question = w.Question
	}
	return resp
}

func (s *Server) currentQuiz(w http.ResponseWriter, r *http.Request) {
	session, ok := s.quiz.Current()
	if !ok {
		s.handleError(w, r, service.ErrNoActiveSession)
		return
	}
	respondJSON(w, http.StatusOK, quizView(session))
}

// startQuiz starts a practice session. Missing fields use the default target
// and the max trials setting.
func (s *Server) startQuiz(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	target := service.DefaultPracticeTarget
	if req.Target != nil {
		target = *req.Target
	}

	var maxWrong int
	if req.MaxWrong != nil {
		maxWrong = *req.MaxWrong
	} else {
		settings, err := s.settings.Get(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		maxWrong = settings.MaxTrials
	}

	session, err := s.quiz.StartPractice(r.Context(), target, maxWrong)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, quizView(session))
}

func (s *Server) answerQuiz(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	res, _, err := s.quiz.Answer(r.Context(), req.Answer)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := answerResponse{
		Outcome:      res.Outcome,
		AttemptsLeft: res.AttemptsLeft,
		Completed:    res.Completed,
		Correct:      res.Correct,
	}
	switch res.Outcome {
	case service.OutcomeSkipped:
		resp.Expected = res.Word.Answer
	case service.OutcomeWrong:
		resp.Close = service.IsCloseAnswer(req.Answer, res.Word.Answer)
	}
	if res.Next != nil {
		resp.Next = res.Next.Question
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) exitQuiz(w http.ResponseWriter, r *http.Request) {
	session, err := s.quiz.Exit()
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quizView(session))
}
