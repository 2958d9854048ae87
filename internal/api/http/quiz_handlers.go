package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhall/studyhall-lms/internal/quiz"
	"github.com/studyhall/studyhall-lms/internal/rbac"
)

// GET /courses/{courseID}/modules/{moduleID}/quiz
// The student identity comes from the verified token, never from the request.
func GenerateQuizHandler(e *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleID")
		studentID := rbac.SubjectFromContext(r.Context())
		q, err := e.Generate(r.Context(), moduleID, studentID)
		if err != nil {
			writeErr(w, err)
			return
		}
		// len(q.QuestionIDs) == 0 is a valid "nothing to test at this tier"
		writeJSON(w, http.StatusOK, q)
	}
}

// POST /courses/{courseID}/modules/{moduleID}/quiz
// Body: { "questions": [...], "answers": [...] } in presentation order.
func SubmitQuizHandler(e *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		moduleID := chi.URLParam(r, "moduleID")
		studentID := rbac.SubjectFromContext(r.Context())

		var req struct {
			Questions []string `json:"questions"`
			Answers   []string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(req.Questions) == 0 || len(req.Answers) == 0 {
			http.Error(w, "questions and answers required", http.StatusBadRequest)
			return
		}
		a, err := e.Submit(r.Context(), courseID, moduleID, studentID, req.Questions, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /quiz/{attemptID}/feedback
// Students may only read their own attempts; quiz:list-all roles read any.
func QuizFeedbackHandler(e *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := chi.URLParam(r, "attemptID")
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())

		fb, err := e.Feedback(r.Context(), attemptID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if role != "admin" && role != "instructor" && fb.StudentID != sub {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, fb)
	}
}
