package http

import (
	"net/http"
	"strings"

	"github.com/studyhall/studyhall-lms/internal/quiz"
	"github.com/studyhall/studyhall-lms/internal/rbac"
)

// GET /quizzes?module_id=...&student_id=...&limit=50&offset=0
// Roles with quiz:list-all may use any filters; everyone else is scoped to
// their own attempts regardless of what they ask for.
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())
		if role == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		moduleID := strings.TrimSpace(r.URL.Query().Get("module_id"))
		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

		if role != "admin" && role != "instructor" {
			studentID = sub
		}

		list, err := store.ListAttempts(r.Context(), quiz.AttemptListOpts{
			ModuleID:  moduleID,
			StudentID: studentID,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
