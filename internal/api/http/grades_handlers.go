package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhall/studyhall-lms/internal/grades"
	"github.com/studyhall/studyhall-lms/internal/rbac"
)

// GET /courses/{courseID}/grade — the caller's rolling average for the course.
func CourseGradeHandler(av *grades.Averager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		studentID := rbac.SubjectFromContext(r.Context())
		avg, err := av.AverageGrade(r.Context(), courseID, studentID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"course_id":     courseID,
			"average_grade": avg,
		})
	}
}
