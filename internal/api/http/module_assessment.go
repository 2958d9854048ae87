package http

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhall/studyhall-lms/internal/quiz"
)

// PUT /modules/{moduleID}/assessment
// Updates the policy the generator reads. The pass threshold is fixed
// platform-wide and is intentionally not part of the policy.
func UpdateModuleAssessmentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleID")
		var req struct {
			AssessmentType    string `json:"assessment_type"`
			NumberOfQuestions int    `json:"number_of_questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		switch req.AssessmentType {
		case quiz.TypeMCQ, quiz.TypeTrueFalse, quiz.TypeMix:
		default:
			http.Error(w, "assessment_type must be mcq, true_false or mix", http.StatusBadRequest)
			return
		}
		if req.NumberOfQuestions < 1 || req.NumberOfQuestions > 500 {
			http.Error(w, "number_of_questions must be between 1 and 500", http.StatusBadRequest)
			return
		}

		res, err := db.ExecContext(r.Context(),
			`UPDATE modules SET assessment_type=$1, number_of_questions=$2 WHERE id=$3`,
			req.AssessmentType, req.NumberOfQuestions, moduleID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "module not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"module_id":           moduleID,
			"assessment_type":     req.AssessmentType,
			"number_of_questions": req.NumberOfQuestions,
		})
	}
}
