package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/studyhall/studyhall-lms/internal/api/http"
	auth "github.com/studyhall/studyhall-lms/internal/auth/middleware"
	"github.com/studyhall/studyhall-lms/internal/bank"
	"github.com/studyhall/studyhall-lms/internal/config"
	"github.com/studyhall/studyhall-lms/internal/db"
	"github.com/studyhall/studyhall-lms/internal/grades"
	"github.com/studyhall/studyhall-lms/internal/quiz"
	"github.com/studyhall/studyhall-lms/internal/rbac"
	syncx "github.com/studyhall/studyhall-lms/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Engine + collaborators ---
	store := quiz.NewSQLStore(dbh)
	averager := grades.New(dbh)
	events := syncx.NewEventRepo(dbh, cfg.SiteID)
	engine := quiz.NewEngine(store, averager, quiz.WithEvents(events))
	bankSvc := bank.New(dbh)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → subject/role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Student flow
		pr.With(rbac.Require("quiz:generate")).
			Get("/courses/{courseID}/modules/{moduleID}/quiz", api.GenerateQuizHandler(engine))
		pr.With(rbac.Require("quiz:submit")).
			Post("/courses/{courseID}/modules/{moduleID}/quiz", api.SubmitQuizHandler(engine))
		pr.With(rbac.RequireAny("quiz:feedback-own", "quiz:list-all")).
			Get("/quiz/{attemptID}/feedback", api.QuizFeedbackHandler(engine))
		pr.With(rbac.RequireAny("quiz:list-own", "quiz:list-all")).
			Get("/quizzes", api.ListQuizzesHandler(store))
		pr.With(rbac.Require("grade:view-own")).
			Get("/courses/{courseID}/grade", api.CourseGradeHandler(averager))

		// Instructor: question bank authoring + assessment policy
		pr.With(rbac.Require("bank:view")).
			Get("/modules/{moduleID}/questions", api.ListBankHandler(bankSvc))
		pr.With(rbac.Require("question:create")).
			Post("/modules/{moduleID}/questions", api.CreateQuestionHandler(bankSvc))
		pr.With(rbac.Require("question:update")).
			Put("/modules/{moduleID}/questions/{questionID}", api.UpdateQuestionHandler(bankSvc))
		pr.With(rbac.Require("question:delete")).
			Delete("/modules/{moduleID}/questions/{questionID}", api.DeleteQuestionHandler(bankSvc))
		pr.With(rbac.Require("module:set_assessment")).
			Put("/modules/{moduleID}/assessment", api.UpdateModuleAssessmentHandler(dbh))

		// Users (admin/instructor)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
