package app

import (
	"database/sql"
	"net/http"
	"time"

	"sorubank/internal/app/observability"
	"sorubank/internal/assistant"
	"sorubank/internal/auth"
	"sorubank/internal/catalog"
	"sorubank/internal/question"
	"sorubank/internal/quiz"
	"sorubank/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(cfg Config, db *sql.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	collector := observability.NewCollector(db)
	r.Use(collector.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", csrfHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(CSRFMiddleware(cfg.CSRFEnforced))

	authSvc := auth.NewService(db, auth.ServiceConfig{
		SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
	})
	authHandler := auth.NewHandler(authSvc)

	catalogSvc := catalog.NewService(db)
	catalogHandler := catalog.NewHandler(catalogSvc)

	questionSvc := question.NewService(db)
	questionHandler := question.NewHandler(questionSvc)

	quizSvc := quiz.NewService(db, cfg.DefaultQuizMinutes)
	quizHandler := quiz.NewHandler(quizSvc)

	reportSvc := report.NewService(db)
	reportHandler := report.NewHandler(reportSvc)

	assistantSvc := assistant.NewService(assistant.ServiceConfig{
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	})
	assistantHandler := assistant.NewHandler(assistantSvc)

	loginLimiter := NewIPRateLimiter(cfg.AuthRateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", collector.MetricsHandler)

	r.Route("/api/v1", func(api chi.Router) {
		api.With(RateLimitMiddleware(loginLimiter)).Post("/auth/login", authHandler.Login)

		api.Group(func(secure chi.Router) {
			secure.Use(authHandler.RequireAuth)
			secure.Get("/auth/me", authHandler.Me)
			secure.Post("/auth/logout", authHandler.Logout)

			secure.Get("/categories", catalogHandler.ListCategories)
			secure.Get("/topics", catalogHandler.ListTopics)
			secure.Get("/questions", questionHandler.List)
			secure.Get("/questions/{id}", questionHandler.Get)

			secure.Post("/quiz/attempts", quizHandler.Start)
			secure.Get("/quiz/attempts/{id}", quizHandler.Summary)
			secure.Get("/quiz/attempts/{id}/questions", quizHandler.Questions)
			secure.Put("/quiz/attempts/{id}/answers/{question_id}", quizHandler.SaveAnswer)
			secure.Post("/quiz/attempts/{id}/submit", quizHandler.Submit)
			secure.Get("/quiz/attempts/{id}/result", quizHandler.Result)

			secure.Post("/assistant/reply", assistantHandler.Reply)

			secure.Group(func(editor chi.Router) {
				editor.Use(authHandler.RequireRoles(auth.RoleAdmin, auth.RoleEditor))
				editor.Post("/questions", questionHandler.Create)
				editor.Put("/questions/{id}", questionHandler.Update)
				editor.Delete("/questions/{id}", questionHandler.Delete)
				editor.Post("/questions/import/preview", questionHandler.PreviewImport)
				editor.Post("/questions/import", questionHandler.Import)
				editor.Get("/topics/{id}/questions/export", questionHandler.ExportTopicExcel)

				editor.Get("/reports/overview", reportHandler.Overview)
				editor.Get("/reports/topics/{id}", reportHandler.TopicSummary)
			})

			secure.Group(func(admin chi.Router) {
				admin.Use(authHandler.RequireRoles(auth.RoleAdmin))
				admin.Post("/categories", catalogHandler.CreateCategory)
				admin.Put("/categories/{id}", catalogHandler.UpdateCategory)
				admin.Delete("/categories/{id}", catalogHandler.DeleteCategory)
				admin.Post("/topics", catalogHandler.CreateTopic)
				admin.Put("/topics/{id}", catalogHandler.UpdateTopic)
				admin.Delete("/topics/{id}", catalogHandler.DeleteTopic)

				admin.Post("/admin/users", authHandler.CreateUser)
				admin.Get("/admin/users", authHandler.ListUsers)
				admin.Delete("/admin/users/{id}", authHandler.DeactivateUser)
			})
		})
	})

	return r
}
