package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/learnspace/back/internal/api/handlers"
	"github.com/learnspace/back/internal/api/middleware"
)

// NewRouter sets up all the routes for the application
func NewRouter(
	authHandler *handlers.AuthHandler,
	spaceHandler *handlers.SpaceHandler,
	quizHandler *handlers.QuizHandler,
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware)

	r.Get("/", healthHandler.Health)
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Post("/logout", authHandler.Logout)

		r.Get("/session", authHandler.GetSession)
		r.Put("/customization", authHandler.UpdateCustomization)

		r.Route("/spaces", func(r chi.Router) {
			r.Get("/", spaceHandler.List)
			r.Post("/", spaceHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", spaceHandler.Get)
				r.Delete("/", spaceHandler.Delete)
				r.Post("/select", spaceHandler.Select)
				r.Post("/regenerate", spaceHandler.Regenerate)
				r.Get("/resources", spaceHandler.Resources)

				r.Get("/quiz", quizHandler.Show)
				r.Post("/quiz/answer", quizHandler.Answer)
				r.Post("/quiz/previous", quizHandler.Previous)
				r.Post("/quiz/retry", quizHandler.Retry)
			})
		})

		r.Post("/chat", chatHandler.Chat)
		r.Get("/chat/history", chatHandler.History)
	})

	return r
}
