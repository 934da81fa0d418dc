package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/learnspace/back/internal/api/handlers"
	"github.com/learnspace/back/internal/api/routes"
	"github.com/learnspace/back/internal/clients"
	"github.com/learnspace/back/internal/config"
	"github.com/learnspace/back/internal/repositories"
	"github.com/learnspace/back/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		config.Log().Warnf(".env file not found: %v", err)
	}

	config.InitLogger()
	log := config.Log()

	// Completion client, chosen per deployment. The rest of the system
	// treats it as an opaque text-completion service.
	completionClient := newCompletionClient()

	// Repositories: JSON file storage is the default and the contract the
	// data files follow; MySQL is opt-in and falls back to the file store
	// when the database is unreachable.
	var userRepo repositories.UserRepository
	var spaceRepo repositories.SpaceRepository

	if config.StorageBackend() == config.StorageBackendMySQL {
		dbConfig := config.LoadDatabaseConfig()
		db, err := config.NewDatabaseWithRetry(dbConfig)
		if err != nil {
			log.Errorf("❌ Database connection failed: %v", err)
			log.Warn("⚠️ Falling back to JSON file storage")
		} else {
			defer db.Close()
			userRepo = repositories.NewMySQLUserRepository(db)
			spaceRepo = repositories.NewMySQLSpaceRepository(db)
			log.Info("✅ Initialized MySQL repositories")
		}
	}

	if userRepo == nil {
		dataDir := config.DataDir()
		userRepo = repositories.NewJSONUserRepository(dataDir)
		spaceRepo = repositories.NewJSONSpaceRepository(dataDir)
		log.Infof("✅ Initialized JSON file repositories (data dir: %s)", dataDir)
	}

	sessionRepo := repositories.NewMemorySessionRepository()

	// Expired sessions are rejected per request anyway; the sweep just
	// keeps the map from accumulating dead entries.
	go func() {
		for range time.Tick(time.Hour) {
			if err := sessionRepo.DeleteExpired(context.Background()); err != nil {
				log.WithError(err).Warn("session sweep failed")
			}
		}
	}()

	// Services
	authService := services.NewAuthService(userRepo, sessionRepo)
	generatorService := services.NewGeneratorService(completionClient)
	spaceService := services.NewSpaceService(spaceRepo, generatorService)
	chatService := services.NewChatService(completionClient)
	quizService := services.NewQuizService(spaceService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	spaceHandler := handlers.NewSpaceHandler(authService, spaceService)
	quizHandler := handlers.NewQuizHandler(authService, quizService)
	chatHandler := handlers.NewChatHandler(authService, spaceService, chatService)
	healthHandler := handlers.NewHealthHandler()

	router := routes.NewRouter(authHandler, spaceHandler, quizHandler, chatHandler, healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("🚀 Learnspace Backend Server starting on port %s", port)
	log.Info("📋 Available endpoints:")
	log.Info("  - GET    /health")
	log.Info("  - POST   /api/login")
	log.Info("  - POST   /api/register")
	log.Info("  - POST   /api/logout")
	log.Info("  - GET    /api/session")
	log.Info("  - PUT    /api/customization")
	log.Info("  - GET    /api/spaces")
	log.Info("  - POST   /api/spaces")
	log.Info("  - GET    /api/spaces/{id}")
	log.Info("  - DELETE /api/spaces/{id}")
	log.Info("  - POST   /api/spaces/{id}/select")
	log.Info("  - POST   /api/spaces/{id}/regenerate")
	log.Info("  - GET    /api/spaces/{id}/resources")
	log.Info("  - GET    /api/spaces/{id}/quiz")
	log.Info("  - POST   /api/spaces/{id}/quiz/answer")
	log.Info("  - POST   /api/spaces/{id}/quiz/previous")
	log.Info("  - POST   /api/spaces/{id}/quiz/retry")
	log.Info("  - POST   /api/chat")
	log.Info("  - GET    /api/chat/history")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}

// newCompletionClient builds the configured provider. OPENAI is the
// default; COMPLETION_PROVIDER selects claude or gemini instead.
func newCompletionClient() clients.CompletionClient {
	log := config.Log()

	provider := strings.ToLower(os.Getenv("COMPLETION_PROVIDER"))
	model := os.Getenv("COMPLETION_MODEL")

	switch provider {
	case "claude":
		log.Infof("🤖 Using Claude completion client (model: %s)", model)
		return clients.NewClaudeClient(model)
	case "gemini":
		client, err := clients.NewGeminiClient(context.Background(), model)
		if err != nil {
			log.Errorf("❌ Failed to initialize Gemini client: %v", err)
			log.Warn("⚠️ Falling back to the OpenAI client")
			return clients.NewOpenAIClient(model)
		}
		log.Infof("🤖 Using Gemini completion client (model: %s)", model)
		return client
	default:
		log.Infof("🤖 Using OpenAI completion client (model: %s)", model)
		return clients.NewOpenAIClient(model)
	}
}
