package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"insurance-ai-advisor/internal/agent"
	"insurance-ai-advisor/internal/config"
	"insurance-ai-advisor/internal/dialogue"
	"insurance-ai-advisor/internal/platform/telegram"
	"insurance-ai-advisor/internal/recommend"
	"insurance-ai-advisor/internal/report"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config failed", zap.Error(err))
	}

	// 1. Infrastructure
	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		logger.Info("waiting for database", zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}
	logger.Info("connected to database")

	m, err := migrate.New(cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("migration init failed", zap.Error(err))
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal("migration up failed", zap.Error(err))
	}
	logger.Info("migrations applied")

	// 2. Plan table + resolver
	table, err := recommend.LoadPlanTable(cfg.PlanTablePath)
	if err != nil {
		logger.Fatal("loading plan table failed", zap.Error(err))
	}
	logger.Info("plan table loaded", zap.Int("rows", table.Len()))
	resolver := recommend.NewResolver(table, nil)

	// 3. Clients
	aiClient := agent.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	tgClient := telegram.NewClient(cfg.TelegramBotToken)
	if cfg.AdvisorChatID == 0 {
		logger.Warn("ADVISOR_CHAT_ID is not set, handoff reports will not be delivered")
	}

	// 4. Services
	repo := dialogue.NewRepository(db)
	reportSvc := report.NewService(tgClient, cfg.AdvisorChatID, logger)
	dialogueSvc := dialogue.NewService(repo, aiClient, aiClient, resolver, reportSvc, logger)
	dialogueHandler := dialogue.NewHandler(dialogueSvc)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for the chat frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		dialogue.RegisterRoutes(r, dialogueHandler)
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
