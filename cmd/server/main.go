package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-platform/internal/config"
	"github.com/ignatzorin/freelance-platform/internal/db"
	"github.com/ignatzorin/freelance-platform/internal/goroutine"
	httpHandlers "github.com/ignatzorin/freelance-platform/internal/http/handlers"
	httpRouter "github.com/ignatzorin/freelance-platform/internal/http/router"
	"github.com/ignatzorin/freelance-platform/internal/logger"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	contractRepo := repository.NewContractRepository(dbConn)
	conversationRepo := repository.NewConversationRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	jobService := service.NewJobService(jobRepo, userRepo)
	contractService := service.NewContractService(contractRepo, jobRepo, userRepo)
	conversationService := service.NewConversationService(conversationRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	jobHandler := httpHandlers.NewJobHandler(jobService)
	proposalHandler := httpHandlers.NewProposalHandler(jobService, contractService)
	contractHandler := httpHandlers.NewContractHandler(contractService)
	conversationHandler := httpHandlers.NewConversationHandler(conversationService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, jobHandler, proposalHandler, contractHandler, conversationHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	})

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
