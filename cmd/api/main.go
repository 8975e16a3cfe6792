package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"day-assistant/internal/config"
	"day-assistant/internal/db"
	apihttp "day-assistant/internal/http"
	"day-assistant/internal/llm"
	"day-assistant/internal/repository"
	"day-assistant/internal/service"
	"day-assistant/internal/tools"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(ctxPing, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	cancelPing()

	schema, err := os.ReadFile(cfg.SchemaFile)
	if err != nil {
		logger.Fatal("read schema file", zap.Error(err), zap.String("path", cfg.SchemaFile))
	}

	store := repository.NewPgSessionStore(pool)
	docRepo := repository.NewPgDocumentRepository(pool)
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbedModel, zap.NewStdLog(logger))

	registry := tools.NewRegistry()
	if err := registry.Register(tools.VectorToolName, tools.VectorToolDescription,
		tools.NewVectorLookup(llmClient, docRepo, cfg.SearchTopK)); err != nil {
		logger.Fatal("register vector tool", zap.Error(err))
	}
	runner := tools.NewLLMQueryRunner(llmClient, string(schema))
	if err := registry.Register(tools.StructuredToolName, tools.StructuredToolDescription,
		tools.NewStructuredLookup(runner)); err != nil {
		logger.Fatal("register structured tool", zap.Error(err))
	}

	var translator service.Translator
	if cfg.TranslatorEndpoint != "" {
		translator = service.NewHTTPTranslator(cfg.TranslatorEndpoint, cfg.TranslatorKey, cfg.TranslatorRegion)
	}

	reformulator := service.NewReformulator(llmClient, cfg.HistoryWindow)
	router := service.NewToolRouter(registry, service.NewLLMDecider(llmClient))
	namer := service.NewSessionNamer(llmClient)
	chatSvc := service.NewChatService(store, reformulator, router, namer, translator, logger, cfg.HistoryWindow)
	followupSvc := service.NewFollowUpService(llmClient, string(schema))
	identitySvc := service.NewJWTIdentityService(cfg.JWTSecret)

	var limiter service.QueryRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisQueryRateLimiter(redisClient,
				time.Duration(cfg.RateLimitWindow)*time.Second, cfg.RateLimitMax)
		}
		cancel()
	}

	chatHandler := apihttp.NewChatHandler(logger, store, chatSvc, followupSvc, limiter)
	ginRouter := apihttp.NewRouter(logger, identitySvc, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           ginRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
