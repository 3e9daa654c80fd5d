package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BloggingApp/post-insights/internal/config"
	"github.com/BloggingApp/post-insights/internal/handler"
	"github.com/BloggingApp/post-insights/internal/improvement"
	"github.com/BloggingApp/post-insights/internal/rabbitmq"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/repository/postgres"
	"github.com/BloggingApp/post-insights/internal/server"
	"github.com/BloggingApp/post-insights/internal/service"
	"github.com/BloggingApp/post-insights/pkg/llm"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load .env file, using process environment: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	dbConfig := config.DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
	db, err := postgres.DB(ctx, dbConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	if err := postgres.MigrateUp(logger, dbConfig.MigrateURL()); err != nil {
		logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
	}

	redisOptions := &redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	rdb := redis.NewClient(redisOptions)
	defer rdb.Close()
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	mq, err := rabbitmq.New(os.Getenv("RABBITMQ_CONN_STRING"))
	if err != nil {
		logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
	}
	defer mq.Close()
	logger.Info("Successfully connected to RabbitMQ")

	thresholds, err := config.LoadSentiment()
	if err != nil {
		logger.Sugar().Panicf("failed to load sentiment config: %s", err.Error())
	}

	llmConfig := config.LoadLLM(apiKeyFromEnv)
	llmClient, err := llm.New(llm.Options{
		Provider: llmConfig.Provider,
		APIKey:   llmConfig.APIKey,
		Model:    llmConfig.Model,
		BaseURL:  llmConfig.BaseURL,
	})
	if err != nil {
		logger.Sugar().Panicf("failed to create llm client: %s", err.Error())
	}
	if llmConfig.APIKey == "" {
		logger.Sugar().Warnf("no api key for llm provider(%s), improvements will fall back", llmConfig.Provider)
	}
	summarizer := improvement.NewSummarizer(logger, llmClient, llmConfig.Params)

	cacheConfig := config.LoadCache()

	repos := repository.New(db, rdb)
	services := service.New(logger, repos, mq, summarizer, service.Options{
		Thresholds:      thresholds,
		LLMTimeout:      llmConfig.Timeout,
		PostTTL:         cacheConfig.PostTTL,
		ImprovementsTTL: cacheConfig.ImprovementsTTL,
		UserServiceAPI:  os.Getenv("USER_SERVICE_API"),
	})
	handlers := handler.New(services, os.Getenv("ACCESS_SECRET"))

	srv := server.New(config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   llmConfig.Timeout + time.Second*10,
	})
	go func() {
		if err := srv.Run(); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	services.StartConsumeAll(ctx)

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shutdown http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}

func apiKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case llm.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}
