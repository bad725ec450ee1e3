package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/spendeats/internal/assistant"
	"github.com/vladimiradmaev/spendeats/internal/bot"
	"github.com/vladimiradmaev/spendeats/internal/bot/handlers"
	"github.com/vladimiradmaev/spendeats/internal/bot/state"
	"github.com/vladimiradmaev/spendeats/internal/catalog"
	"github.com/vladimiradmaev/spendeats/internal/config"
	"github.com/vladimiradmaev/spendeats/internal/database"
	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/jobs"
	"github.com/vladimiradmaev/spendeats/internal/logger"
	"github.com/vladimiradmaev/spendeats/internal/repository"
	"github.com/vladimiradmaev/spendeats/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using the process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()
	logger.Info("Starting SpendEATS bot", "store", cfg.StoreDriver, "timezone", cfg.Timezone.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stores *repository.Stores
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("Using in-memory stores, data is lost on restart")
		stores = repository.NewMemoryStores()
	default:
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		stores = repository.NewPostgresStores(db)
	}

	var stateManager state.StateManager = state.NewManager()
	if cfg.RedisEnabled() {
		redisManager, err := state.NewRedisManager(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err, "host", cfg.Redis.Host)
		}
		defer redisManager.Close()
		stateManager = redisManager
		logger.Info("Conversation state stored in Redis", "host", cfg.Redis.Host, "ttl", cfg.Redis.StateTTL.String())
	}

	clock := domain.SystemClock{Location: cfg.Timezone}
	menu := catalog.Default()

	loyaltyService := services.NewLoyaltyService(stores.Users, stores.Reviews, menu, clock)
	spendingService := services.NewSpendingService(stores.Users, stores.Orders, clock)
	orderService := services.NewOrderService(menu, stores.Orders, loyaltyService, spendingService, clock)
	dietService := services.NewDietService(menu, stores.Plans, stores.Orders, domain.NewRandomSource(time.Now().UnixNano()), clock)
	schedulerService := services.NewSchedulerService(menu, stores.Plans, clock)
	logger.Info("Services initialized successfully")

	var fallback assistant.Responder
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiResponder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, menu)
		if err != nil {
			logger.Fatal("Failed to create Gemini client", "error", err)
		}
		defer gemini.Close()
		fallback = gemini
		logger.Info("Gemini fallback enabled", "model", cfg.GeminiModel)
	}
	chatAssistant := assistant.New(spendingService, dietService, assistant.NewStaticResponder(nil), fallback)

	rollover, err := jobs.NewRolloverJob(spendingService, cfg.Jobs.RolloverSchedule, cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to schedule monthly rollover", "error", err)
	}
	rollover.Start()
	defer func() { <-rollover.Stop().Done() }()

	telegramBot, err := bot.NewBot(cfg.TelegramToken, handlers.Dependencies{
		Catalog:   menu,
		Orders:    orderService,
		Spending:  spendingService,
		Loyalty:   loyaltyService,
		Diet:      dietService,
		Scheduler: schedulerService,
		Assistant: chatAssistant,
		Errors:    apperrors.NewHandler(logger.GetLogger()),
	}, stateManager)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	var botService domain.BotService = telegramBot
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := botService.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Bot stopped with error", "error", err)
			stop()
		}
	}()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	botService.Stop()
	wg.Wait()
	logger.Info("Bot stopped")
}
