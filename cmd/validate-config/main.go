package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/spendeats/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - Gemini Model: %s\n", cfg.GeminiModel)
	fmt.Printf("  - Store Driver: %s\n", cfg.StoreDriver)
	fmt.Printf("  - Timezone: %s\n", cfg.Timezone)
	if cfg.StoreDriver == config.StoreDriverPostgres {
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	}
	if cfg.RedisEnabled() {
		fmt.Printf("  - Redis: %s:%s (db %d, password %s)\n", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB, maskToken(cfg.Redis.Password))
		fmt.Printf("  - State TTL: %s\n", cfg.Redis.StateTTL)
	} else {
		fmt.Printf("  - Redis: disabled, state kept in memory\n")
	}
	fmt.Printf("  - Rollover Schedule: %s\n", cfg.Jobs.RolloverSchedule)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
