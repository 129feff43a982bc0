package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"gorm.io/gorm"

	relay "github.com/amirduste-prog/telegram-bot"
	"github.com/amirduste-prog/telegram-bot/internal/environment"
)

const defaultSystemPrompt = "تو یک دستیار فارسی، مودب و دقیق هستی"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("bot exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	botToken, err := environment.RequiredString("TELEGRAM_BOT_TOKEN")
	if err != nil {
		return err
	}

	apiKey, err := environment.RequiredString("GAPGPT_API_KEY")
	if err != nil {
		return err
	}

	cfg := relay.Config{
		SystemPrompt:    environment.StringOr("BOT_SYSTEM_PROMPT", defaultSystemPrompt),
		ContextWindow:   environment.IntOr("BOT_CONTEXT_WINDOW", 10),
		DailyImageLimit: environment.IntOr("DAILY_IMAGE_LIMIT", 3),
		AdminIDs:        environment.Int64SliceOr("BOT_ADMIN_IDS", nil),
		RequestTimeout:  environment.DurationOr("BOT_REQUEST_TIMEOUT", 2*time.Minute),
	}

	db, err := gorm.Open(sqlite.Open(environment.StringOr("BOT_DB_PATH", "bot.db")), &gorm.Config{})
	if err != nil {
		return err
	}

	client := openai.NewClient(
		option.WithBaseURL(environment.StringOr("GAPGPT_BASE_URL", "https://api.gapgpt.app/v1")),
		option.WithAPIKey(apiKey),
	)

	provider := relay.NewOpenAIProvider(
		&client,
		environment.StringOr("BOT_CHAT_MODEL", "gpt-4o"),
		environment.StringOr("BOT_IMAGE_MODEL", "gpt-image-1"),
		environment.StringOr("BOT_VISION_MODEL", "gpt-4o"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := relay.New(ctx, logger, provider, db, botToken, cfg)

	closeCh, err := r.Start()
	if err != nil {
		return err
	}

	logger.Info("Bot is running")
	<-closeCh

	return nil
}
