package relay

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
)

type commandHandlerFunc = func(context.Context, *bot.Bot, int64, int64, string, []string) error

func (r *Relay) executeCommand(ctx context.Context, bt *bot.Bot, command string, chatID, userID int64, username string, args []string) error {
	handlers := map[string]commandHandlerFunc{
		"start": r.handleStart,
		"help":  r.handleHelp,
		"image": r.handleImage,
		"stats": r.handleStats,
	}

	if handler, ok := handlers[strings.ToLower(command)]; ok {
		return handler(ctx, bt, chatID, userID, username, args)
	}

	_, err := r.sendMessageTo(ctx, bt, chatID, "دستور ناشناخته است، /help را ببین")
	return err
}

func (r *Relay) handleStart(ctx context.Context, bt *bot.Bot, chatID int64, _ int64, username string, _ []string) error {
	greeting := "سلام! من دستیار هوشمند تو هستم، هر سوالی داری بپرس 🙂"
	if username != "" {
		greeting = fmt.Sprintf("سلام %s! من دستیار هوشمند تو هستم، هر سوالی داری بپرس 🙂", username)
	}
	_, err := r.sendMessageTo(ctx, bt, chatID, greeting)
	return err
}

func (r *Relay) handleHelp(ctx context.Context, bt *bot.Bot, chatID int64, _ int64, _ string, _ []string) error {
	help := `دستورهای موجود:
/help نمایش همین راهنما
/image <موضوع> ساخت عکس (سهمیه روزانه %d عدد)
/stats آمار ربات (فقط مدیر)

پیام متنی بفرست تا گفتگو کنیم، یا عکس بفرست تا تحلیلش کنم.`
	_, err := r.sendMessageTo(ctx, bt, chatID, fmt.Sprintf(help, r.config.DailyImageLimit))
	return err
}

func (r *Relay) handleImage(ctx context.Context, bt *bot.Bot, chatID, userID int64, _ string, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))

	stopTyping := r.startTypingLoop(ctx, bt, chatID)
	defer stopTyping()

	imageURL, err := r.illustrate(ctx, userID, prompt)
	if err != nil {
		return err
	}

	return r.sendPhotoTo(ctx, bt, chatID, imageURL)
}

// handleStats is restricted to the configured admin allow-list.
func (r *Relay) handleStats(ctx context.Context, bt *bot.Bot, chatID, userID int64, _ string, _ []string) error {
	if !r.isAdmin(userID) {
		_, err := r.sendMessageTo(ctx, bt, chatID, "⛔ دسترسی نداری")
		return err
	}

	users, err := r.countUsers(ctx)
	if err != nil {
		return err
	}

	entries, err := r.countMemoryEntries(ctx)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("📊 آمار ربات:\n\n👤 کاربران: %d\n💬 پیام‌های ذخیره‌شده: %d", users, entries)
	_, err = r.sendMessageTo(ctx, bt, chatID, msg)
	return err
}

func (r *Relay) isAdmin(userID int64) bool {
	return slices.Contains(r.config.AdminIDs, userID)
}
