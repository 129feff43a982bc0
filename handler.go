package relay

import (
	"context"
	"strings"
	"time"

	"github.com/chhongzh/shlex"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (r *Relay) handlerForMessage(ctx context.Context, bt *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	username := update.Message.From.Username

	if err := r.ensureUser(ctx, userID, username); err != nil {
		r.logger.Error("ensure user failed", zap.Error(err))
		r.sendError(ctx, bt, chatID, err)
		return
	}

	if len(update.Message.Photo) > 0 {
		r.handlePhotoMessage(ctx, bt, chatID, update.Message.Photo)
		return
	}

	chatText := strings.TrimSpace(update.Message.Text)
	if chatText == "" {
		return
	}

	r.logger.Info("message received",
		zap.Int64("ChatID", chatID),
		zap.String("Username", username),
		zap.Int64("UserID", userID),
	)

	if strings.HasPrefix(chatText, "/") {
		commandLine := strings.TrimSpace(chatText[1:])
		if err := r.handleCommand(ctx, bt, chatID, userID, username, commandLine); err != nil {
			r.sendError(ctx, bt, chatID, err)
		}
		return
	}

	if err := r.handleChat(ctx, bt, chatID, userID, username, chatText); err != nil {
		r.sendError(ctx, bt, chatID, err)
	}
}

func (r *Relay) handleChat(ctx context.Context, bt *bot.Bot, chatID, userID int64, username, chatText string) error {
	stopTyping := r.startTypingLoop(ctx, bt, chatID)
	defer stopTyping()

	reply, err := r.converse(ctx, userID, username, chatText)
	if err != nil {
		return err
	}

	_, err = r.sendMessageTo(ctx, bt, chatID, reply)
	return err
}

func (r *Relay) handlePhotoMessage(ctx context.Context, bt *bot.Bot, chatID int64, photos []models.PhotoSize) {
	stopTyping := r.startTypingLoop(ctx, bt, chatID)
	defer stopTyping()

	// Telegram sends several sizes, the last one is the largest.
	fileID := photos[len(photos)-1].FileID

	file, err := bt.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		r.sendError(ctx, bt, chatID, generationErr("get file", err))
		return
	}

	description, err := r.describePhoto(ctx, bt.FileDownloadLink(file))
	if err != nil {
		r.sendError(ctx, bt, chatID, err)
		return
	}

	if _, err := r.sendMessageTo(ctx, bt, chatID, description); err != nil {
		r.logger.Error("sending description failed", zap.Error(err))
	}
}

func (r *Relay) handleCommand(ctx context.Context, bt *bot.Bot, chatID, userID int64, username, commandLine string) error {
	parts, err := shlex.Split(commandLine)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	return r.executeCommand(ctx, bt, parts[0], chatID, userID, username, parts[1:])
}

// startTypingLoop keeps the Telegram "typing" indicator alive while the
// provider works. Returns the stop function.
func (r *Relay) startTypingLoop(ctx context.Context, bt *bot.Bot, chatID int64) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(time.Second * 6)

	go func() {
		fn := func() {
			if err := r.sendChatAction(ctx, bt, chatID, models.ChatActionTyping); err != nil {
				r.logger.Error("Action Routine Error", zap.Error(err))
			}
		}
		fn()
		for {
			select {
			case <-done:
				ticker.Stop()
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() {
		close(done)
	}
}
