package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (r *Relay) sendMessageTo(ctx context.Context, bt *bot.Bot, chatID int64, msg string) (*models.Message, error) {
	return bt.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msg,
	})
}

func (r *Relay) sendPhotoTo(ctx context.Context, bt *bot.Bot, chatID int64, imageURL string) error {
	_, err := bt.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: imageURL},
	})
	return err
}

func (r *Relay) sendChatAction(ctx context.Context, bt *bot.Bot, chatID int64, action models.ChatAction) error {
	_, err := bt.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: action,
	})
	return err
}

// sendError turns the error taxonomy into the user-visible reply. Expected
// conditions get their own message, faults get a generic apology.
func (r *Relay) sendError(ctx context.Context, bt *bot.Bot, chatID int64, err error) {
	r.logger.Info("reporting error to user", zap.Error(err))

	if _, sendErr := r.sendMessageTo(ctx, bt, chatID, userMessageFor(err, r.config.DailyImageLimit)); sendErr != nil {
		r.logger.Error("failed to deliver error message", zap.Error(sendErr))
	}
}

func userMessageFor(err error, dailyImageLimit int) string {
	var genErr *GenerationError
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return fmt.Sprintf("⛔ سهمیه %d عکس امروزت تموم شده", dailyImageLimit)
	case errors.Is(err, ErrEmptyPrompt):
		return "❌ مثال:\n/image گربه فضانورد"
	case errors.As(err, &genErr):
		return "😔 الان نمی‌تونم جواب بدم، چند لحظه دیگه دوباره امتحان کن"
	default:
		return "😔 یه مشکلی پیش اومد، بعداً دوباره امتحان کن"
	}
}
