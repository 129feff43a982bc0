package relay

import "github.com/go-telegram/bot"

func (r *Relay) setupBot() error {
	opts := []bot.Option{
		bot.WithDefaultHandler(r.handlerForMessage),
	}

	bt, err := bot.New(r.botToken, opts...)
	if err != nil {
		return err
	}

	r.bot = bt
	r.logger.Info("Bot initialized")

	return nil
}

func (r *Relay) setupDB() error {
	return r.db.AutoMigrate(&userRecord{}, &memoryEntry{}, &quotaRecord{})
}
