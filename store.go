package relay

import (
	"context"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ensureUser inserts a registry row for the user on first contact. Repeat
// calls are no-ops: the insert carries ON CONFLICT DO NOTHING on telegram_id,
// so there is no check-then-insert window.
func (r *Relay) ensureUser(ctx context.Context, telegramID int64, username string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoNothing: true,
		}).
		Create(&userRecord{TelegramID: telegramID, Username: username}).Error
	return storageErr("ensure user", err)
}

// readContext returns the newest window entries for the user in chronological
// order. The fetch runs newest-first so the LIMIT picks the recent end, then
// the slice is reversed: the provider wants the narrative oldest-first.
func (r *Relay) readContext(ctx context.Context, userID int64, window int) ([]memoryEntry, error) {
	if window <= 0 {
		return nil, nil
	}

	entries, err := gorm.G[memoryEntry](r.db).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(window).
		Find(ctx)
	if err != nil {
		return nil, storageErr("read context", err)
	}

	slices.Reverse(entries)
	return entries, nil
}

// appendExchange records one completed round: the user turn then the
// assistant turn, in one transaction so a failure writes neither.
func (r *Relay) appendExchange(ctx context.Context, userID int64, userText, replyText string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := appendMemory(ctx, tx, userID, roleUser, userText); err != nil {
			return err
		}
		return appendMemory(ctx, tx, userID, roleAssistant, replyText)
	})
	return storageErr("append exchange", err)
}

// appendMemory inserts one immutable entry; the row id is the sequence that
// defines chronological order.
func appendMemory(ctx context.Context, db *gorm.DB, userID int64, role, content string) error {
	return gorm.G[memoryEntry](db).Create(ctx, &memoryEntry{UserID: userID, Role: role, Content: content})
}

func (r *Relay) countUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).Count(&count).Error
	if err != nil {
		return 0, storageErr("count users", err)
	}
	return count, nil
}

func (r *Relay) countMemoryEntries(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&memoryEntry{}).Count(&count).Error
	if err != nil {
		return 0, storageErr("count memory entries", err)
	}
	return count, nil
}
