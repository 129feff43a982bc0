package relay

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quotaDecision struct {
	allowed        bool
	remainingAfter int
}

// checkAndReserve reads the ledger row for (user, resource) and decides
// whether one more use fits under limit today. A missing row or one whose
// usage_date is not today counts as zero (lazy reset). Read-only: the
// reservation holds nothing, the caller commits only after the gated
// operation actually succeeded, so a failed attempt never consumes quota.
func (r *Relay) checkAndReserve(ctx context.Context, userID int64, resource string, limit int, today string) (quotaDecision, error) {
	record, err := gorm.G[quotaRecord](r.db).
		Where("user_id = ? AND resource = ?", userID, resource).
		Last(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return quotaDecision{}, storageErr("load quota", err)
	}

	used := 0
	if err == nil && record.UsageDate == today {
		used = record.UsedToday
	}

	if used >= limit {
		return quotaDecision{allowed: false}, nil
	}
	return quotaDecision{allowed: true, remainingAfter: limit - used - 1}, nil
}

// commitUsage charges one use to the ledger. The lazy reset and the increment
// run inside a single upsert statement, so a date rollover between check and
// commit cannot be lost and there is no read-decide-write window here.
func (r *Relay) commitUsage(ctx context.Context, userID int64, resource string, today string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "resource"}},
			DoUpdates: clause.Assignments(map[string]any{
				"used_today": gorm.Expr("CASE WHEN quota_records.usage_date = excluded.usage_date THEN quota_records.used_today + 1 ELSE 1 END"),
				"usage_date": gorm.Expr("excluded.usage_date"),
				"updated_at": time.Now(),
			}),
		}).
		Create(&quotaRecord{UserID: userID, Resource: resource, UsedToday: 1, UsageDate: today}).Error
	return storageErr("commit quota", err)
}
