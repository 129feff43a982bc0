package relay

import "gorm.io/gorm"

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
)

// resourceImage is the only quota-gated resource today. The ledger is keyed
// by resource name so another gated operation reuses it without a schema
// change.
const resourceImage = "image"

type userRecord struct {
	gorm.Model

	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
}

type memoryEntry struct {
	gorm.Model

	UserID  int64 `gorm:"index"`
	Role    string
	Content string
}

// quotaRecord counts uses of a gated resource per user and calendar date.
// UsedToday is meaningful only while UsageDate is the current date; a stale
// row counts as zero (lazy reset, no background sweep).
type quotaRecord struct {
	gorm.Model

	UserID    int64  `gorm:"uniqueIndex:idx_quota_user_resource"`
	Resource  string `gorm:"uniqueIndex:idx_quota_user_resource"`
	UsedToday int
	UsageDate string
}
