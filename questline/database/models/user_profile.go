package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserProfile aggregates a user's reputation and streak summary. Rows are
// created lazily on first interaction; re-creation is a no-op.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`

	UserID                 string    `bun:"user_id,pk"`
	Reputation             int64     `bun:"reputation,notnull,default:0"`
	TotalCompletions       int64     `bun:"total_completions,notnull,default:0"`
	LongestStreakEver      int64     `bun:"longest_streak_ever,notnull,default:0"`
	CurrentStreakAggregate int64     `bun:"current_streak_aggregate,notnull,default:0"`
	LastActiveDay          int64     `bun:"last_active_day,notnull,default:0"`
	CreatedAt              time.Time `bun:"created_at,notnull"`
	UpdatedAt              time.Time `bun:"updated_at,notnull"`
}
