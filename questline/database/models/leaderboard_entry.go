package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LeaderboardEntry is a participant's accumulated score within one challenge.
// Entries are created zeroed when a user joins and stay in 1:1 correspondence
// with the participant roster. Ranking is computed on read: score descending,
// then streak descending, then join order.
type LeaderboardEntry struct {
	bun.BaseModel `bun:"table:leaderboard_entries,alias:le"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ChallengeID int64     `bun:"challenge_id,notnull,unique:leaderboard_entries_challenge_user"`
	UserID      string    `bun:"user_id,notnull,unique:leaderboard_entries_challenge_user"`
	Score       int64     `bun:"score,notnull,default:0"`
	Streak      int64     `bun:"streak,notnull,default:0"`
	Position    int       `bun:"position,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
