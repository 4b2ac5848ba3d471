package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestStreak tracks consecutive on-schedule completions of one quest by one
// user. LastCompletionDay zero means no completion has ever been recorded.
type QuestStreak struct {
	bun.BaseModel `bun:"table:quest_streaks,alias:qs"`

	ID                int64     `bun:"id,pk,autoincrement"`
	QuestID           int64     `bun:"quest_id,notnull,unique:quest_streaks_quest_user"`
	UserID            string    `bun:"user_id,notnull,unique:quest_streaks_quest_user"`
	CurrentStreak     int64     `bun:"current_streak,notnull,default:0"`
	LongestStreak     int64     `bun:"longest_streak,notnull,default:0"`
	LastCompletionDay int64     `bun:"last_completion_day,notnull,default:0"`
	CreatedAt         time.Time `bun:"created_at,notnull"`
	UpdatedAt         time.Time `bun:"updated_at,notnull"`
}
