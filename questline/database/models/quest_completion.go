package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestCompletion records one completion of a quest on a given day. The
// unique (quest_id, day) pair is the anti-double-completion invariant.
type QuestCompletion struct {
	bun.BaseModel `bun:"table:quest_completions,alias:qc"`

	ID        int64     `bun:"id,pk,autoincrement"`
	QuestID   int64     `bun:"quest_id,notnull,unique:quest_completions_quest_day"`
	UserID    string    `bun:"user_id,notnull"`
	Day       int64     `bun:"day,notnull,unique:quest_completions_quest_day"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
