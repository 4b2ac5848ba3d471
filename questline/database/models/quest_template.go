package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestTemplate is a reusable quest blueprint. Everything except
// PurchaseCount is immutable after creation; the creator never changes.
type QuestTemplate struct {
	bun.BaseModel `bun:"table:quest_templates,alias:qt"`

	ID                 int64      `bun:"id,pk,autoincrement"`
	CreatorID          string     `bun:"creator_id,notnull"`
	Name               string     `bun:"name,notnull"`
	Description        string     `bun:"description,notnull"`
	Frequency          Frequency  `bun:"frequency,notnull"`
	CustomIntervalDays *int       `bun:"custom_interval_days"`
	Difficulty         Difficulty `bun:"difficulty,notnull"`
	RecommendedReward  int64      `bun:"recommended_reward,notnull,default:0"`
	ForSale            bool       `bun:"for_sale,notnull,default:false"`
	Price              int64      `bun:"price,notnull,default:0"`
	PurchaseCount      int64      `bun:"purchase_count,notnull,default:0"`
	CreatedAt          time.Time  `bun:"created_at,notnull"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull"`
}
