package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Quest is a recurring task owned by a single user. Quests are never deleted,
// only deactivated.
type Quest struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID                 int64      `bun:"id,pk,autoincrement"`
	OwnerID            string     `bun:"owner_id,notnull"`
	Name               string     `bun:"name,notnull"`
	Description        string     `bun:"description,notnull"`
	Frequency          Frequency  `bun:"frequency,notnull"`
	CustomIntervalDays *int       `bun:"custom_interval_days"`
	Difficulty         Difficulty `bun:"difficulty,notnull"`
	RewardPoints       int64      `bun:"reward_points,notnull,default:0"`
	Active             bool       `bun:"active,notnull,default:true"`
	CreatedAtDay       int64      `bun:"created_at_day,notnull"`
	OriginTemplateID   *int64     `bun:"origin_template_id"`
	CreatedAt          time.Time  `bun:"created_at,notnull"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull"`
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// ExpectedInterval returns the maximum number of days between two completions
// that keeps a streak alive. Custom frequencies without an interval fall back
// to one day.
func (f Frequency) ExpectedInterval(customDays *int) int64 {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	case FrequencyMonthly:
		return 30
	default:
		if customDays != nil && *customDays > 0 {
			return int64(*customDays)
		}
		return 1
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// RewardReputation returns the reputation credited for one completion.
func (d Difficulty) RewardReputation() int64 {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 20
	case DifficultyHard:
		return 30
	}
	return 0
}
