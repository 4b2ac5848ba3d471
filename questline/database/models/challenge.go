package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CommunityChallenge is a time-boxed group activity built around one
// template. Day bounds are inclusive; the challenge accepts completions
// through EndDay.
type CommunityChallenge struct {
	bun.BaseModel `bun:"table:community_challenges,alias:cc"`

	ID          int64     `bun:"id,pk,autoincrement"`
	CreatorID   string    `bun:"creator_id,notnull"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description,notnull"`
	TemplateID  int64     `bun:"template_id,notnull"`
	StartDay    int64     `bun:"start_day,notnull"`
	EndDay      int64     `bun:"end_day,notnull"`
	Active      bool      `bun:"active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// ChallengeParticipant is one member of a challenge roster. Position records
// join order and matches the position of the user's leaderboard entry.
type ChallengeParticipant struct {
	bun.BaseModel `bun:"table:challenge_participants,alias:cp"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ChallengeID int64     `bun:"challenge_id,notnull,unique:challenge_participants_challenge_user"`
	UserID      string    `bun:"user_id,notnull,unique:challenge_participants_challenge_user"`
	Position    int       `bun:"position,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}
