package services

import "context"

// Capacity bounds for list-backed collections. Inserts past the cap fail with
// ErrCapacityExceeded instead of silently truncating. A challenge roster and
// its leaderboard share the same cap so they stay in 1:1 correspondence.
const (
	MaxQuestsPerUser         = 100
	MaxChallengeParticipants = 50
)

// TxRunner executes a function as one indivisible, fully serialized state
// transition. Every mutating service operation runs through it; reads do not.
type TxRunner interface {
	RunSerialized(ctx context.Context, fn func(ctx context.Context) error) error
}
