package services

import "errors"

// Terminal error kinds for the public operation surface. Nothing is retried
// internally; callers decide whether to retry with corrected input. The only
// silent recovery in the whole engine is the streak reset, which is a defined
// state transition rather than an error.
var (
	ErrNotAuthorized          = errors.New("caller is not authorized for this operation")
	ErrQuestNotFound          = errors.New("quest not found")
	ErrTemplateNotFound       = errors.New("template not found")
	ErrChallengeNotFound      = errors.New("challenge not found")
	ErrInvalidFrequency       = errors.New("invalid quest frequency")
	ErrInvalidDifficulty      = errors.New("invalid quest difficulty")
	ErrInvalidDateRange       = errors.New("challenge end day must be after start day")
	ErrStartDayInPast         = errors.New("challenge start day is in the past")
	ErrAlreadyCompletedToday  = errors.New("quest already completed today")
	ErrQuestNotActive         = errors.New("quest is not active")
	ErrChallengeNotActive     = errors.New("challenge is not active")
	ErrAlreadyJoinedChallenge = errors.New("user already joined this challenge")
	ErrNotChallengeMember     = errors.New("user is not a challenge participant")
	ErrInsufficientReputation = errors.New("insufficient reputation")
	ErrTemplateNotForSale     = errors.New("template is not for sale")
	ErrCapacityExceeded       = errors.New("capacity exceeded")
)
