package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/questline/questline/clock"
	"github.com/ellavondegurechaff/questline/questline/database/models"
	"github.com/ellavondegurechaff/questline/questline/database/repositories"
)

// QuestService is the quest registry: it owns quest creation, completion and
// activation, and drives the streak engine plus the leaderboard upsert on
// every qualifying completion.
type QuestService struct {
	quests     repositories.QuestRepository
	profiles   repositories.ProfileRepository
	challenges repositories.ChallengeRepository
	clock      clock.Clock
	tx         TxRunner
}

func NewQuestService(
	quests repositories.QuestRepository,
	profiles repositories.ProfileRepository,
	challenges repositories.ChallengeRepository,
	clk clock.Clock,
	tx TxRunner,
) *QuestService {
	return &QuestService{
		quests:     quests,
		profiles:   profiles,
		challenges: challenges,
		clock:      clk,
		tx:         tx,
	}
}

type CreateQuestParams struct {
	Name               string
	Description        string
	Frequency          models.Frequency
	CustomIntervalDays *int
	Difficulty         models.Difficulty
	RewardPoints       int64
	OriginTemplateID   *int64
}

// CreateQuest registers a new quest for the owner and returns its id.
func (qs *QuestService) CreateQuest(ctx context.Context, ownerID string, params CreateQuestParams) (int64, error) {
	var questID int64
	err := qs.tx.RunSerialized(ctx, func(ctx context.Context) error {
		id, err := qs.createQuest(ctx, ownerID, params)
		if err != nil {
			return err
		}
		questID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Quest created",
		slog.Int64("quest_id", questID),
		slog.String("owner_id", ownerID),
		slog.String("frequency", string(params.Frequency)))
	return questID, nil
}

// createQuest is the transaction-scoped body of CreateQuest. The marketplace
// and challenge services call it from inside their own transactions when they
// spawn quest instances.
func (qs *QuestService) createQuest(ctx context.Context, ownerID string, params CreateQuestParams) (int64, error) {
	if !params.Frequency.Valid() {
		return 0, ErrInvalidFrequency
	}
	if !params.Difficulty.Valid() {
		return 0, ErrInvalidDifficulty
	}

	if err := qs.profiles.EnsureExists(ctx, ownerID); err != nil {
		return 0, fmt.Errorf("failed to ensure profile: %w", err)
	}

	count, err := qs.quests.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count quests: %w", err)
	}
	if count >= MaxQuestsPerUser {
		return 0, ErrCapacityExceeded
	}

	quest := &models.Quest{
		OwnerID:            ownerID,
		Name:               params.Name,
		Description:        params.Description,
		Frequency:          params.Frequency,
		CustomIntervalDays: params.CustomIntervalDays,
		Difficulty:         params.Difficulty,
		RewardPoints:       params.RewardPoints,
		Active:             true,
		CreatedAtDay:       qs.clock.CurrentDay(),
		OriginTemplateID:   params.OriginTemplateID,
	}
	if err := qs.quests.Create(ctx, quest); err != nil {
		return 0, fmt.Errorf("failed to create quest: %w", err)
	}

	return quest.ID, nil
}

// CompleteQuest records a completion for the current day and applies every
// downstream state transition atomically: completion record, streak update,
// reputation credit, profile counters and the challenge leaderboard upsert.
func (qs *QuestService) CompleteQuest(ctx context.Context, callerID string, questID int64) error {
	return qs.tx.RunSerialized(ctx, func(ctx context.Context) error {
		quest, err := qs.quests.GetByID(ctx, questID)
		if err != nil {
			return fmt.Errorf("failed to get quest: %w", err)
		}
		if quest == nil {
			return ErrQuestNotFound
		}
		if !quest.Active {
			return ErrQuestNotActive
		}

		day := qs.clock.CurrentDay()

		authorized := quest.OwnerID == callerID
		var joinedChallenges []*models.CommunityChallenge
		if quest.OriginTemplateID != nil {
			candidates, err := qs.challenges.ActiveByTemplate(ctx, *quest.OriginTemplateID, day)
			if err != nil {
				return fmt.Errorf("failed to look up challenges: %w", err)
			}
			for _, c := range candidates {
				joined, err := qs.challenges.IsParticipant(ctx, c.ID, callerID)
				if err != nil {
					return fmt.Errorf("failed to check participation: %w", err)
				}
				if joined {
					joinedChallenges = append(joinedChallenges, c)
				}
			}
			if len(joinedChallenges) > 0 {
				authorized = true
			}
		}
		if !authorized {
			return ErrNotAuthorized
		}

		done, err := qs.quests.HasCompletion(ctx, questID, day)
		if err != nil {
			return fmt.Errorf("failed to check completion: %w", err)
		}
		if done {
			return ErrAlreadyCompletedToday
		}

		if err := qs.quests.CreateCompletion(ctx, &models.QuestCompletion{
			QuestID: questID,
			UserID:  callerID,
			Day:     day,
		}); err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}

		newStreak, err := qs.updateStreak(ctx, quest, callerID, day)
		if err != nil {
			return err
		}

		if err := qs.profiles.EnsureExists(ctx, callerID); err != nil {
			return fmt.Errorf("failed to ensure profile: %w", err)
		}
		profile, err := qs.profiles.GetOrDefault(ctx, callerID)
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}
		profile.Reputation += quest.Difficulty.RewardReputation()
		profile.TotalCompletions++
		profile.CurrentStreakAggregate++
		if newStreak > profile.LongestStreakEver {
			profile.LongestStreakEver = newStreak
		}
		profile.LastActiveDay = day
		if err := qs.profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		for _, c := range joinedChallenges {
			if err := qs.upsertLeaderboard(ctx, c.ID, callerID, newStreak); err != nil {
				return err
			}
		}

		slog.Info("Quest completed",
			slog.Int64("quest_id", questID),
			slog.String("user_id", callerID),
			slog.Int64("day", day),
			slog.Int64("streak", newStreak))
		return nil
	})
}

// updateStreak applies the streak continuity rule. A gap larger than the
// expected interval resets the chain to 1; the reset is a state transition,
// never an error.
func (qs *QuestService) updateStreak(ctx context.Context, quest *models.Quest, userID string, day int64) (int64, error) {
	streak, err := qs.quests.GetStreak(ctx, quest.ID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get streak: %w", err)
	}
	if streak == nil {
		streak = &models.QuestStreak{QuestID: quest.ID, UserID: userID}
	}

	interval := quest.Frequency.ExpectedInterval(quest.CustomIntervalDays)
	maintained := streak.LastCompletionDay == 0 ||
		(day > streak.LastCompletionDay && day-streak.LastCompletionDay <= interval)

	if maintained {
		streak.CurrentStreak++
	} else {
		streak.CurrentStreak = 1
	}
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastCompletionDay = day

	if err := qs.quests.UpsertStreak(ctx, streak); err != nil {
		return 0, fmt.Errorf("failed to upsert streak: %w", err)
	}
	return streak.CurrentStreak, nil
}

// upsertLeaderboard bumps the caller's entry for one challenge. A user
// without an entry has not joined; their completions do not count and the
// upsert is a no-op.
func (qs *QuestService) upsertLeaderboard(ctx context.Context, challengeID int64, userID string, streak int64) error {
	entry, err := qs.challenges.GetLeaderboardEntry(ctx, challengeID, userID)
	if err != nil {
		return fmt.Errorf("failed to get leaderboard entry: %w", err)
	}
	if entry == nil {
		return nil
	}

	entry.Score++
	entry.Streak = streak
	if err := qs.challenges.UpdateLeaderboardEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to update leaderboard entry: %w", err)
	}
	return nil
}

// ToggleActive flips the quest's active flag and returns the new state. Only
// the owner may toggle.
func (qs *QuestService) ToggleActive(ctx context.Context, callerID string, questID int64) (bool, error) {
	var newState bool
	err := qs.tx.RunSerialized(ctx, func(ctx context.Context) error {
		quest, err := qs.quests.GetByID(ctx, questID)
		if err != nil {
			return fmt.Errorf("failed to get quest: %w", err)
		}
		if quest == nil {
			return ErrQuestNotFound
		}
		if quest.OwnerID != callerID {
			return ErrNotAuthorized
		}

		quest.Active = !quest.Active
		if err := qs.quests.Update(ctx, quest); err != nil {
			return fmt.Errorf("failed to update quest: %w", err)
		}
		newState = quest.Active
		return nil
	})
	return newState, err
}

// Read-only queries. Absence is reported as nil or a zeroed record, never as
// an error.

func (qs *QuestService) GetQuest(ctx context.Context, questID int64) (*models.Quest, error) {
	return qs.quests.GetByID(ctx, questID)
}

func (qs *QuestService) GetUserQuests(ctx context.Context, userID string) ([]*models.Quest, error) {
	return qs.quests.GetByOwner(ctx, userID)
}

func (qs *QuestService) IsQuestCompleted(ctx context.Context, questID, day int64) (bool, error) {
	return qs.quests.HasCompletion(ctx, questID, day)
}

func (qs *QuestService) GetQuestStreak(ctx context.Context, questID int64, userID string) (*models.QuestStreak, error) {
	streak, err := qs.quests.GetStreak(ctx, questID, userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		streak = &models.QuestStreak{QuestID: questID, UserID: userID}
	}
	return streak, nil
}

func (qs *QuestService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return qs.profiles.GetOrDefault(ctx, userID)
}
