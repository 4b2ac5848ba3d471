package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/questline/questline/clock"
	"github.com/ellavondegurechaff/questline/questline/database/models"
	"github.com/ellavondegurechaff/questline/questline/database/repositories"
)

// ChallengeService manages community challenges: roster membership, the
// per-challenge leaderboard and spawning quest instances from the challenge
// template.
type ChallengeService struct {
	challenges repositories.ChallengeRepository
	templates  repositories.TemplateRepository
	questSvc   *QuestService
	clock      clock.Clock
	tx         TxRunner
}

func NewChallengeService(
	challenges repositories.ChallengeRepository,
	templates repositories.TemplateRepository,
	questSvc *QuestService,
	clk clock.Clock,
	tx TxRunner,
) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		templates:  templates,
		questSvc:   questSvc,
		clock:      clk,
		tx:         tx,
	}
}

type CreateChallengeParams struct {
	Name        string
	Description string
	TemplateID  int64
	StartDay    int64
	EndDay      int64
}

// CreateChallenge opens a challenge around one template. The creator is
// seeded as the first participant with a zero-score leaderboard entry and
// gets their own quest instance, all in one transaction: any failure rolls
// the whole creation back.
func (cs *ChallengeService) CreateChallenge(ctx context.Context, creatorID string, params CreateChallengeParams) (int64, error) {
	var challengeID int64

	err := cs.tx.RunSerialized(ctx, func(ctx context.Context) error {
		template, err := cs.templates.GetByID(ctx, params.TemplateID)
		if err != nil {
			return fmt.Errorf("failed to get template: %w", err)
		}
		if template == nil {
			return ErrTemplateNotFound
		}
		if params.EndDay <= params.StartDay {
			return ErrInvalidDateRange
		}
		if params.StartDay < cs.clock.CurrentDay() {
			return ErrStartDayInPast
		}

		challenge := &models.CommunityChallenge{
			CreatorID:   creatorID,
			Name:        params.Name,
			Description: params.Description,
			TemplateID:  params.TemplateID,
			StartDay:    params.StartDay,
			EndDay:      params.EndDay,
			Active:      true,
		}
		if err := cs.challenges.Create(ctx, challenge); err != nil {
			return fmt.Errorf("failed to create challenge: %w", err)
		}

		if err := cs.enroll(ctx, challenge.ID, creatorID, 0); err != nil {
			return err
		}

		if _, err := cs.spawnQuest(ctx, creatorID, template); err != nil {
			return err
		}

		challengeID = challenge.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Challenge created",
		slog.Int64("challenge_id", challengeID),
		slog.String("creator_id", creatorID),
		slog.Int64("template_id", params.TemplateID))
	return challengeID, nil
}

// JoinChallenge adds a user to the roster with a zero-score leaderboard entry
// and spawns their quest instance from the challenge template. Returns the
// new quest's id.
func (cs *ChallengeService) JoinChallenge(ctx context.Context, userID string, challengeID int64) (int64, error) {
	var questID int64

	err := cs.tx.RunSerialized(ctx, func(ctx context.Context) error {
		challenge, err := cs.challenges.GetByID(ctx, challengeID)
		if err != nil {
			return fmt.Errorf("failed to get challenge: %w", err)
		}
		if challenge == nil {
			return ErrChallengeNotFound
		}
		if !challenge.Active || cs.clock.CurrentDay() > challenge.EndDay {
			return ErrChallengeNotActive
		}

		joined, err := cs.challenges.IsParticipant(ctx, challengeID, userID)
		if err != nil {
			return fmt.Errorf("failed to check participation: %w", err)
		}
		if joined {
			return ErrAlreadyJoinedChallenge
		}

		count, err := cs.challenges.CountParticipants(ctx, challengeID)
		if err != nil {
			return fmt.Errorf("failed to count participants: %w", err)
		}
		if count >= MaxChallengeParticipants {
			return ErrCapacityExceeded
		}

		if err := cs.enroll(ctx, challengeID, userID, count); err != nil {
			return err
		}

		template, err := cs.templates.GetByID(ctx, challenge.TemplateID)
		if err != nil {
			return fmt.Errorf("failed to get template: %w", err)
		}
		if template == nil {
			return ErrTemplateNotFound
		}

		id, err := cs.spawnQuest(ctx, userID, template)
		if err != nil {
			return err
		}
		questID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("User joined challenge",
		slog.Int64("challenge_id", challengeID),
		slog.String("user_id", userID),
		slog.Int64("quest_id", questID))
	return questID, nil
}

// enroll adds the participant and their zero-score leaderboard entry at the
// same roster position, keeping the two collections in 1:1 correspondence.
func (cs *ChallengeService) enroll(ctx context.Context, challengeID int64, userID string, position int) error {
	if err := cs.challenges.AddParticipant(ctx, &models.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
		Position:    position,
	}); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	if err := cs.challenges.AddLeaderboardEntry(ctx, &models.LeaderboardEntry{
		ChallengeID: challengeID,
		UserID:      userID,
		Position:    position,
	}); err != nil {
		return fmt.Errorf("failed to add leaderboard entry: %w", err)
	}
	return nil
}

func (cs *ChallengeService) spawnQuest(ctx context.Context, ownerID string, template *models.QuestTemplate) (int64, error) {
	return cs.questSvc.createQuest(ctx, ownerID, CreateQuestParams{
		Name:               template.Name,
		Description:        template.Description,
		Frequency:          template.Frequency,
		CustomIntervalDays: template.CustomIntervalDays,
		Difficulty:         template.Difficulty,
		RewardPoints:       template.RecommendedReward,
		OriginTemplateID:   &template.ID,
	})
}

// Read-only queries.

func (cs *ChallengeService) GetChallenge(ctx context.Context, challengeID int64) (*models.CommunityChallenge, error) {
	return cs.challenges.GetByID(ctx, challengeID)
}

func (cs *ChallengeService) GetLeaderboard(ctx context.Context, challengeID int64) ([]*models.LeaderboardEntry, error) {
	return cs.challenges.GetLeaderboard(ctx, challengeID)
}

func (cs *ChallengeService) IsParticipant(ctx context.Context, challengeID int64, userID string) (bool, error) {
	return cs.challenges.IsParticipant(ctx, challengeID, userID)
}

// GetStanding returns one participant's leaderboard entry. Non-members have
// no standing to report.
func (cs *ChallengeService) GetStanding(ctx context.Context, challengeID int64, userID string) (*models.LeaderboardEntry, error) {
	challenge, err := cs.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	entry, err := cs.challenges.GetLeaderboardEntry(ctx, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard entry: %w", err)
	}
	if entry == nil {
		return nil, ErrNotChallengeMember
	}
	return entry, nil
}
