package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ellavondegurechaff/questline/questline/database"
	"github.com/ellavondegurechaff/questline/questline/database/models"
	"github.com/uptrace/bun"
)

// ChallengeRepository owns community challenges, their participant rosters
// and the per-challenge leaderboard entries. Roster and leaderboard share the
// same capacity bound and stay in 1:1 correspondence.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.CommunityChallenge) error
	GetByID(ctx context.Context, id int64) (*models.CommunityChallenge, error)
	ActiveByTemplate(ctx context.Context, templateID, day int64) ([]*models.CommunityChallenge, error)

	// Participants
	IsParticipant(ctx context.Context, challengeID int64, userID string) (bool, error)
	CountParticipants(ctx context.Context, challengeID int64) (int, error)
	AddParticipant(ctx context.Context, participant *models.ChallengeParticipant) error

	// Leaderboard
	GetLeaderboardEntry(ctx context.Context, challengeID int64, userID string) (*models.LeaderboardEntry, error)
	AddLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error
	UpdateLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error
	GetLeaderboard(ctx context.Context, challengeID int64) ([]*models.LeaderboardEntry, error)
}

type challengeRepository struct {
	db *bun.DB
}

func NewChallengeRepository(db *bun.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) idb(ctx context.Context) bun.IDB {
	return database.IDB(ctx, r.db)
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.CommunityChallenge) error {
	challenge.CreatedAt = time.Now()
	challenge.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewInsert().Model(challenge).Exec(ctx)
	return err
}

func (r *challengeRepository) GetByID(ctx context.Context, id int64) (*models.CommunityChallenge, error) {
	challenge := new(models.CommunityChallenge)
	err := r.idb(ctx).NewSelect().
		Model(challenge).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return challenge, nil
}

func (r *challengeRepository) ActiveByTemplate(ctx context.Context, templateID, day int64) ([]*models.CommunityChallenge, error) {
	var challenges []*models.CommunityChallenge
	err := r.idb(ctx).NewSelect().
		Model(&challenges).
		Where("template_id = ?", templateID).
		Where("active = ?", true).
		Where("end_day >= ?", day).
		Order("id ASC").
		Scan(ctx)

	return challenges, err
}

func (r *challengeRepository) IsParticipant(ctx context.Context, challengeID int64, userID string) (bool, error) {
	return r.idb(ctx).NewSelect().
		Model((*models.ChallengeParticipant)(nil)).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Exists(ctx)
}

func (r *challengeRepository) CountParticipants(ctx context.Context, challengeID int64) (int, error) {
	return r.idb(ctx).NewSelect().
		Model((*models.ChallengeParticipant)(nil)).
		Where("challenge_id = ?", challengeID).
		Count(ctx)
}

func (r *challengeRepository) AddParticipant(ctx context.Context, participant *models.ChallengeParticipant) error {
	participant.CreatedAt = time.Now()
	_, err := r.idb(ctx).NewInsert().Model(participant).Exec(ctx)
	return err
}

func (r *challengeRepository) GetLeaderboardEntry(ctx context.Context, challengeID int64, userID string) (*models.LeaderboardEntry, error) {
	entry := new(models.LeaderboardEntry)
	err := r.idb(ctx).NewSelect().
		Model(entry).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entry, nil
}

func (r *challengeRepository) AddLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewInsert().Model(entry).Exec(ctx)
	return err
}

func (r *challengeRepository) UpdateLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error {
	entry.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewUpdate().
		Model(entry).
		WherePK().
		Exec(ctx)
	return err
}

func (r *challengeRepository) GetLeaderboard(ctx context.Context, challengeID int64) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	err := r.idb(ctx).NewSelect().
		Model(&entries).
		Where("challenge_id = ?", challengeID).
		Order("score DESC", "streak DESC", "position ASC").
		Scan(ctx)

	return entries, err
}
