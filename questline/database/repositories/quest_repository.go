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

// QuestRepository owns quest definitions together with their completion
// records and per-user streaks. Lookups return (nil, nil) when the row does
// not exist; the service layer decides whether absence is an error.
type QuestRepository interface {
	Create(ctx context.Context, quest *models.Quest) error
	GetByID(ctx context.Context, id int64) (*models.Quest, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Quest, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Update(ctx context.Context, quest *models.Quest) error

	// Completions
	HasCompletion(ctx context.Context, questID, day int64) (bool, error)
	CreateCompletion(ctx context.Context, completion *models.QuestCompletion) error

	// Streaks
	GetStreak(ctx context.Context, questID int64, userID string) (*models.QuestStreak, error)
	UpsertStreak(ctx context.Context, streak *models.QuestStreak) error
}

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) idb(ctx context.Context) bun.IDB {
	return database.IDB(ctx, r.db)
}

func (r *questRepository) Create(ctx context.Context, quest *models.Quest) error {
	quest.CreatedAt = time.Now()
	quest.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewInsert().Model(quest).Exec(ctx)
	return err
}

func (r *questRepository) GetByID(ctx context.Context, id int64) (*models.Quest, error) {
	quest := new(models.Quest)
	err := r.idb(ctx).NewSelect().
		Model(quest).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return quest, nil
}

func (r *questRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.idb(ctx).NewSelect().
		Model(&quests).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return r.idb(ctx).NewSelect().
		Model((*models.Quest)(nil)).
		Where("owner_id = ?", ownerID).
		Count(ctx)
}

func (r *questRepository) Update(ctx context.Context, quest *models.Quest) error {
	quest.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewUpdate().
		Model(quest).
		WherePK().
		Exec(ctx)
	return err
}

func (r *questRepository) HasCompletion(ctx context.Context, questID, day int64) (bool, error) {
	return r.idb(ctx).NewSelect().
		Model((*models.QuestCompletion)(nil)).
		Where("quest_id = ? AND day = ?", questID, day).
		Exists(ctx)
}

func (r *questRepository) CreateCompletion(ctx context.Context, completion *models.QuestCompletion) error {
	completion.CreatedAt = time.Now()
	_, err := r.idb(ctx).NewInsert().Model(completion).Exec(ctx)
	return err
}

func (r *questRepository) GetStreak(ctx context.Context, questID int64, userID string) (*models.QuestStreak, error) {
	streak := new(models.QuestStreak)
	err := r.idb(ctx).NewSelect().
		Model(streak).
		Where("quest_id = ? AND user_id = ?", questID, userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return streak, nil
}

func (r *questRepository) UpsertStreak(ctx context.Context, streak *models.QuestStreak) error {
	streak.UpdatedAt = time.Now()
	if streak.CreatedAt.IsZero() {
		streak.CreatedAt = streak.UpdatedAt
	}

	_, err := r.idb(ctx).NewInsert().
		Model(streak).
		On("CONFLICT (quest_id, user_id) DO UPDATE").
		Set("current_streak = EXCLUDED.current_streak").
		Set("longest_streak = EXCLUDED.longest_streak").
		Set("last_completion_day = EXCLUDED.last_completion_day").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	return err
}
