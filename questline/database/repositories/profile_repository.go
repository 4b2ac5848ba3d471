package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/questline/questline/database"
	"github.com/ellavondegurechaff/questline/questline/database/models"
	"github.com/uptrace/bun"
)

// ProfileRepository holds per-user reputation and streak summaries.
type ProfileRepository interface {
	// GetOrDefault never fails on absence: a missing profile is returned as a
	// zeroed record that has not been persisted yet.
	GetOrDefault(ctx context.Context, userID string) (*models.UserProfile, error)
	// EnsureExists lazily creates the profile row; re-creation is a no-op.
	EnsureExists(ctx context.Context, userID string) error
	Update(ctx context.Context, profile *models.UserProfile) error
	Credit(ctx context.Context, userID string, amount int64) error
	// Debit subtracts amount and reports false when the balance would go
	// negative. It never clamps.
	Debit(ctx context.Context, userID string, amount int64) (bool, error)
}

type profileRepository struct {
	db *bun.DB
}

func NewProfileRepository(db *bun.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) idb(ctx context.Context) bun.IDB {
	return database.IDB(ctx, r.db)
}

func (r *profileRepository) GetOrDefault(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile := new(models.UserProfile)
	err := r.idb(ctx).NewSelect().
		Model(profile).
		Where("user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.UserProfile{UserID: userID}, nil
		}
		return nil, err
	}

	return profile, nil
}

func (r *profileRepository) EnsureExists(ctx context.Context, userID string) error {
	now := time.Now()
	_, err := r.idb(ctx).NewInsert().
		Model(&models.UserProfile{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewUpdate().
		Model(profile).
		WherePK().
		Exec(ctx)
	return err
}

func (r *profileRepository) Credit(ctx context.Context, userID string, amount int64) error {
	_, err := r.idb(ctx).NewUpdate().
		Model((*models.UserProfile)(nil)).
		Set("reputation = reputation + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

func (r *profileRepository) Debit(ctx context.Context, userID string, amount int64) (bool, error) {
	result, err := r.idb(ctx).NewUpdate().
		Model((*models.UserProfile)(nil)).
		Set("reputation = reputation - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND reputation >= ?", userID, amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		slog.Debug("Debit rejected, balance too low",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Int64("amount", amount))
		return false, nil
	}
	return true, nil
}
