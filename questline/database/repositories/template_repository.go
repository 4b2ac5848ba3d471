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

// TemplateRepository owns quest templates. Templates are immutable after
// creation except for the purchase counter.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.QuestTemplate) error
	GetByID(ctx context.Context, id int64) (*models.QuestTemplate, error)
	ListForSale(ctx context.Context) ([]*models.QuestTemplate, error)
	ListAll(ctx context.Context) ([]*models.QuestTemplate, error)
	IncrementPurchaseCount(ctx context.Context, id int64) error
}

type templateRepository struct {
	db *bun.DB
}

func NewTemplateRepository(db *bun.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) idb(ctx context.Context) bun.IDB {
	return database.IDB(ctx, r.db)
}

func (r *templateRepository) Create(ctx context.Context, template *models.QuestTemplate) error {
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()
	_, err := r.idb(ctx).NewInsert().Model(template).Exec(ctx)
	return err
}

func (r *templateRepository) GetByID(ctx context.Context, id int64) (*models.QuestTemplate, error) {
	template := new(models.QuestTemplate)
	err := r.idb(ctx).NewSelect().
		Model(template).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return template, nil
}

func (r *templateRepository) ListForSale(ctx context.Context) ([]*models.QuestTemplate, error) {
	var templates []*models.QuestTemplate
	err := r.idb(ctx).NewSelect().
		Model(&templates).
		Where("for_sale = ?", true).
		Order("purchase_count DESC", "id ASC").
		Scan(ctx)

	return templates, err
}

func (r *templateRepository) ListAll(ctx context.Context) ([]*models.QuestTemplate, error) {
	var templates []*models.QuestTemplate
	err := r.idb(ctx).NewSelect().
		Model(&templates).
		Order("id ASC").
		Scan(ctx)

	return templates, err
}

func (r *templateRepository) IncrementPurchaseCount(ctx context.Context, id int64) error {
	_, err := r.idb(ctx).NewUpdate().
		Model((*models.QuestTemplate)(nil)).
		Set("purchase_count = purchase_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
