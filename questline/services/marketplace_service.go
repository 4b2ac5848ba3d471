package services

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/ellavondegurechaff/questline/questline/database/models"
	"github.com/ellavondegurechaff/questline/questline/database/repositories"
)

const templateCacheSize = 256

// MarketplaceService manages shareable quest templates and reputation-priced
// purchases. A purchase is a conserving transfer: the buyer's debit equals
// the creator's credit.
type MarketplaceService struct {
	templates repositories.TemplateRepository
	profiles  repositories.ProfileRepository
	questSvc  *QuestService
	tx        TxRunner
	cache     *lru.Cache
}

func NewMarketplaceService(
	templates repositories.TemplateRepository,
	profiles repositories.ProfileRepository,
	questSvc *QuestService,
	tx TxRunner,
) *MarketplaceService {
	cache, _ := lru.New(templateCacheSize)
	return &MarketplaceService{
		templates: templates,
		profiles:  profiles,
		questSvc:  questSvc,
		tx:        tx,
		cache:     cache,
	}
}

type CreateTemplateParams struct {
	Name               string
	Description        string
	Frequency          models.Frequency
	CustomIntervalDays *int
	Difficulty         models.Difficulty
	RecommendedReward  int64
	ForSale            bool
	Price              int64
}

// CreateTemplate registers a new template and returns its id.
func (ms *MarketplaceService) CreateTemplate(ctx context.Context, creatorID string, params CreateTemplateParams) (int64, error) {
	if !params.Frequency.Valid() {
		return 0, ErrInvalidFrequency
	}
	if !params.Difficulty.Valid() {
		return 0, ErrInvalidDifficulty
	}

	template := &models.QuestTemplate{
		CreatorID:          creatorID,
		Name:               params.Name,
		Description:        params.Description,
		Frequency:          params.Frequency,
		CustomIntervalDays: params.CustomIntervalDays,
		Difficulty:         params.Difficulty,
		RecommendedReward:  params.RecommendedReward,
		ForSale:            params.ForSale,
		Price:              params.Price,
	}

	err := ms.tx.RunSerialized(ctx, func(ctx context.Context) error {
		if err := ms.profiles.EnsureExists(ctx, creatorID); err != nil {
			return fmt.Errorf("failed to ensure profile: %w", err)
		}
		if err := ms.templates.Create(ctx, template); err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Template created",
		slog.Int64("template_id", template.ID),
		slog.String("creator_id", creatorID),
		slog.Bool("for_sale", params.ForSale))
	return template.ID, nil
}

// PurchaseTemplate transfers the price from buyer to creator, bumps the
// purchase counter and spawns the buyer's quest instance. The monetary
// transfer commits before quest creation: if the spawn fails afterwards the
// payment is neither rolled back nor retried, and the failure is surfaced for
// manual reconciliation.
func (ms *MarketplaceService) PurchaseTemplate(ctx context.Context, buyerID string, templateID int64) (int64, error) {
	var template *models.QuestTemplate

	err := ms.tx.RunSerialized(ctx, func(ctx context.Context) error {
		t, err := ms.templates.GetByID(ctx, templateID)
		if err != nil {
			return fmt.Errorf("failed to get template: %w", err)
		}
		if t == nil {
			return ErrTemplateNotFound
		}
		if !t.ForSale {
			return ErrTemplateNotForSale
		}

		if err := ms.profiles.EnsureExists(ctx, buyerID); err != nil {
			return fmt.Errorf("failed to ensure profile: %w", err)
		}

		ok, err := ms.profiles.Debit(ctx, buyerID, t.Price)
		if err != nil {
			return fmt.Errorf("failed to debit buyer: %w", err)
		}
		if !ok {
			return ErrInsufficientReputation
		}
		if err := ms.profiles.Credit(ctx, t.CreatorID, t.Price); err != nil {
			return fmt.Errorf("failed to credit creator: %w", err)
		}

		if err := ms.templates.IncrementPurchaseCount(ctx, t.ID); err != nil {
			return fmt.Errorf("failed to increment purchase count: %w", err)
		}

		template = t
		return nil
	})
	if err != nil {
		return 0, err
	}

	ms.cache.Remove(templateID)

	questID, err := ms.questSvc.CreateQuest(ctx, buyerID, CreateQuestParams{
		Name:               template.Name,
		Description:        template.Description,
		Frequency:          template.Frequency,
		CustomIntervalDays: template.CustomIntervalDays,
		Difficulty:         template.Difficulty,
		RewardPoints:       template.RecommendedReward,
		OriginTemplateID:   &template.ID,
	})
	if err != nil {
		// Payment already committed. The reconciliation gap is deliberate:
		// refund-vs-retry semantics are undecided, so the operator handles it.
		slog.Error("Quest creation failed after committed payment, manual reconciliation required",
			slog.Int64("template_id", templateID),
			slog.String("buyer_id", buyerID),
			slog.Int64("price", template.Price),
			slog.Any("error", err))
		return 0, fmt.Errorf("payment committed but quest creation failed: %w", err)
	}

	slog.Info("Template purchased",
		slog.Int64("template_id", templateID),
		slog.String("buyer_id", buyerID),
		slog.Int64("quest_id", questID))
	return questID, nil
}

// GetTemplate reads through a small LRU cache; entries are evicted when a
// purchase changes the counter.
func (ms *MarketplaceService) GetTemplate(ctx context.Context, templateID int64) (*models.QuestTemplate, error) {
	if cached, ok := ms.cache.Get(templateID); ok {
		return cached.(*models.QuestTemplate), nil
	}

	template, err := ms.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template != nil {
		ms.cache.Add(templateID, template)
	}
	return template, nil
}

func (ms *MarketplaceService) ListTemplatesForSale(ctx context.Context) ([]*models.QuestTemplate, error) {
	return ms.templates.ListForSale(ctx)
}

// templateSearchItems implements fuzzy.Source for template name matching.
type templateSearchItems []*models.QuestTemplate

func (items templateSearchItems) Len() int {
	return len(items)
}

func (items templateSearchItems) String(i int) string {
	return items[i].Name
}

// SearchTemplates returns templates whose names fuzzy-match the query,
// best matches first. An empty query returns everything.
func (ms *MarketplaceService) SearchTemplates(ctx context.Context, query string) ([]*models.QuestTemplate, error) {
	templates, err := ms.templates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return templates, nil
	}

	matches := fuzzy.FindFrom(query, templateSearchItems(templates))
	results := make([]*models.QuestTemplate, 0, len(matches))
	for _, m := range matches {
		results = append(results, templates[m.Index])
	}
	return results, nil
}
