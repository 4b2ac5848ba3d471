package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ellavondegurechaff/questline/questline/clock"
	"github.com/ellavondegurechaff/questline/questline/database/models"
)

type marketFixture struct {
	svc       *MarketplaceService
	templates *fakeTemplateRepo
	profiles  *fakeProfileRepo
	quests    *fakeQuestRepo
}

func newMarketFixture(day int64) *marketFixture {
	f := &marketFixture{
		templates: newFakeTemplateRepo(),
		profiles:  newFakeProfileRepo(),
		quests:    newFakeQuestRepo(),
	}
	questSvc := NewQuestService(f.quests, f.profiles, newFakeChallengeRepo(), clock.Fixed{Day: day}, fakeTxRunner{})
	f.svc = NewMarketplaceService(f.templates, f.profiles, questSvc, fakeTxRunner{})
	return f
}

func sellableTemplate() CreateTemplateParams {
	return CreateTemplateParams{
		Name:              "Read 20 pages",
		Frequency:         models.FrequencyDaily,
		Difficulty:        models.DifficultyEasy,
		RecommendedReward: 10,
		ForSale:           true,
		Price:             50,
	}
}

func Test_MarketplaceService_CreateTemplate(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateTemplateParams
		wantErr error
	}{
		{
			name:   "Success",
			params: sellableTemplate(),
		},
		{
			name: "InvalidFrequency",
			params: CreateTemplateParams{
				Name:       "Bad",
				Frequency:  "fortnightly",
				Difficulty: models.DifficultyEasy,
			},
			wantErr: ErrInvalidFrequency,
		},
		{
			name: "InvalidDifficulty",
			params: CreateTemplateParams{
				Name:       "Bad",
				Frequency:  models.FrequencyDaily,
				Difficulty: "impossible",
			},
			wantErr: ErrInvalidDifficulty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMarketFixture(100)
			id, err := f.svc.CreateTemplate(context.Background(), "creator", tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			template, _ := f.templates.GetByID(context.Background(), id)
			if template == nil {
				t.Fatalf("template not persisted")
			}
			if template.CreatorID != "creator" {
				t.Errorf("CreatorID = %q, want creator", template.CreatorID)
			}
			if template.PurchaseCount != 0 {
				t.Errorf("PurchaseCount = %d, want 0", template.PurchaseCount)
			}
		})
	}
}

func Test_MarketplaceService_PurchaseTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newMarketFixture(100)
		templateID, err := f.svc.CreateTemplate(ctx, "creator", sellableTemplate())
		if err != nil {
			t.Fatalf("CreateTemplate() error = %v", err)
		}
		f.profiles.setReputation("buyer", 60)

		questID, err := f.svc.PurchaseTemplate(ctx, "buyer", templateID)
		if err != nil {
			t.Fatalf("PurchaseTemplate() error = %v", err)
		}

		buyer, _ := f.profiles.GetOrDefault(ctx, "buyer")
		if buyer.Reputation != 10 {
			t.Errorf("buyer reputation = %d, want 10", buyer.Reputation)
		}
		creator, _ := f.profiles.GetOrDefault(ctx, "creator")
		if creator.Reputation != 50 {
			t.Errorf("creator reputation = %d, want 50", creator.Reputation)
		}

		template, _ := f.templates.GetByID(ctx, templateID)
		if template.PurchaseCount != 1 {
			t.Errorf("PurchaseCount = %d, want 1", template.PurchaseCount)
		}

		quest, _ := f.quests.GetByID(ctx, questID)
		if quest == nil {
			t.Fatalf("purchased quest not spawned")
		}
		if quest.OwnerID != "buyer" {
			t.Errorf("quest owner = %q, want buyer", quest.OwnerID)
		}
		if quest.OriginTemplateID == nil || *quest.OriginTemplateID != templateID {
			t.Errorf("OriginTemplateID = %v, want %d", quest.OriginTemplateID, templateID)
		}
		if quest.Name != "Read 20 pages" {
			t.Errorf("quest name = %q, want template name", quest.Name)
		}
	})

	t.Run("InsufficientReputation", func(t *testing.T) {
		f := newMarketFixture(100)
		templateID, _ := f.svc.CreateTemplate(ctx, "creator", sellableTemplate())
		f.profiles.setReputation("buyer", 30)

		if _, err := f.svc.PurchaseTemplate(ctx, "buyer", templateID); !errors.Is(err, ErrInsufficientReputation) {
			t.Fatalf("PurchaseTemplate() error = %v, want ErrInsufficientReputation", err)
		}

		// A rejected purchase moves no reputation and spawns nothing.
		buyer, _ := f.profiles.GetOrDefault(ctx, "buyer")
		if buyer.Reputation != 30 {
			t.Errorf("buyer reputation = %d, want 30", buyer.Reputation)
		}
		quests, _ := f.quests.GetByOwner(ctx, "buyer")
		if len(quests) != 0 {
			t.Errorf("buyer quests = %d, want 0", len(quests))
		}
	})

	t.Run("NotForSale", func(t *testing.T) {
		f := newMarketFixture(100)
		params := sellableTemplate()
		params.ForSale = false
		templateID, _ := f.svc.CreateTemplate(ctx, "creator", params)
		f.profiles.setReputation("buyer", 100)

		if _, err := f.svc.PurchaseTemplate(ctx, "buyer", templateID); !errors.Is(err, ErrTemplateNotForSale) {
			t.Errorf("PurchaseTemplate() error = %v, want ErrTemplateNotForSale", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newMarketFixture(100)
		if _, err := f.svc.PurchaseTemplate(ctx, "buyer", 77); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("PurchaseTemplate() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("ConservesReputation", func(t *testing.T) {
		f := newMarketFixture(100)
		templateID, _ := f.svc.CreateTemplate(ctx, "creator", sellableTemplate())
		f.profiles.setReputation("buyer", 200)

		if _, err := f.svc.PurchaseTemplate(ctx, "buyer", templateID); err != nil {
			t.Fatalf("PurchaseTemplate() error = %v", err)
		}

		var total int64
		for _, p := range f.profiles.profiles {
			total += p.Reputation
		}
		if total != 200 {
			t.Errorf("total reputation = %d, want 200", total)
		}
	})
}

func Test_MarketplaceService_GetTemplate_Cached(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(100)
	templateID, _ := f.svc.CreateTemplate(ctx, "creator", sellableTemplate())

	first, err := f.svc.GetTemplate(ctx, templateID)
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if first == nil {
		t.Fatalf("GetTemplate() = nil")
	}

	// Second read is served from the cache even if the store loses the row.
	delete(f.templates.templates, templateID)
	second, err := f.svc.GetTemplate(ctx, templateID)
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if second == nil || second.ID != templateID {
		t.Errorf("GetTemplate() cached read = %v, want template %d", second, templateID)
	}
}

func Test_MarketplaceService_SearchTemplates(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(100)

	for _, name := range []string{"Morning run", "Evening meditation", "Morning pages"} {
		params := sellableTemplate()
		params.Name = name
		if _, err := f.svc.CreateTemplate(ctx, "creator", params); err != nil {
			t.Fatalf("CreateTemplate(%q) error = %v", name, err)
		}
	}

	results, err := f.svc.SearchTemplates(ctx, "morn")
	if err != nil {
		t.Fatalf("SearchTemplates() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("SearchTemplates(morn) = %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Name != "Morning run" && r.Name != "Morning pages" {
			t.Errorf("unexpected match %q", r.Name)
		}
	}

	all, err := f.svc.SearchTemplates(ctx, "")
	if err != nil {
		t.Fatalf("SearchTemplates() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("SearchTemplates(empty) = %d results, want 3", len(all))
	}
}
