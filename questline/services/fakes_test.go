package services

import (
	"context"
	"sort"

	"github.com/ellavondegurechaff/questline/questline/database/models"
)

// In-memory repository fakes backing the service tests. They mimic the SQL
// layer's contracts: lookups return (nil, nil) on absence, Debit guards the
// balance, upserts key on the same unique pairs as the real indexes.

type fakeTxRunner struct{}

func (fakeTxRunner) RunSerialized(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeQuestRepo struct {
	nextID      int64
	quests      map[int64]*models.Quest
	completions map[[2]int64]*models.QuestCompletion // (questID, day)
	streaks     map[int64]map[string]*models.QuestStreak
}

func newFakeQuestRepo() *fakeQuestRepo {
	return &fakeQuestRepo{
		quests:      make(map[int64]*models.Quest),
		completions: make(map[[2]int64]*models.QuestCompletion),
		streaks:     make(map[int64]map[string]*models.QuestStreak),
	}
}

func (r *fakeQuestRepo) Create(_ context.Context, quest *models.Quest) error {
	r.nextID++
	quest.ID = r.nextID
	cp := *quest
	r.quests[quest.ID] = &cp
	return nil
}

func (r *fakeQuestRepo) GetByID(_ context.Context, id int64) (*models.Quest, error) {
	quest, ok := r.quests[id]
	if !ok {
		return nil, nil
	}
	cp := *quest
	return &cp, nil
}

func (r *fakeQuestRepo) GetByOwner(_ context.Context, ownerID string) ([]*models.Quest, error) {
	var out []*models.Quest
	for _, q := range r.quests {
		if q.OwnerID == ownerID {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuestRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	count := 0
	for _, q := range r.quests {
		if q.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeQuestRepo) Update(_ context.Context, quest *models.Quest) error {
	cp := *quest
	r.quests[quest.ID] = &cp
	return nil
}

func (r *fakeQuestRepo) HasCompletion(_ context.Context, questID, day int64) (bool, error) {
	_, ok := r.completions[[2]int64{questID, day}]
	return ok, nil
}

func (r *fakeQuestRepo) CreateCompletion(_ context.Context, completion *models.QuestCompletion) error {
	cp := *completion
	r.completions[[2]int64{completion.QuestID, completion.Day}] = &cp
	return nil
}

func (r *fakeQuestRepo) GetStreak(_ context.Context, questID int64, userID string) (*models.QuestStreak, error) {
	byUser, ok := r.streaks[questID]
	if !ok {
		return nil, nil
	}
	streak, ok := byUser[userID]
	if !ok {
		return nil, nil
	}
	cp := *streak
	return &cp, nil
}

func (r *fakeQuestRepo) UpsertStreak(_ context.Context, streak *models.QuestStreak) error {
	byUser, ok := r.streaks[streak.QuestID]
	if !ok {
		byUser = make(map[string]*models.QuestStreak)
		r.streaks[streak.QuestID] = byUser
	}
	cp := *streak
	byUser[streak.UserID] = &cp
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.UserProfile)}
}

func (r *fakeProfileRepo) GetOrDefault(_ context.Context, userID string) (*models.UserProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return &models.UserProfile{UserID: userID}, nil
	}
	cp := *profile
	return &cp, nil
}

func (r *fakeProfileRepo) EnsureExists(_ context.Context, userID string) error {
	if _, ok := r.profiles[userID]; !ok {
		r.profiles[userID] = &models.UserProfile{UserID: userID}
	}
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *models.UserProfile) error {
	cp := *profile
	r.profiles[profile.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) Credit(_ context.Context, userID string, amount int64) error {
	if profile, ok := r.profiles[userID]; ok {
		profile.Reputation += amount
	}
	return nil
}

func (r *fakeProfileRepo) Debit(_ context.Context, userID string, amount int64) (bool, error) {
	profile, ok := r.profiles[userID]
	if !ok || profile.Reputation < amount {
		return false, nil
	}
	profile.Reputation -= amount
	return true, nil
}

func (r *fakeProfileRepo) setReputation(userID string, amount int64) {
	r.profiles[userID] = &models.UserProfile{UserID: userID, Reputation: amount}
}

type fakeTemplateRepo struct {
	nextID    int64
	templates map[int64]*models.QuestTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[int64]*models.QuestTemplate)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *models.QuestTemplate) error {
	r.nextID++
	template.ID = r.nextID
	cp := *template
	r.templates[template.ID] = &cp
	return nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id int64) (*models.QuestTemplate, error) {
	template, ok := r.templates[id]
	if !ok {
		return nil, nil
	}
	cp := *template
	return &cp, nil
}

func (r *fakeTemplateRepo) ListForSale(_ context.Context) ([]*models.QuestTemplate, error) {
	var out []*models.QuestTemplate
	for _, t := range r.templates {
		if t.ForSale {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PurchaseCount != out[j].PurchaseCount {
			return out[i].PurchaseCount > out[j].PurchaseCount
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTemplateRepo) ListAll(_ context.Context) ([]*models.QuestTemplate, error) {
	var out []*models.QuestTemplate
	for _, t := range r.templates {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTemplateRepo) IncrementPurchaseCount(_ context.Context, id int64) error {
	if t, ok := r.templates[id]; ok {
		t.PurchaseCount++
	}
	return nil
}

type fakeChallengeRepo struct {
	nextID       int64
	challenges   map[int64]*models.CommunityChallenge
	participants map[int64]map[string]*models.ChallengeParticipant
	leaderboards map[int64]map[string]*models.LeaderboardEntry
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{
		challenges:   make(map[int64]*models.CommunityChallenge),
		participants: make(map[int64]map[string]*models.ChallengeParticipant),
		leaderboards: make(map[int64]map[string]*models.LeaderboardEntry),
	}
}

func (r *fakeChallengeRepo) Create(_ context.Context, challenge *models.CommunityChallenge) error {
	r.nextID++
	challenge.ID = r.nextID
	cp := *challenge
	r.challenges[challenge.ID] = &cp
	return nil
}

func (r *fakeChallengeRepo) GetByID(_ context.Context, id int64) (*models.CommunityChallenge, error) {
	challenge, ok := r.challenges[id]
	if !ok {
		return nil, nil
	}
	cp := *challenge
	return &cp, nil
}

func (r *fakeChallengeRepo) ActiveByTemplate(_ context.Context, templateID, day int64) ([]*models.CommunityChallenge, error) {
	var out []*models.CommunityChallenge
	for _, c := range r.challenges {
		if c.TemplateID == templateID && c.Active && c.EndDay >= day {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeChallengeRepo) IsParticipant(_ context.Context, challengeID int64, userID string) (bool, error) {
	_, ok := r.participants[challengeID][userID]
	return ok, nil
}

func (r *fakeChallengeRepo) CountParticipants(_ context.Context, challengeID int64) (int, error) {
	return len(r.participants[challengeID]), nil
}

func (r *fakeChallengeRepo) AddParticipant(_ context.Context, participant *models.ChallengeParticipant) error {
	byUser, ok := r.participants[participant.ChallengeID]
	if !ok {
		byUser = make(map[string]*models.ChallengeParticipant)
		r.participants[participant.ChallengeID] = byUser
	}
	cp := *participant
	byUser[participant.UserID] = &cp
	return nil
}

func (r *fakeChallengeRepo) GetLeaderboardEntry(_ context.Context, challengeID int64, userID string) (*models.LeaderboardEntry, error) {
	entry, ok := r.leaderboards[challengeID][userID]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (r *fakeChallengeRepo) AddLeaderboardEntry(_ context.Context, entry *models.LeaderboardEntry) error {
	byUser, ok := r.leaderboards[entry.ChallengeID]
	if !ok {
		byUser = make(map[string]*models.LeaderboardEntry)
		r.leaderboards[entry.ChallengeID] = byUser
	}
	cp := *entry
	byUser[entry.UserID] = &cp
	return nil
}

func (r *fakeChallengeRepo) UpdateLeaderboardEntry(_ context.Context, entry *models.LeaderboardEntry) error {
	if byUser, ok := r.leaderboards[entry.ChallengeID]; ok {
		cp := *entry
		byUser[entry.UserID] = &cp
	}
	return nil
}

func (r *fakeChallengeRepo) GetLeaderboard(_ context.Context, challengeID int64) ([]*models.LeaderboardEntry, error) {
	var out []*models.LeaderboardEntry
	for _, e := range r.leaderboards[challengeID] {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Streak != out[j].Streak {
			return out[i].Streak > out[j].Streak
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}
