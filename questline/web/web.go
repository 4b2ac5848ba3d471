package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/questline/questline/database/models"
	"github.com/ellavondegurechaff/questline/questline/services"
)

// headerUserID carries the acting principal. Identity is established by the
// host in front of this service; the engine trusts it as-is.
const headerUserID = "X-User-ID"

// Server exposes the tracker's public operation surface over HTTP.
type Server struct {
	app         *fiber.App
	quests      *services.QuestService
	marketplace *services.MarketplaceService
	challenges  *services.ChallengeService
}

func New(
	quests *services.QuestService,
	marketplace *services.MarketplaceService,
	challenges *services.ChallengeService,
) *Server {
	s := &Server{
		app:         fiber.New(fiber.Config{AppName: "questline"}),
		quests:      quests,
		marketplace: marketplace,
		challenges:  challenges,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Use(LoggingMiddleware())

	api := s.app.Group("/api/v1")

	api.Post("/quests", s.createQuest)
	api.Get("/quests/:id", s.getQuest)
	api.Post("/quests/:id/complete", s.completeQuest)
	api.Post("/quests/:id/toggle", s.toggleQuest)
	api.Get("/quests/:id/streak", s.getQuestStreak)
	api.Get("/quests/:id/completed/:day", s.isQuestCompleted)

	api.Get("/users/:id/profile", s.getUserProfile)
	api.Get("/users/:id/quests", s.getUserQuests)

	api.Post("/templates", s.createTemplate)
	api.Get("/templates", s.listTemplates)
	api.Get("/templates/:id", s.getTemplate)
	api.Post("/templates/:id/purchase", s.purchaseTemplate)

	api.Post("/challenges", s.createChallenge)
	api.Get("/challenges/:id", s.getChallenge)
	api.Post("/challenges/:id/join", s.joinChallenge)
	api.Get("/challenges/:id/leaderboard", s.getLeaderboard)
	api.Get("/challenges/:id/participants/:user", s.isParticipant)
	api.Get("/challenges/:id/standings/:user", s.getStanding)
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func caller(c *fiber.Ctx) (string, error) {
	id := c.Get(headerUserID)
	if id == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing "+headerUserID+" header")
	}
	return id, nil
}

type questRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Frequency          string `json:"frequency"`
	CustomIntervalDays *int   `json:"custom_interval_days"`
	Difficulty         string `json:"difficulty"`
	RewardPoints       int64  `json:"reward_points"`
}

func (s *Server) createQuest(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}

	var req questRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	questID, err := s.quests.CreateQuest(c.UserContext(), callerID, services.CreateQuestParams{
		Name:               req.Name,
		Description:        req.Description,
		Frequency:          models.Frequency(req.Frequency),
		CustomIntervalDays: req.CustomIntervalDays,
		Difficulty:         models.Difficulty(req.Difficulty),
		RewardPoints:       req.RewardPoints,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"quest_id": questID})
}

func (s *Server) getQuest(c *fiber.Ctx) error {
	questID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quest id")
	}

	quest, err := s.quests.GetQuest(c.UserContext(), int64(questID))
	if err != nil {
		return fail(c, err)
	}
	if quest == nil {
		return fail(c, services.ErrQuestNotFound)
	}
	return c.JSON(quest)
}

func (s *Server) completeQuest(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}
	questID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quest id")
	}

	if err := s.quests.CompleteQuest(c.UserContext(), callerID, int64(questID)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) toggleQuest(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}
	questID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quest id")
	}

	active, err := s.quests.ToggleActive(c.UserContext(), callerID, int64(questID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"active": active})
}

func (s *Server) getQuestStreak(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}
	questID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quest id")
	}

	streak, err := s.quests.GetQuestStreak(c.UserContext(), int64(questID), callerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(streak)
}

func (s *Server) isQuestCompleted(c *fiber.Ctx) error {
	questID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quest id")
	}
	day, err := c.ParamsInt("day")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid day")
	}

	done, err := s.quests.IsQuestCompleted(c.UserContext(), int64(questID), int64(day))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"completed": done})
}

func (s *Server) getUserProfile(c *fiber.Ctx) error {
	profile, err := s.quests.GetUserProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (s *Server) getUserQuests(c *fiber.Ctx) error {
	quests, err := s.quests.GetUserQuests(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(quests)
}

type templateRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Frequency          string `json:"frequency"`
	CustomIntervalDays *int   `json:"custom_interval_days"`
	Difficulty         string `json:"difficulty"`
	RecommendedReward  int64  `json:"recommended_reward"`
	ForSale            bool   `json:"for_sale"`
	Price              int64  `json:"price"`
}

func (s *Server) createTemplate(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	templateID, err := s.marketplace.CreateTemplate(c.UserContext(), callerID, services.CreateTemplateParams{
		Name:               req.Name,
		Description:        req.Description,
		Frequency:          models.Frequency(req.Frequency),
		CustomIntervalDays: req.CustomIntervalDays,
		Difficulty:         models.Difficulty(req.Difficulty),
		RecommendedReward:  req.RecommendedReward,
		ForSale:            req.ForSale,
		Price:              req.Price,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template_id": templateID})
}

func (s *Server) listTemplates(c *fiber.Ctx) error {
	if query := c.Query("q"); query != "" {
		templates, err := s.marketplace.SearchTemplates(c.UserContext(), query)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(templates)
	}

	templates, err := s.marketplace.ListTemplatesForSale(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(templates)
}

func (s *Server) getTemplate(c *fiber.Ctx) error {
	templateID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid template id")
	}

	template, err := s.marketplace.GetTemplate(c.UserContext(), int64(templateID))
	if err != nil {
		return fail(c, err)
	}
	if template == nil {
		return fail(c, services.ErrTemplateNotFound)
	}
	return c.JSON(template)
}

func (s *Server) purchaseTemplate(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}
	templateID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid template id")
	}

	questID, err := s.marketplace.PurchaseTemplate(c.UserContext(), callerID, int64(templateID))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"quest_id": questID})
}

type challengeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TemplateID  int64  `json:"template_id"`
	StartDay    int64  `json:"start_day"`
	EndDay      int64  `json:"end_day"`
}

func (s *Server) createChallenge(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}

	var req challengeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	challengeID, err := s.challenges.CreateChallenge(c.UserContext(), callerID, services.CreateChallengeParams{
		Name:        req.Name,
		Description: req.Description,
		TemplateID:  req.TemplateID,
		StartDay:    req.StartDay,
		EndDay:      req.EndDay,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"challenge_id": challengeID})
}

func (s *Server) getChallenge(c *fiber.Ctx) error {
	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid challenge id")
	}

	challenge, err := s.challenges.GetChallenge(c.UserContext(), int64(challengeID))
	if err != nil {
		return fail(c, err)
	}
	if challenge == nil {
		return fail(c, services.ErrChallengeNotFound)
	}
	return c.JSON(challenge)
}

func (s *Server) joinChallenge(c *fiber.Ctx) error {
	callerID, err := caller(c)
	if err != nil {
		return err
	}
	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid challenge id")
	}

	questID, err := s.challenges.JoinChallenge(c.UserContext(), callerID, int64(challengeID))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"quest_id": questID})
}

func (s *Server) getLeaderboard(c *fiber.Ctx) error {
	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid challenge id")
	}

	entries, err := s.challenges.GetLeaderboard(c.UserContext(), int64(challengeID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entries)
}

func (s *Server) isParticipant(c *fiber.Ctx) error {
	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid challenge id")
	}

	joined, err := s.challenges.IsParticipant(c.UserContext(), int64(challengeID), c.Params("user"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"participant": joined})
}

func (s *Server) getStanding(c *fiber.Ctx) error {
	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid challenge id")
	}

	entry, err := s.challenges.GetStanding(c.UserContext(), int64(challengeID), c.Params("user"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entry)
}
