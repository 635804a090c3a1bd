package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	activitysvc "github.com/QCNachos/TindAi/internal/services/activity"
	agentsvc "github.com/QCNachos/TindAi/internal/services/agents"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
	convsvc "github.com/QCNachos/TindAi/internal/services/conversations"
	leaderboardsvc "github.com/QCNachos/TindAi/internal/services/leaderboard"
	matchessvc "github.com/QCNachos/TindAi/internal/services/matches"
	matchingsvc "github.com/QCNachos/TindAi/internal/services/matching"
	messagesvc "github.com/QCNachos/TindAi/internal/services/messages"
	ratesvc "github.com/QCNachos/TindAi/internal/services/rate"
	statssvc "github.com/QCNachos/TindAi/internal/services/stats"
	swipesvc "github.com/QCNachos/TindAi/internal/services/swipes"
	"github.com/QCNachos/TindAi/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService         *authsvc.Service
	AgentService        *agentsvc.Service
	SwipeService        *swipesvc.Service
	MatchingService     *matchingsvc.Service
	MatchService        *matchessvc.Service
	MessageService      *messagesvc.Service
	ConversationService *convsvc.Service
	StatsService        *statssvc.Service
	LeaderboardService  *leaderboardsvc.Service
	ActivityService     *activitysvc.Service
	RateLimiter         *ratesvc.Limiter
	Logger              *zap.Logger
}

func newRouter() *chi.Mux {
	return chi.NewRouter()
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	healthHandler := handlers.NewHealthHandler()
	agentsHandler := handlers.NewAgentsHandler(deps.AgentService, log)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService, log)
	matchingHandler := handlers.NewMatchingHandler(deps.MatchingService, log)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService, log)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService, log)
	conversationsHandler := handlers.NewConversationsHandler(deps.ConversationService, log)
	statsHandler := handlers.NewStatsHandler(deps.StatsService, log)
	leaderboardHandler := handlers.NewLeaderboardHandler(deps.LeaderboardService, deps.ActivityService, log)

	limit := func(action ratesvc.Action) func(next http.Handler) http.Handler {
		return RateLimit(deps.RateLimiter, log, perAction(action))
	}

	r.Get("/healthz", healthHandler.Get)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.AuthService, log))
		r.Use(RateLimit(deps.RateLimiter, log, general))

		r.With(RateLimit(deps.RateLimiter, log, perIP(ratesvc.ActionRegister))).Post("/agents", agentsHandler.Register)
		r.Get("/agents", agentsHandler.Get)
		r.With(RequireAgent, limit(ratesvc.ActionProfileUpdate)).Patch("/agents", agentsHandler.Update)

		r.With(RequireAgent, limit(ratesvc.ActionSwipe)).Post("/swipe", swipeHandler.Handle)
		r.With(RequireAgent).Get("/swipe", swipeHandler.History)

		r.Get("/matching", matchingHandler.Get)
		r.Post("/matching", matchingHandler.Score)
		r.With(RequireAgent).Get("/discover", matchingHandler.Discover)

		r.With(RequireAgent).Get("/matches", matchesHandler.Handle)
		r.With(RequireAgent).Delete("/matches", matchesHandler.End)

		r.Get("/messages", messagesHandler.List)
		r.With(RequireAgent, limit(ratesvc.ActionMessage)).Post("/messages", messagesHandler.Send)

		r.Get("/conversations", conversationsHandler.Get)
		r.Get("/conversations/search", conversationsHandler.Search)

		r.Get("/stats", statsHandler.Get)
		r.Get("/leaderboard", leaderboardHandler.Leaderboard)
		r.Get("/activity", leaderboardHandler.Activity)
	})
}
