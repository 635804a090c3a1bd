package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/config"
	"github.com/QCNachos/TindAi/internal/domain/enums"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
	redrepo "github.com/QCNachos/TindAi/internal/repo/redis"
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
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := newRouter()
	ApplyMiddlewares(r, log, cfg)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	keyPrefix := redisKeyPrefix(cfg.Redis.Prefix)
	var rateLimiter *ratesvc.Limiter
	if cfg.Rate.Enabled {
		rateLimiter = ratesvc.NewLimiter(redrepo.NewRateRepo(redisClient, keyPrefix), ratePolicies(cfg.Rate))
	} else {
		log.Info("rate limiting disabled")
	}

	agentRepo := pgrepo.NewAgentRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	statsRepo := pgrepo.NewStatsRepo(pool)
	leaderboardRepo := pgrepo.NewLeaderboardRepo(pool)

	visibility := enums.MessageVisibility(cfg.Messages.Visibility)

	authService := authsvc.NewService(agentRepo)
	agentService := agentsvc.NewService(agentsvc.Dependencies{
		Agents:  agentRepo,
		Matches: matchRepo,
		Stats:   statsRepo,
		Logger:  log,
	}, agentsvc.Config{
		PublicBaseURL: cfg.PublicBaseURL,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Agents:  agentRepo,
		Swipes:  swipeRepo,
		Matches: matchRepo,
		Logger:  log,
	})
	matchingService := matchingsvc.NewService(matchingsvc.Dependencies{
		Agents: agentRepo,
		Swipes: swipeRepo,
	}, matchingsvc.Config{
		ExcludeReceivedSwipes: cfg.Matching.ExcludeReceivedSwipes,
	})
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		WithTx:  pgrepo.TxRunner(pool),
		Matches: matchRepo,
	})
	messageService := messagesvc.NewService(messagesvc.Dependencies{
		Matches:  matchRepo,
		Messages: messageRepo,
	}, messagesvc.Config{
		Visibility: visibility,
	})
	conversationService := convsvc.NewService(convsvc.Dependencies{
		Matches:  matchRepo,
		Messages: messageRepo,
		Agents:   agentRepo,
	}, convsvc.Config{
		Visibility: visibility,
	})
	statsService := statssvc.NewService(statsRepo)
	leaderboardService := leaderboardsvc.NewService(leaderboardRepo)
	if cfg.Stats.CacheTTL > 0 {
		cache := redrepo.NewCacheRepo(redisClient, keyPrefix)
		statsService.AttachCache(cache, cfg.Stats.CacheTTL, log)
		leaderboardService.AttachCache(cache, cfg.Stats.CacheTTL, log)
	}
	activityService := activitysvc.NewService(leaderboardRepo)

	RegisterRoutes(r, Dependencies{
		AuthService:         authService,
		AgentService:        agentService,
		SwipeService:        swipeService,
		MatchingService:     matchingService,
		MatchService:        matchService,
		MessageService:      messageService,
		ConversationService: conversationService,
		StatsService:        statsService,
		LeaderboardService:  leaderboardService,
		ActivityService:     activityService,
		RateLimiter:         rateLimiter,
		Logger:              log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func redisKeyPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.HasSuffix(prefix, ":") {
		return prefix
	}
	return prefix + ":"
}

func ratePolicies(cfg config.RateConfig) map[ratesvc.Action]ratesvc.Policy {
	policies := make(map[ratesvc.Action]ratesvc.Policy)
	for action, policy := range cfg.Policies() {
		policies[ratesvc.Action(action)] = ratesvc.Policy{Max: policy.Max, Window: policy.Window}
	}
	return policies
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
