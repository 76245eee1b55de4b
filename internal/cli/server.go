package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/budd9442/edify.lk-sub000/internal/app"
	"github.com/budd9442/edify.lk-sub000/internal/config"
	"github.com/budd9442/edify.lk-sub000/internal/domain"
	"github.com/budd9442/edify.lk-sub000/internal/infra/memory"
	infrapg "github.com/budd9442/edify.lk-sub000/internal/infra/postgres"
	infraredis "github.com/budd9442/edify.lk-sub000/internal/infra/redis"
	transport "github.com/budd9442/edify.lk-sub000/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the gamification server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = infrapg.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = infraredis.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var attempts app.AttemptRepository = memory.NewAttemptStore()
	var leaderboardRepo app.LeaderboardRepository = memory.NewLeaderboardStore()
	if pool != nil {
		attempts = infrapg.NewAttemptStore(pool)
		leaderboardRepo = infrapg.NewLeaderboardStore(pool)
	}

	var badges app.BadgeRepository = memory.NewBadgeStore()
	var notifier app.Notifier = memory.NewNotifier()
	if redisClient != nil {
		badges = infraredis.NewBadgeStore(redisClient)
		notifier = infraredis.NewNotifier(redisClient)
	}

	leaderboard := app.NewLeaderboardEngine(leaderboardRepo, logger)
	guard := app.NewSubmissionGuard(attempts, leaderboard, logger)
	achievements := app.NewAchievementEngine(badges, notifier, logger)
	service := app.NewGamificationService(quizRepo, attempts, guard, leaderboard, achievements, logger)

	wsHandler := transport.NewWSHandler(service, logger)
	apiHandler := transport.NewAPIHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/api/leaderboard", apiHandler.Leaderboard)
	mux.HandleFunc("/api/badges", apiHandler.Badges)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting gamification service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides minimal demo data for running without Postgres.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"article-1": {
			ID:        "quiz-1",
			ArticleID: "article-1",
			Title:     "Concurrency basics",
			Questions: []domain.Question{
				{
					Prompt:        "Which keyword starts a goroutine?",
					Options:       []string{"run", "go", "spawn", "async"},
					CorrectAnswer: 1,
					Explanation:   "The go statement starts a new goroutine.",
				},
				{
					Prompt:        "What does a nil channel receive do?",
					Options:       []string{"panics", "returns zero", "blocks forever"},
					CorrectAnswer: 2,
				},
			},
		},
	}
}
