package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/budd9442/edify.lk-sub000/internal/app"
	"github.com/budd9442/edify.lk-sub000/internal/domain"
	"github.com/budd9442/edify.lk-sub000/internal/infra/memory"
	infrapg "github.com/budd9442/edify.lk-sub000/internal/infra/postgres"
	pgmigrations "github.com/budd9442/edify.lk-sub000/internal/infra/postgres/migrations"
	infraredis "github.com/budd9442/edify.lk-sub000/internal/infra/redis"
)

func TestQuizSubmissionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuiz(t, ctx, pgURL, sampleQuiz())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	quizRepo := infraredis.NewQuizRepository(redisClient, infrapg.NewQuizLoader(pool), 5*time.Minute)
	attempts := infrapg.NewAttemptStore(pool)
	leaderboard := app.NewLeaderboardEngine(infrapg.NewLeaderboardStore(pool), nil)
	guard := app.NewSubmissionGuard(attempts, leaderboard, nil)
	achievements := app.NewAchievementEngine(infraredis.NewBadgeStore(redisClient), infraredis.NewNotifier(redisClient), nil)
	service := app.NewGamificationService(quizRepo, attempts, guard, leaderboard, achievements, nil)

	alice := submitPerfectRun(t, ctx, service, "alice")
	if alice.Rank != 1 {
		t.Fatalf("expected alice at rank 1, got %d", alice.Rank)
	}
	if !contains(alice.NewBadges, domain.BadgeTopTen) || !contains(alice.NewBadges, domain.BadgeQuizChampion) {
		t.Fatalf("expected rank badges for alice, got %v", alice.NewBadges)
	}

	// Equal-time perfect run ranks behind the earlier entry.
	bob := submitPerfectRun(t, ctx, service, "bob")
	if bob.Rank != 2 {
		t.Fatalf("expected bob at rank 2, got %d", bob.Rank)
	}
	if !contains(bob.NewBadges, domain.BadgeTopTen) || contains(bob.NewBadges, domain.BadgeQuizChampion) {
		t.Fatalf("expected only the top-ten badge for bob, got %v", bob.NewBadges)
	}

	entries, err := service.Leaderboard(ctx, "article-1", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "alice" || entries[1].UserID != "bob" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}

	badges, err := service.Badges(ctx, "alice")
	if err != nil {
		t.Fatalf("badges: %v", err)
	}
	if len(badges) != 2 {
		t.Fatalf("expected two badges persisted for alice, got %+v", badges)
	}
}

func TestDuplicateSubmissionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	seedQuiz(t, ctx, pgURL, sampleQuiz())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	quizRepo := memory.NewQuizRepository(infrapg.NewQuizLoader(pool), 5*time.Minute)
	attempts := infrapg.NewAttemptStore(pool)
	leaderboard := app.NewLeaderboardEngine(infrapg.NewLeaderboardStore(pool), nil)
	guard := app.NewSubmissionGuard(attempts, leaderboard, nil)
	achievements := app.NewAchievementEngine(memory.NewBadgeStore(), memory.NewNotifier(), nil)
	service := app.NewGamificationService(quizRepo, attempts, guard, leaderboard, achievements, nil)

	session, err := service.OpenSession(ctx, "article-1")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	drivePerfect(session)

	first, err := service.SubmitSession(ctx, "alice", session)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	second, err := service.SubmitSession(ctx, "alice", session)
	if err != nil {
		t.Fatalf("duplicate submit: %v", err)
	}
	if !second.Duplicate || second.Attempt.ID != first.Attempt.ID {
		t.Fatalf("expected cached attempt on duplicate, got %+v", second)
	}

	count, err := attempts.CountByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single persisted attempt, got %d", count)
	}
}

func submitPerfectRun(t *testing.T, ctx context.Context, service *app.GamificationService, userID string) app.SubmissionResult {
	t.Helper()
	session, err := service.OpenSession(ctx, "article-1")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	drivePerfect(session)
	result, err := service.SubmitSession(ctx, userID, session)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return result
}

func drivePerfect(session *app.Session) {
	session.Start()
	for i, q := range session.Quiz().Questions {
		session.SelectAnswer(i, q.CorrectAnswer)
		session.Next()
	}
	session.Finish()
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "edify", "POSTGRES_PASSWORD": "edifypass", "POSTGRES_DB": "edifydb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://edify:edifypass@%s:%s/edifydb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuiz(t *testing.T, ctx context.Context, dsn string, quiz domain.Quiz) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO quizzes (id, article_id, data) VALUES (?, ?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, quiz.ID, quiz.ArticleID, string(data)); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:        "quiz-1",
		ArticleID: "article-1",
		Title:     "Concurrency basics",
		Questions: []domain.Question{
			{
				Prompt:        "Which keyword starts a goroutine?",
				Options:       []string{"run", "go", "spawn"},
				CorrectAnswer: 1,
				Explanation:   "The go statement starts a new goroutine.",
			},
			{
				Prompt:        "Which builtin appends to a slice?",
				Options:       []string{"append", "push", "add"},
				CorrectAnswer: 0,
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func contains(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
