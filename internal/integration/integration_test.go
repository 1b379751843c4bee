package integration

import (
	"context"
	"database/sql"
	"errors"
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
	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/internal/infra/memory"
	"poap-service/internal/infra/postgres"
	pgmigrations "poap-service/internal/infra/postgres/migrations"
	infraredis "poap-service/internal/infra/redis"
	"poap-service/pkg/logger"
)

const recipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func TestCertificationEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

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

	log := logger.Discard()
	store := postgres.NewCourseStore(pool)
	courses := infraredis.NewCourseRepository(redisClient, store, log, 5*time.Minute)
	ledger := infraredis.NewCertificateCache(redisClient, memory.NewLedger(), log)
	courseService := app.NewCourseService(log, store, courses)
	certifications := app.NewCertificationService(courses, ledger, app.NewCertifier(log, ledger, app.CertifierOptions{}))

	course, err := courseService.Create(ctx, sampleCourse())
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if course.ID == 0 || course.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp from postgres, got %+v", course)
	}

	loaded, err := courseService.Get(ctx, course.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if loaded.Quiz == nil || len(loaded.Quiz.Questions) != 5 || loaded.Quiz.Questions[0].ID != "1" {
		t.Fatalf("quiz did not survive jsonb round trip: %+v", loaded.Quiz)
	}
	if _, err := courseService.Get(ctx, course.ID+100); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	answers := domain.SubmissionAnswers{"1": "A", "2": "A", "3": "A", "4": "A", "5": "B"}
	first, err := certifications.Submit(ctx, course.ID, recipient, answers)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Kind != domain.OutcomeMinted || first.Percentage() != 80 {
		t.Fatalf("expected minted at 80, got %+v", first)
	}

	second, err := certifications.Submit(ctx, course.ID, recipient, answers)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Kind != domain.OutcomeAlreadyCertified {
		t.Fatalf("expected already certified, got %+v", second)
	}

	marker := fmt.Sprintf("certificate:%d:%s", course.ID, strings.ToLower(recipient))
	if got, err := redisClient.Get(ctx, marker).Result(); err != nil || got != first.TransactionID {
		t.Fatalf("expected marker %q, got %q (%v)", first.TransactionID, got, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "poap", "POSTGRES_PASSWORD": "poappass", "POSTGRES_DB": "poap"},
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
	dsn := fmt.Sprintf("postgres://poap:poappass@%s:%s/poap?sslmode=disable", host, port.Port())
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

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
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
}

func sampleCourse() domain.Course {
	quiz := &domain.Quiz{}
	for _, id := range []domain.QuestionID{"1", "2", "3", "4", "5"} {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:            id,
			Text:          "Question " + string(id),
			Options:       []string{"A", "B"},
			CorrectAnswer: "A",
		})
	}
	return domain.Course{
		Title:       "Blockchain Basics",
		Description: "Introduction to blockchain technology",
		FileURL:     "https://example.com/basics.pdf",
		Quiz:        quiz,
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

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
