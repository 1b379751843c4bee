package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"poap-service/internal/app"
	"poap-service/internal/config"
	"poap-service/internal/domain"
	"poap-service/internal/infra/ethereum"
	"poap-service/internal/infra/memory"
	"poap-service/internal/infra/postgres"
	redisinfra "poap-service/internal/infra/redis"
	"poap-service/pkg/logger"
)

const (
	defaultCourseTTL    = 10 * time.Minute
	defaultCheckTimeout = 5 * time.Second
	defaultMintTimeout  = 2 * time.Minute
)

type courseStore interface {
	app.CourseStore
	memory.CourseLoader
}

// services holds the wired application layer and the resources backing it.
type services struct {
	courses        *app.CourseService
	certifications *app.CertificationService
	closers        []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildServices picks an adapter per concern: Postgres or memory for courses,
// Redis or memory for caching, Ethereum or memory for the ledger.
func buildServices(ctx context.Context, cfg config.Config, log logger.Log) (*services, error) {
	svc := &services{}

	var store courseStore = memory.NewCourseStore(sampleCourses()...)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, pool.Close)
		store = postgres.NewCourseStore(pool)
	} else {
		log.Warn("postgres not configured, using in-memory course store")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		svc.closers = append(svc.closers, func() { _ = redisClient.Close() })
	}

	var courses app.CourseRepository
	if redisClient != nil {
		courses = redisinfra.NewCourseRepository(redisClient, store, log, courseCacheTTL(cfg, true))
	} else {
		courses = memory.NewCourseRepository(store, courseCacheTTL(cfg, false))
	}

	var ledger app.Ledger
	if cfg.LedgerEnabled() {
		eth, err := ethereum.Dial(ctx, ethereum.Config{
			RPCURL:          cfg.Ledger.RPCURL,
			ContractAddress: cfg.Ledger.ContractAddress,
			PrivateKey:      cfg.Ledger.PrivateKey,
			GasLimit:        cfg.Ledger.GasLimit,
		}, log)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.closers = append(svc.closers, eth.Close)
		ledger = eth
	} else {
		log.Warn("ledger rpc not configured, certificates are kept in memory")
		ledger = memory.NewLedger()
	}
	if redisClient != nil {
		ledger = redisinfra.NewCertificateCache(redisClient, ledger, log)
	}

	certifier := app.NewCertifier(log, ledger, app.CertifierOptions{
		Threshold:    cfg.PassThreshold(app.PassThreshold),
		CheckTimeout: config.TTLDuration(cfg.Certification.CheckTimeout, defaultCheckTimeout),
		MintTimeout:  config.TTLDuration(cfg.Certification.MintTimeout, defaultMintTimeout),
	})
	svc.courses = app.NewCourseService(log, store, courses)
	svc.certifications = app.NewCertificationService(courses, ledger, certifier)
	return svc, nil
}

// courseCacheTTL is course.ttl, except that redis.ttl takes precedence for the Redis cache.
func courseCacheTTL(cfg config.Config, redisCache bool) time.Duration {
	courseTTL := config.TTLDuration(cfg.Course.TTL, defaultCourseTTL)
	if redisCache {
		return config.TTLDuration(cfg.Redis.TTL, courseTTL)
	}
	return courseTTL
}

// sampleCourses seeds the in-memory store for local runs.
func sampleCourses() []domain.Course {
	return []domain.Course{
		{
			Title:       "Blockchain Basics",
			Description: "Blocks, hashes and how a chain reaches consensus.",
			FileURL:     "https://example.com/courses/blockchain-basics.pdf",
			Quiz: &domain.Quiz{
				Questions: []domain.Question{
					{ID: "1", Text: "What links one block to the previous one?", Options: []string{"Its hash", "A timestamp", "The miner's address"}, CorrectAnswer: "Its hash"},
					{ID: "2", Text: "What does a proof-of-work puzzle cost to solve?", Options: []string{"Gas", "Computation", "Storage"}, CorrectAnswer: "Computation"},
					{ID: "3", Text: "Which key signs a transaction?", Options: []string{"Public key", "Private key"}, CorrectAnswer: "Private key"},
					{ID: "4", Text: "What is a POAP?", Options: []string{"A token proving attendance", "A consensus rule", "A wallet type"}, CorrectAnswer: "A token proving attendance"},
					{ID: "5", Text: "Who can read a public blockchain?", Options: []string{"Only miners", "Anyone", "Only token holders"}, CorrectAnswer: "Anyone"},
				},
			},
		},
	}
}
