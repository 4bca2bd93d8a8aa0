package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/lukasssicevs/drippler-web/internal/config"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
	aiAdapters "github.com/lukasssicevs/drippler-web/internal/infra/adapters/ai"
	authAdapters "github.com/lukasssicevs/drippler-web/internal/infra/adapters/auth"
	payAdapters "github.com/lukasssicevs/drippler-web/internal/infra/adapters/payment"
	storageAdapters "github.com/lukasssicevs/drippler-web/internal/infra/adapters/storage"
	pg "github.com/lukasssicevs/drippler-web/internal/infra/db/postgres"
	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
	"github.com/lukasssicevs/drippler-web/internal/infra/metrics"
	red "github.com/lukasssicevs/drippler-web/internal/infra/redis"
	"github.com/lukasssicevs/drippler-web/internal/infra/web"
	"github.com/lukasssicevs/drippler-web/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted tokens)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient, logger)
	deduper := red.NewEventDeduper(redisClient, 0)

	// ---- Repositories ----
	subRepo := pg.NewSubscriptionRepo(pool)
	genRepo := pg.NewGenerationRepo(pool)
	usageTracker := pg.NewUsageTracker(pool)

	// ---- Hosted service adapters ----
	authProvider, err := authAdapters.NewSupabaseAuth(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.ServiceRoleKey, cfg.Supabase.JWTSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("auth provider")
	}
	objectStorage, err := storageAdapters.NewSupabaseStorage(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, cfg.Supabase.StorageBucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("object storage")
	}

	gateway, err := payAdapters.NewStripeGateway(cfg.Stripe.SecretKey, payAdapters.PriceSpec{
		ProductName:        cfg.Stripe.Price.ProductName,
		ProductDescription: cfg.Stripe.Price.ProductDescription,
		UnitAmount:         cfg.Stripe.Price.UnitAmount,
		Currency:           cfg.Stripe.Price.Currency,
		Interval:           cfg.Stripe.Price.Interval,
	}, cfg.SuccessURL(), cfg.CancelURL())
	if err != nil {
		logger.Fatal().Err(err).Msg("stripe gateway")
	}

	// ---- Image generator (Gemini -> OpenAI -> unconfigured) ----
	var generator adapter.ImageGenerator
	switch {
	case cfg.AI.GeminiKey != "" && cfg.AI.Provider != "openai":
		generator, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("image generator: gemini")
	case cfg.AI.OpenAIKey != "":
		generator, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIURL, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Msg("image generator: openai")
	default:
		generator = aiAdapters.NewUnconfiguredAdapter()
		logger.Warn().Msg("no image generation key configured; try-on requests will fail")
	}
	fetcher := aiAdapters.NewImageFetcher()

	// ---- Use cases ----
	tryOnUC := usecase.NewTryOnUseCase(generator, fetcher, objectStorage, usageTracker, genRepo, locker, cfg.Quota.FreeMonthlyLimit, logger)
	billingUC := usecase.NewBillingUseCase(gateway, authProvider, subRepo, logger)
	accountUC := usecase.NewAccountUseCase(authProvider, logger)

	// ---- HTTP server ----
	server := web.NewServer(cfg, tryOnUC, billingUC, accountUC, authProvider, deduper, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server")
	}
	logger.Info().Msg("shutdown complete")
}
