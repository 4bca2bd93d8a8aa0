package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/repository"
	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
	"github.com/lukasssicevs/drippler-web/internal/infra/redis"
)

// Compile-time check
var _ TryOnUseCase = (*tryOnUC)(nil)

// generationLeaseTTL bounds how long one request can hold the per-user
// lease; covers fetch + generation + upload at provider timeouts.
const generationLeaseTTL = 3 * time.Minute

type TryOnUseCase interface {
	// Generate runs one quota-gated try-on: check, generate, store,
	// record, respond with the refreshed quota snapshot.
	Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateResult, error)
	// History returns the user's stored generations plus a quota summary.
	History(ctx context.Context, userID string) (*HistoryResult, error)
}

type GenerateRequest struct {
	UserImageURL     string
	ClothingImageURL string
	ClothingName     string
}

type GenerateResult struct {
	GeneratedImageURL    string
	GeneratedImageBase64 string // raw base64 payload, no data-URI prefix
	GenerationID         string
	GenerationCount      int
	RemainingGenerations int
	MonthlyLimit         int
	PlanType             model.PlanType
}

type HistoryResult struct {
	Generations          []*model.Generation
	GenerationCount      int
	MaxGenerations       int
	RemainingGenerations int
	HasReachedLimit      bool
	PlanType             model.PlanType
	SubscriptionActive   bool
}

type tryOnUC struct {
	generator   adapter.ImageGenerator
	fetcher     adapter.ImageFetcher
	storage     adapter.ObjectStorage
	usage       repository.UsageTracker
	generations repository.GenerationRepository
	locker      redis.Locker
	freeLimit   int
	log         *zerolog.Logger
}

func NewTryOnUseCase(
	generator adapter.ImageGenerator,
	fetcher adapter.ImageFetcher,
	storage adapter.ObjectStorage,
	usage repository.UsageTracker,
	generations repository.GenerationRepository,
	locker redis.Locker,
	freeLimit int,
	log *zerolog.Logger,
) *tryOnUC {
	return &tryOnUC{
		generator:   generator,
		fetcher:     fetcher,
		storage:     storage,
		usage:       usage,
		generations: generations,
		locker:      locker,
		freeLimit:   freeLimit,
		log:         log,
	}
}

func (u *tryOnUC) Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateResult, error) {
	if req.UserImageURL == "" || req.ClothingImageURL == "" {
		return nil, fmt.Errorf("%w: both image URLs are required", domain.ErrInvalidArgument)
	}

	// One in-flight generation per user: the lease spans the whole
	// check-then-record window so two requests cannot both pass the check.
	lockKey := redis.GenerationLockKey(userID)
	token, err := u.locker.TryLock(ctx, lockKey, generationLeaseTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := u.locker.Unlock(ctx, lockKey, token); uerr != nil {
			logging.With(ctx, u.log).Warn().Err(uerr).Msg("release generation lease")
		}
	}()

	plan, err := u.planInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan.HasReachedLimit() {
		return nil, &domain.LimitExceededError{
			PlanType:     string(plan.PlanType),
			MonthlyLimit: plan.MonthlyLimit,
			CurrentCount: plan.CurrentCount,
		}
	}

	person, err := u.fetcher.Fetch(ctx, req.UserImageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user image: %w", err)
	}
	garment, err := u.fetcher.Fetch(ctx, req.ClothingImageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch clothing image: %w", err)
	}

	result, err := u.generator.GenerateTryOn(ctx, adapter.TryOnRequest{
		Prompt:       BuildTryOnPrompt(req.ClothingName),
		PersonImage:  person,
		GarmentImage: garment,
	})
	if err != nil {
		return nil, err
	}

	img := &model.GeneratedImage{Data: result.Data, MIMEType: result.MIMEType}
	object := fmt.Sprintf("virtual-try-on-%s-%d.%s", userID, time.Now().UnixMilli(), img.FileExtension())
	if err := u.storage.Upload(ctx, object, img.Data, img.MIMEType); err != nil {
		return nil, fmt.Errorf("store generated image: %w", err)
	}
	publicURL := u.storage.PublicURL(object)

	// The recording function enforces the limit server-side; a rejection
	// here means another request won the race despite the lease.
	meta := map[string]any{
		"user_image_url":      req.UserImageURL,
		"clothing_image_url":  req.ClothingImageURL,
		"generated_image_url": publicURL,
		"clothing_name":       req.ClothingName,
	}
	if err := u.usage.RecordGeneration(ctx, userID, "virtual_tryon", meta); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("record generation rejected")
		return nil, &domain.LimitExceededError{
			PlanType:     string(plan.PlanType),
			MonthlyLimit: plan.MonthlyLimit,
			CurrentCount: plan.MonthlyLimit,
		}
	}

	// Audit row is best effort; the counted generation already happened.
	gen := &model.Generation{
		ID:                ulid.Make().String(),
		UserID:            userID,
		UserImageURL:      req.UserImageURL,
		ClothingImageURL:  req.ClothingImageURL,
		GeneratedImageURL: publicURL,
		ClothingName:      req.ClothingName,
		CreatedAt:         time.Now(),
	}
	if saved, err := u.generations.Insert(ctx, gen); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("insert generation audit row")
	} else {
		gen = saved
	}

	updated, err := u.planInfo(ctx, userID)
	if err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("refresh plan info")
		updated = plan
	}

	return &GenerateResult{
		GeneratedImageURL:    publicURL,
		GeneratedImageBase64: base64.StdEncoding.EncodeToString(img.Data),
		GenerationID:         gen.ID,
		GenerationCount:      updated.CurrentCount,
		RemainingGenerations: updated.RemainingGenerations,
		MonthlyLimit:         updated.MonthlyLimit,
		PlanType:             updated.PlanType,
	}, nil
}

func (u *tryOnUC) History(ctx context.Context, userID string) (*HistoryResult, error) {
	plan, err := u.planInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	gens, err := u.generations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &HistoryResult{
		Generations:          gens,
		GenerationCount:      plan.CurrentCount,
		MaxGenerations:       plan.MonthlyLimit,
		RemainingGenerations: plan.RemainingGenerations,
		HasReachedLimit:      plan.HasReachedLimit(),
		PlanType:             plan.PlanType,
		SubscriptionActive:   plan.SubscriptionActive,
	}, nil
}

// planInfo falls back to the free-tier shape when the database function
// has no row for the user yet.
func (u *tryOnUC) planInfo(ctx context.Context, userID string) (*model.PlanInfo, error) {
	plan, err := u.usage.PlanInfo(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return model.FreePlanInfo(u.freeLimit), nil
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// BuildTryOnPrompt turns the extension-supplied clothing name into the
// generation prompt. Scraped names are often page titles or tracking URLs;
// anything that looks like one collapses to a generic label.
func BuildTryOnPrompt(clothingName string) string {
	name := sanitizeClothingName(clothingName)
	return fmt.Sprintf(
		"Show the person from the first image wearing the %s from the second image. Make sure the %s fits naturally on the person.",
		name, name,
	)
}

func sanitizeClothingName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if len(name) < 3 || strings.Contains(name, "from www.") || strings.Contains(name, "google.com") {
		return "clothing item"
	}
	return name
}
