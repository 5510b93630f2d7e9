package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/maheshrc27/flowsocial/internal/composer"
	"github.com/maheshrc27/flowsocial/internal/metrics"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/transfer"
)

const (
	kindCaption  = "caption"
	kindVariants = "caption_variants"
	kindImage    = "image"

	resultOK    = "ok"
	resultError = "error"
)

type GenerationService interface {
	// Caption and CaptionVariants are metered: each consumes one post from
	// the monthly allowance, and return *LimitReachedError when denied.
	Caption(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.CaptionResult, error)
	CaptionVariants(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.CaptionVariantsResult, error)
	Image(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.ImageResult, error)
}

type generationService struct {
	ai      AIClient
	usage   UsageService
	brands  repository.BrandRepository
	posts   repository.PostRepository
	metrics metrics.MetricsCollector
}

func NewGenerationService(
	ai AIClient,
	usage UsageService,
	brands repository.BrandRepository,
	posts repository.PostRepository,
	m metrics.MetricsCollector) GenerationService {
	return &generationService{
		ai:      ai,
		usage:   usage,
		brands:  brands,
		posts:   posts,
		metrics: m,
	}
}

// resolveBrand prefers a saved brand. Inline settings are used when no
// brand id is given; missing fields fall back inside the composer.
func (s *generationService) resolveBrand(ctx context.Context, userID int64, req *transfer.GenerateRequest) (composer.BrandProfile, error) {
	if req.BrandID > 0 {
		brand, found, err := s.brands.GetByID(ctx, req.BrandID, userID)
		if err != nil {
			return composer.BrandProfile{}, err
		}
		if !found {
			return composer.BrandProfile{}, ErrBrandNotFound
		}
		return BrandProfile(brand), nil
	}
	return BrandProfile(brandFromSettings(req.Brand)), nil
}

func (s *generationService) meter(ctx context.Context, userID int64) (*transfer.UsageCheck, error) {
	plan := s.usage.ResolvePlan(ctx, userID)
	check := s.usage.CheckAndIncrement(ctx, userID, plan)
	if !check.Allowed && check.Transient {
		slog.Error("usage gate unavailable", "user_id", userID, "plan", check.Plan)
		return check, fmt.Errorf("%w: %s", ErrUsageUnavailable, check.Reason)
	}
	if !check.Allowed {
		slog.Info("generation blocked by usage gate", "user_id", userID, "plan", check.Plan, "used", check.Used)
		return check, &LimitReachedError{Check: check}
	}
	return check, nil
}

func (s *generationService) Caption(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.CaptionResult, error) {
	brand, err := s.resolveBrand(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	check, err := s.meter(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.Complete(ctx, composer.BuildCaptionPrompt(req.Prompt, brand))
	if err != nil {
		s.metrics.RecordGeneration(kindCaption, resultError)
		return nil, err
	}
	caption := composer.SanitizeText(raw)

	description, err := s.ai.Complete(ctx, composer.BuildImageDescriptionPrompt(brand, caption))
	if err != nil {
		slog.Info("image description failed", "user_id", userID, "error", err)
		description = ""
	}

	s.metrics.RecordGeneration(kindCaption, resultOK)
	return &transfer.CaptionResult{
		Caption:     s.withHashtags(ctx, brand, caption),
		ImagePrompt: composer.SanitizeText(description),
		Usage:       check,
	}, nil
}

func (s *generationService) CaptionVariants(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.CaptionVariantsResult, error) {
	brand, err := s.resolveBrand(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	check, err := s.meter(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.CompleteJSON(ctx, composer.BuildCaptionVariantsPrompt(req.Prompt, brand, composer.VariantCount))
	if err != nil {
		s.metrics.RecordGeneration(kindVariants, resultError)
		return nil, err
	}
	variants := composer.ParseCaptionVariants(raw)

	captions := make([]string, len(variants.Captions))
	var wg sync.WaitGroup
	for i, c := range variants.Captions {
		wg.Add(1)
		go func(i int, c string) {
			defer wg.Done()
			captions[i] = s.withHashtags(ctx, brand, c)
		}(i, c)
	}
	wg.Wait()

	s.metrics.RecordGeneration(kindVariants, resultOK)
	return &transfer.CaptionVariantsResult{
		Source:   variants.Source.String(),
		Captions: captions,
		Usage:    check,
	}, nil
}

// withHashtags appends the hashtag paragraph. A failed hashtag call leaves
// the caption unchanged.
func (s *generationService) withHashtags(ctx context.Context, brand composer.BrandProfile, caption string) string {
	tags, err := s.ai.Complete(ctx, composer.BuildHashtagPrompt(brand, caption))
	if err != nil {
		slog.Info("hashtag generation failed", "error", err)
		return caption
	}
	return composer.AppendHashtags(caption, tags)
}

func (s *generationService) Image(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*transfer.ImageResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	brand, err := s.resolveBrand(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	composed := composeImagePrompt(ctx, s.posts, userID, req.Prompt, brand)

	img, err := s.ai.GenerateImage(ctx, composed.Prompt)
	if err != nil {
		s.metrics.RecordGeneration(kindImage, resultError)
		return nil, err
	}

	s.metrics.RecordGeneration(kindImage, resultOK)
	return &transfer.ImageResult{
		ImageBase64:    img.Base64,
		ImageURL:       img.URL,
		Prompt:         composed.Prompt,
		Classification: composed.Classification,
		UsedPersona:    composed.UsedPersona,
	}, nil
}

type composedImage struct {
	Prompt         string
	Classification composer.Classification
	UsedPersona    bool
}

// composeImagePrompt rotates personas and shot hints by the number of posts
// the user already has. A failed count rotates from zero.
func composeImagePrompt(ctx context.Context, posts repository.PostRepository, userID int64, scene string, brand composer.BrandProfile) composedImage {
	postsSoFar, err := posts.CountByUserID(ctx, userID)
	if err != nil {
		slog.Info("post count failed, rotating from zero", "user_id", userID, "error", err)
		postsSoFar = 0
	}

	cls := composer.ClassifyPrompt(scene)
	return composedImage{
		Prompt: composer.BuildImagePrompt(composer.ImageRequest{
			UserPrompt:     scene,
			Brand:          brand,
			Classification: cls,
			Personas:       composer.BuildPersonaList(brand),
			PostsSoFar:     postsSoFar,
		}),
		Classification: cls,
		UsedPersona:    composer.DecideUsePersona(brand.PeopleMode, cls),
	}
}
