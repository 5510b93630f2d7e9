package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/maheshrc27/flowsocial/internal/composer"
	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/transfer"
	"github.com/maheshrc27/flowsocial/pkg/plans"
)

type BrandService interface {
	Create(ctx context.Context, userID int64, in *transfer.BrandSettings) (*models.Brand, error)
	Get(ctx context.Context, userID, brandID int64) (*models.Brand, error)
	List(ctx context.Context, userID int64) ([]*models.Brand, error)
	Update(ctx context.Context, userID, brandID int64, in *transfer.BrandSettings) (*models.Brand, error)
	Remove(ctx context.Context, userID, brandID int64) error
}

type brandService struct {
	br    repository.BrandRepository
	usage UsageService
}

func NewBrandService(br repository.BrandRepository, usage UsageService) BrandService {
	return &brandService{
		br:    br,
		usage: usage,
	}
}

func (s *brandService) Create(ctx context.Context, userID int64, in *transfer.BrandSettings) (*models.Brand, error) {
	plan := s.usage.ResolvePlan(ctx, userID)

	count, err := s.br.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= plans.MaxBrands(plan) {
		slog.Info("brand limit reached", "user_id", userID, "plan", plan, "brands", count)
		return nil, ErrBrandLimitReached
	}

	brand := brandFromSettings(in)
	brand.UserID = userID

	id, err := s.br.Create(ctx, brand)
	if err != nil {
		return nil, err
	}
	brand.ID = id
	return brand, nil
}

func (s *brandService) Get(ctx context.Context, userID, brandID int64) (*models.Brand, error) {
	brand, found, err := s.br.GetByID(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

func (s *brandService) List(ctx context.Context, userID int64) ([]*models.Brand, error) {
	return s.br.ListByUserID(ctx, userID)
}

func (s *brandService) Update(ctx context.Context, userID, brandID int64, in *transfer.BrandSettings) (*models.Brand, error) {
	if _, err := s.Get(ctx, userID, brandID); err != nil {
		return nil, err
	}

	brand := brandFromSettings(in)
	brand.ID = brandID
	brand.UserID = userID
	if err := s.br.Update(ctx, brand); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, brandID)
}

func (s *brandService) Remove(ctx context.Context, userID, brandID int64) error {
	removed, err := s.br.Remove(ctx, brandID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrBrandNotFound
	}
	return nil
}

func brandFromSettings(in *transfer.BrandSettings) *models.Brand {
	if in == nil {
		in = &transfer.BrandSettings{}
	}
	return &models.Brand{
		BrandName:           strings.TrimSpace(in.BrandName),
		Industry:            strings.TrimSpace(in.Industry),
		TargetMarket:        strings.TrimSpace(in.TargetMarket),
		BrandColorsAndStyle: strings.TrimSpace(in.BrandColorsAndStyle),
		ContentPillars:      strings.TrimSpace(in.ContentPillars),
		DefaultImageFocus:   strings.TrimSpace(in.DefaultImageFocus),
		PersonaPrimary:      strings.TrimSpace(in.PersonaPrimary),
		PersonaSecondary:    strings.TrimSpace(in.PersonaSecondary),
		PersonaThird:        strings.TrimSpace(in.PersonaThird),
		PeopleMode:          string(composer.ParsePeopleMode(in.PeopleMode)),
	}
}

// BrandProfile converts a stored brand to the composer's view of it.
func BrandProfile(b *models.Brand) composer.BrandProfile {
	if b == nil {
		return composer.BrandProfile{PeopleMode: composer.PeopleAuto}
	}
	return composer.BrandProfile{
		BrandName:           b.BrandName,
		Industry:            b.Industry,
		TargetMarket:        b.TargetMarket,
		BrandColorsAndStyle: b.BrandColorsAndStyle,
		ContentPillars:      b.ContentPillars,
		DefaultImageFocus:   b.DefaultImageFocus,
		PersonaPrimary:      b.PersonaPrimary,
		PersonaSecondary:    b.PersonaSecondary,
		PersonaThird:        b.PersonaThird,
		PeopleMode:          composer.ParsePeopleMode(b.PeopleMode),
	}
}
