package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/flowsocial/internal/metrics"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/transfer"
	"github.com/maheshrc27/flowsocial/pkg/plans"
)

const (
	reasonLimitNoUsage    = "You have reached your monthly limit for this plan. Please upgrade to continue creating posts."
	reasonLimitReached    = "You have reached your monthly limit for this plan. Please upgrade to create more posts."
	reasonVerifyFailed    = "Could not verify your monthly usage right now. Please try again in a minute."
	reasonIncrementFailed = "Could not update your usage right now. Please try again in a minute."
)

type UsageService interface {
	// ResolvePlan returns the user's normalized plan. A missing user or a
	// failed lookup resolves to free.
	ResolvePlan(ctx context.Context, userID int64) plans.Plan
	// CheckAndIncrement meters one post. It never returns an error: every
	// failure is a denial with a reason.
	CheckAndIncrement(ctx context.Context, userID int64, plan plans.Plan) *transfer.UsageCheck
	GetUsageInfo(ctx context.Context, userID int64) (*transfer.UsageInfo, error)
}

type usageService struct {
	usage   repository.UsageRepository
	users   repository.UserRepository
	brands  repository.BrandRepository
	metrics metrics.MetricsCollector
	now     func() time.Time
}

func NewUsageService(
	usage repository.UsageRepository,
	users repository.UserRepository,
	brands repository.BrandRepository,
	m metrics.MetricsCollector) UsageService {
	return &usageService{
		usage:   usage,
		users:   users,
		brands:  brands,
		metrics: m,
		now:     time.Now,
	}
}

// PeriodStart is the first day of t's calendar month in UTC.
func PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *usageService) ResolvePlan(ctx context.Context, userID int64) plans.Plan {
	user, found, err := s.users.GetByID(ctx, userID)
	if err != nil || !found {
		return plans.Free
	}
	return plans.Normalize(user.Plan)
}

func (s *usageService) CheckAndIncrement(ctx context.Context, userID int64, plan plans.Plan) *transfer.UsageCheck {
	plan = plans.Normalize(string(plan))
	check := s.checkAndIncrement(ctx, userID, plan)
	s.metrics.RecordQuotaDecision(string(plan), check.Allowed)
	return check
}

func (s *usageService) checkAndIncrement(ctx context.Context, userID int64, plan plans.Plan) *transfer.UsageCheck {
	limit := plans.PostLimit(plan)
	periodStart := PeriodStart(s.now())

	check := &transfer.UsageCheck{
		Plan:  string(plan),
		Limit: limit,
	}

	if limit != nil && *limit <= 0 {
		return s.deny(ctx, check, userID, periodStart)
	}

	used, ok, err := s.usage.Increment(ctx, userID, periodStart, limit)
	if err != nil {
		slog.Error("usage increment failed", "user_id", userID, "error", err)
		check.Reason = reasonIncrementFailed
		check.Transient = true
		return check
	}
	if !ok {
		return s.deny(ctx, check, userID, periodStart)
	}

	check.Allowed = true
	check.Used = used
	if limit != nil {
		check.Remaining = intPtr(max(*limit-used, 0))
	}
	return check
}

// deny fills a quota denial with the usage already recorded for the period.
func (s *usageService) deny(ctx context.Context, check *transfer.UsageCheck, userID int64, periodStart time.Time) *transfer.UsageCheck {
	row, found, err := s.usage.Get(ctx, userID, periodStart)
	if err != nil {
		slog.Error("usage read failed", "user_id", userID, "error", err)
		check.Reason = reasonVerifyFailed
		check.Transient = true
		return check
	}

	check.Remaining = intPtr(0)
	if !found {
		check.Reason = reasonLimitNoUsage
		return check
	}

	check.Used = row.PostsUsed
	check.Reason = reasonLimitReached
	return check
}

func (s *usageService) GetUsageInfo(ctx context.Context, userID int64) (*transfer.UsageInfo, error) {
	plan := s.ResolvePlan(ctx, userID)

	info := &transfer.UsageInfo{
		Plan:             string(plan),
		MaxBrands:        plans.MaxBrands(plan),
		MaxPostsPerMonth: plans.PostLimit(plan),
	}

	row, found, err := s.usage.Get(ctx, userID, PeriodStart(s.now()))
	if err != nil {
		return nil, err
	}
	if found {
		info.PostsUsedThisMonth = row.PostsUsed
	}

	info.BrandsCount, err = s.brands.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return info, nil
}

func intPtr(v int) *int { return &v }
