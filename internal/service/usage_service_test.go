package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/flowsocial/internal/metrics"
	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/pkg/plans"
)

var fixedNow = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC)

func newTestUsageService(usage *fakeUsageRepo, users *fakeUserRepo, brands *fakeBrandRepo) *usageService {
	s := NewUsageService(usage, users, brands, metrics.Nop{}).(*usageService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestPeriodStart(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{fixedNow, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC), time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
		// 21:00 on Sep 30 at UTC-5 is already October in UTC
		{time.Date(2026, time.September, 30, 21, 0, 0, 0, loc), time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := PeriodStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("PeriodStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheckAndIncrement_FreeLimit(t *testing.T) {
	usage := newFakeUsageRepo()
	s := newTestUsageService(usage, newFakeUserRepo(), newFakeBrandRepo())
	ctx := context.Background()

	for i := 1; i <= 30; i++ {
		check := s.CheckAndIncrement(ctx, 1, plans.Free)
		if !check.Allowed {
			t.Fatalf("call %d denied: %+v", i, check)
		}
		if check.Used != i || *check.Limit != 30 || *check.Remaining != 30-i {
			t.Fatalf("call %d = used %d limit %d remaining %d", i, check.Used, *check.Limit, *check.Remaining)
		}
	}

	check := s.CheckAndIncrement(ctx, 1, plans.Free)
	if check.Allowed {
		t.Fatal("31st call allowed")
	}
	if check.Used != 30 || *check.Remaining != 0 || check.Reason != reasonLimitReached || check.Transient {
		t.Fatalf("denial = %+v", check)
	}
	if check.Plan != "free" {
		t.Errorf("Plan = %q", check.Plan)
	}

	if got := usage.rows[usageKey{1, PeriodStart(fixedNow)}]; got != 30 {
		t.Fatalf("postsUsed = %d, want 30", got)
	}
}

func TestCheckAndIncrement_Unlimited(t *testing.T) {
	s := newTestUsageService(newFakeUsageRepo(), newFakeUserRepo(), newFakeBrandRepo())

	var check = s.CheckAndIncrement(context.Background(), 9, plans.StudioMax)
	for i := 0; i < 500; i++ {
		check = s.CheckAndIncrement(context.Background(), 9, plans.StudioMax)
	}
	if !check.Allowed || check.Used != 501 {
		t.Fatalf("check = %+v", check)
	}
	if check.Limit != nil || check.Remaining != nil {
		t.Fatalf("unlimited plan reported limit %v remaining %v", check.Limit, check.Remaining)
	}
}

func TestCheckAndIncrement_UnknownPlanIsFree(t *testing.T) {
	s := newTestUsageService(newFakeUsageRepo(), newFakeUserRepo(), newFakeBrandRepo())

	check := s.CheckAndIncrement(context.Background(), 1, plans.Plan("enterprise"))
	if check.Plan != "free" || *check.Limit != 30 {
		t.Fatalf("check = %+v", check)
	}
}

func TestCheckAndIncrement_FailsClosed(t *testing.T) {
	t.Run("increment error", func(t *testing.T) {
		usage := newFakeUsageRepo()
		usage.incErr = errDB
		s := newTestUsageService(usage, newFakeUserRepo(), newFakeBrandRepo())

		check := s.CheckAndIncrement(context.Background(), 1, plans.Pro)
		if check.Allowed || !check.Transient || check.Reason != reasonIncrementFailed {
			t.Fatalf("check = %+v", check)
		}
	})

	t.Run("unlimited increment error", func(t *testing.T) {
		usage := newFakeUsageRepo()
		usage.incErr = errDB
		s := newTestUsageService(usage, newFakeUserRepo(), newFakeBrandRepo())

		check := s.CheckAndIncrement(context.Background(), 1, plans.StudioMax)
		if check.Allowed || !check.Transient {
			t.Fatalf("check = %+v", check)
		}
	})

	t.Run("read error after denial", func(t *testing.T) {
		usage := newFakeUsageRepo()
		usage.rows[usageKey{1, PeriodStart(fixedNow)}] = 300
		usage.getErr = errDB
		s := newTestUsageService(usage, newFakeUserRepo(), newFakeBrandRepo())

		check := s.CheckAndIncrement(context.Background(), 1, plans.Pro)
		if check.Allowed || !check.Transient || check.Reason != reasonVerifyFailed {
			t.Fatalf("check = %+v", check)
		}
	})
}

func TestCheckAndIncrement_ZeroLimitDeniesWithoutWriting(t *testing.T) {
	orig := plans.PlanLimits[plans.Free]
	zero := 0
	plans.PlanLimits[plans.Free] = plans.Limits{MaxPostsPerMonth: &zero, MaxBrands: 1}
	t.Cleanup(func() { plans.PlanLimits[plans.Free] = orig })

	usage := newFakeUsageRepo()
	s := newTestUsageService(usage, newFakeUserRepo(), newFakeBrandRepo())

	check := s.CheckAndIncrement(context.Background(), 1, plans.Free)
	if check.Allowed || check.Used != 0 || *check.Remaining != 0 || check.Reason != reasonLimitNoUsage {
		t.Fatalf("check = %+v", check)
	}
	if usage.incCall != 0 {
		t.Fatalf("Increment called %d times", usage.incCall)
	}
}

func TestCheckAndIncrement_ConcurrentNeverExceedsLimit(t *testing.T) {
	usage := newFakeUsageRepo()
	s := newTestUsageService(usage, newFakeUserRepo(), newFakeBrandRepo())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CheckAndIncrement(context.Background(), 4, plans.Free).Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 30 {
		t.Fatalf("allowed = %d, want 30", allowed)
	}
}

func TestResolvePlan(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{ID: 1, Plan: "studio_max"},
		&models.User{ID: 2, Plan: ""},
	)
	s := newTestUsageService(newFakeUsageRepo(), users, newFakeBrandRepo())

	if p := s.ResolvePlan(context.Background(), 1); p != plans.StudioMax {
		t.Errorf("ResolvePlan(1) = %q", p)
	}
	if p := s.ResolvePlan(context.Background(), 2); p != plans.Free {
		t.Errorf("ResolvePlan(2) = %q", p)
	}
	if p := s.ResolvePlan(context.Background(), 3); p != plans.Free {
		t.Errorf("ResolvePlan(missing) = %q", p)
	}
}

func TestGetUsageInfo(t *testing.T) {
	usage := newFakeUsageRepo()
	usage.rows[usageKey{1, PeriodStart(fixedNow)}] = 12
	usage.rows[usageKey{1, PeriodStart(fixedNow).AddDate(0, -1, 0)}] = 99
	users := newFakeUserRepo(&models.User{ID: 1, Plan: "pro"})
	brands := newFakeBrandRepo(&models.Brand{ID: 1, UserID: 1}, &models.Brand{ID: 2, UserID: 1}, &models.Brand{ID: 3, UserID: 2})
	s := newTestUsageService(usage, users, brands)

	info, err := s.GetUsageInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUsageInfo: %v", err)
	}
	if info.Plan != "pro" || info.MaxBrands != 3 || *info.MaxPostsPerMonth != 300 {
		t.Errorf("limits = %+v", info)
	}
	if info.PostsUsedThisMonth != 12 || info.BrandsCount != 2 {
		t.Errorf("usage = %+v", info)
	}
}
