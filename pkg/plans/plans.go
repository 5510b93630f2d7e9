package plans

import "strings"

type Plan string

const (
	Free      Plan = "free"
	Pro       Plan = "pro"
	StudioMax Plan = "studio_max"
)

type Limits struct {
	// MaxPostsPerMonth is nil for unlimited plans.
	MaxPostsPerMonth *int
	MaxBrands        int
}

func intPtr(v int) *int { return &v }

var PlanLimits = map[Plan]Limits{
	Free: {
		MaxPostsPerMonth: intPtr(30),
		MaxBrands:        1,
	},
	Pro: {
		MaxPostsPerMonth: intPtr(300),
		MaxBrands:        3,
	},
	StudioMax: {
		MaxPostsPerMonth: nil,
		MaxBrands:        50,
	},
}

// Normalize maps a stored plan value to a known plan. Anything
// unrecognised, including the empty string, is the free plan.
func Normalize(raw string) Plan {
	p := Plan(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := PlanLimits[p]; ok {
		return p
	}
	return Free
}

func Valid(raw string) bool {
	_, ok := PlanLimits[Plan(strings.ToLower(strings.TrimSpace(raw)))]
	return ok
}

func GetPlanLimits(p Plan) Limits {
	return PlanLimits[Normalize(string(p))]
}

// PostLimit returns a copy of the monthly post limit, nil when unlimited.
func PostLimit(p Plan) *int {
	l := GetPlanLimits(p).MaxPostsPerMonth
	if l == nil {
		return nil
	}
	return intPtr(*l)
}

func MaxBrands(p Plan) int {
	return GetPlanLimits(p).MaxBrands
}

// Prices holds the Stripe price IDs configured for the paid plans.
type Prices struct {
	Pro       string
	StudioMax string
}

// PriceID returns the configured Stripe price for a paid plan.
func (pr Prices) PriceID(p Plan) (string, bool) {
	switch p {
	case Pro:
		return pr.Pro, pr.Pro != ""
	case StudioMax:
		return pr.StudioMax, pr.StudioMax != ""
	default:
		return "", false
	}
}

// DeterminePlan maps a Stripe price ID to a plan. Unknown prices
// resolve to Free; callers that know the customer paid pick their own default.
func (pr Prices) DeterminePlan(priceID string) Plan {
	switch {
	case priceID == "":
		return Free
	case priceID == pr.Pro:
		return Pro
	case priceID == pr.StudioMax:
		return StudioMax
	default:
		return Free
	}
}
