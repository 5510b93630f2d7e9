package transfer

// UsageCheck is the outcome of a metered request. Limit and Remaining are
// nil for unlimited plans.
type UsageCheck struct {
	Allowed   bool   `json:"allowed"`
	Plan      string `json:"plan"`
	Used      int    `json:"used"`
	Limit     *int   `json:"limit"`
	Remaining *int   `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
	// Transient marks a denial caused by the usage store rather than the plan.
	Transient bool   `json:"transient,omitempty"`
}

type UsageInfo struct {
	Plan               string `json:"plan"`
	MaxBrands          int    `json:"maxBrands"`
	MaxPostsPerMonth   *int   `json:"maxPostsPerMonth"`
	PostsUsedThisMonth int    `json:"postsUsedThisMonth"`
	BrandsCount        int    `json:"brandsCount"`
}
