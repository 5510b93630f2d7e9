package service

import (
	"errors"

	"github.com/maheshrc27/flowsocial/internal/transfer"
)

var (
	ErrBrandLimitReached = errors.New("brand limit reached for plan")
	ErrBrandNotFound     = errors.New("brand not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrEmptyPrompt       = errors.New("prompt is required")
	ErrBrandRequired     = errors.New("brand_id is required")
	ErrUpstream          = errors.New("upstream generation failed")
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrBillingDisabled   = errors.New("billing is not configured")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrApiKeyLimit       = errors.New("only 5 API keys can be created")
	ErrApiKeyNotFound    = errors.New("key doesn't exist")
	ErrUserNotFound      = errors.New("user doesn't exist")
	ErrUsageUnavailable  = errors.New("usage could not be verified")
	ErrRenderFailed      = errors.New("post render failed")
)

// LimitReachedError is returned when the usage gate denies a metered call.
// Check carries the structured result for the client.
type LimitReachedError struct {
	Check *transfer.UsageCheck
}

func (e *LimitReachedError) Error() string {
	if e.Check != nil && e.Check.Reason != "" {
		return e.Check.Reason
	}
	return "monthly post limit reached"
}
