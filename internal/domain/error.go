package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidToken         = errors.New("invalid authentication token")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrQuotaExceeded        = errors.New("generation limit exceeded")
	ErrProhibitedContent    = errors.New("content flagged as inappropriate by AI service")
	ErrNotConfigured        = errors.New("service not configured")
	ErrGenerationBusy       = errors.New("another generation is already in progress")
	ErrOperationFailed      = errors.New("operation failed")
)

// LimitExceededError carries the plan snapshot that triggered a quota
// rejection so handlers can build the 402 body.
type LimitExceededError struct {
	PlanType     string
	MonthlyLimit int
	CurrentCount int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("generation limit exceeded (%d/%d, plan %s)", e.CurrentCount, e.MonthlyLimit, e.PlanType)
}

func (e *LimitExceededError) Unwrap() error { return ErrQuotaExceeded }

// UpgradeMessage is the human-readable text returned alongside a 402.
func (e *LimitExceededError) UpgradeMessage() string {
	hint := "Your Pro limit will reset next month."
	if e.PlanType == "free" {
		hint = "Please upgrade to Pro for 200 monthly generations."
	}
	return fmt.Sprintf("You have reached your monthly limit of %d generations. %s", e.MonthlyLimit, hint)
}
