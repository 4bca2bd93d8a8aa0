package model

type PlanType string

const (
	PlanFree PlanType = "free"
	PlanPro  PlanType = "pro"
)

// PlanInfo is the remote-computed snapshot of a user's subscription tier,
// monthly cap, used count and remaining allowance, as returned by the
// get_user_plan_info database function.
type PlanInfo struct {
	PlanType             PlanType
	Status               string
	MonthlyLimit         int
	CurrentCount         int
	RemainingGenerations int
	SubscriptionActive   bool
}

// FreePlanInfo is the fallback shape used when the database function returns
// no row for a user. Both the POST and GET try-on paths share it.
func FreePlanInfo(monthlyLimit int) *PlanInfo {
	return &PlanInfo{
		PlanType:             PlanFree,
		Status:               "free",
		MonthlyLimit:         monthlyLimit,
		CurrentCount:         0,
		RemainingGenerations: monthlyLimit,
		SubscriptionActive:   false,
	}
}

func (p *PlanInfo) HasReachedLimit() bool { return p.RemainingGenerations <= 0 }
