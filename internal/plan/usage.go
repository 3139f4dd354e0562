package plan

import (
	"github.com/gosuda/unistay/internal/domain"
)

// Meter is the consumption of one quota.
type Meter struct {
	Used      int     `json:"used"`
	Limit     int     `json:"limit"`
	Unlimited bool    `json:"unlimited"`
	Percent   float64 `json:"percent"`
	OverLimit bool    `json:"over_limit"`
}

// Usage is the active plan status shown on the subscription page.
type Usage struct {
	Plan        domain.PlanType `json:"plan"`
	Properties  Meter           `json:"properties"`
	Tenants     Meter           `json:"tenants"`
	AIReminders Meter           `json:"ai_reminders"`
}

// UsageOf measures s against its plan. A downgrade can leave a meter over its
// limit; nothing is evicted, creation just stays blocked.
func UsageOf(s *domain.State) Usage {
	l := LimitsFor(s.Subscription.Plan)
	return Usage{
		Plan:        s.Subscription.Plan,
		Properties:  newMeter(len(s.Properties), l.MaxProperties),
		Tenants:     newMeter(len(s.Tenants), l.MaxTenants),
		AIReminders: newMeter(s.Subscription.AIRemindersUsed, l.MaxAIReminders),
	}
}

func newMeter(used, limit int) Meter {
	m := Meter{
		Used:      used,
		Limit:     limit,
		Unlimited: IsUnlimited(limit),
		OverLimit: used > limit,
	}
	if !m.Unlimited && limit > 0 {
		m.Percent = min(100, float64(used)/float64(limit)*100)
	}
	return m
}

// IsUnlimited reports whether a ceiling is large enough to be shown as unlimited.
func IsUnlimited(limit int) bool {
	return limit > unlimitedThreshold
}
