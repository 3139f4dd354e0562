// Package plan holds the subscription tier table and the advisory quota checks
// consulted before every create operation and by the dashboard to disable
// affordances. Everything here is a pure function of its inputs.
package plan

import (
	"fmt"

	"github.com/gosuda/unistay/internal/domain"
)

// unlimitedThreshold marks ceilings that are displayed as unlimited.
const unlimitedThreshold = 900

// Limits are the numeric ceilings of one tier.
type Limits struct {
	MaxProperties  int `json:"max_properties"`
	MaxTenants     int `json:"max_tenants"`
	MaxAIReminders int `json:"max_ai_reminders"`
}

// Tier describes a plan as offered on the subscription page.
type Tier struct {
	Plan        domain.PlanType `json:"plan"`
	Price       string          `json:"price"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	Limits      Limits          `json:"limits"`
	Recommended bool            `json:"recommended"`
}

//nolint:gochecknoglobals // static tier table
var tiers = []Tier{
	{
		Plan:        domain.PlanBasic,
		Price:       "R29",
		Description: "Ideal for small scale private student accommodation.",
		Features:    []string{"Up to 2 Properties", "Up to 10 Tenants", "Standard Dashboard", "Email Support"},
		Limits:      Limits{MaxProperties: 2, MaxTenants: 10, MaxAIReminders: 5},
	},
	{
		Plan:        domain.PlanStandard,
		Price:       "R59",
		Description: "The standard for growing student housing hosts.",
		Features:    []string{"Up to 5 Properties", "Up to 50 Tenants", "50 AI Reminders/mo", "Revenue Analytics"},
		Limits:      Limits{MaxProperties: 5, MaxTenants: 50, MaxAIReminders: 50},
		Recommended: true,
	},
	{
		Plan:        domain.PlanPro,
		Price:       "R99",
		Description: "Elite management for extensive student portfolios.",
		Features:    []string{"10+ Properties", "Unlimited Tenants", "Unlimited AI Reminders", "Priority 24/7 Support"},
		Limits:      Limits{MaxProperties: 999, MaxTenants: 9999, MaxAIReminders: 9999},
	},
}

// Catalog returns a copy of every tier, lowest first.
func Catalog() []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		t.Features = append([]string(nil), t.Features...)
		out[i] = t
	}
	return out
}

// TierFor returns the catalog entry of p.
func TierFor(p domain.PlanType) (Tier, error) {
	for _, t := range tiers {
		if t.Plan == p {
			t.Features = append([]string(nil), t.Features...)
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("plan %q: %w", p, domain.ErrNotFound)
}

// LimitsFor returns the ceilings of p. Unknown tiers get the BASIC ceilings so
// a corrupted plan value can never unlock more than the lowest tier.
func LimitsFor(p domain.PlanType) Limits {
	t, err := TierFor(p)
	if err != nil {
		return tiers[0].Limits
	}
	return t.Limits
}

// CanCreateProperty reports whether one more property fits the current plan.
func CanCreateProperty(s *domain.State) bool {
	return len(s.Properties) < LimitsFor(s.Subscription.Plan).MaxProperties
}

// CanCreateTenant reports whether one more tenant fits the current plan.
func CanCreateTenant(s *domain.State) bool {
	return len(s.Tenants) < LimitsFor(s.Subscription.Plan).MaxTenants
}

// HasReminderQuota reports whether another AI reminder may be drafted or sent.
func HasReminderQuota(s *domain.State) bool {
	return s.Subscription.AIRemindersUsed < LimitsFor(s.Subscription.Plan).MaxAIReminders
}
