package domain

import (
	"fmt"
	"strings"
)

type PlanType string

const (
	PlanBasic    PlanType = "BASIC"
	PlanStandard PlanType = "STANDARD"
	PlanPro      PlanType = "PRO"
)

// PlanTypes lists the tiers from lowest to highest.
var PlanTypes = []PlanType{PlanBasic, PlanStandard, PlanPro} //nolint:gochecknoglobals // fixed enumeration

// ParsePlan converts a case-insensitive tier name into a PlanType.
func ParsePlan(s string) (PlanType, error) {
	p := PlanType(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PlanBasic, PlanStandard, PlanPro:
		return p, nil
	default:
		return "", fmt.Errorf("plan %q: %w", s, ErrInvalidInput)
	}
}

// Subscription is the operator's single plan record. AIRemindersUsed only grows.
type Subscription struct {
	Plan            PlanType `json:"plan"`
	AIRemindersUsed int      `json:"ai_reminders_used"`
}
