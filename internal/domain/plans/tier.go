package plans

import (
	"errors"
	"strings"
)

// Tier constants (single source of truth)
const (
	TierFree   = "FREE"
	TierNormal = "NORMAL"
	TierPro    = "PRO"
)

const (
	DurationMonth = "month"
	DurationYear  = "year"
)

var ErrInvalidPlan = errors.New("invalid plan tier")

// ParseTier validates a caller-supplied tier name.
func ParseTier(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case TierFree:
		return TierFree, nil
	case TierNormal:
		return TierNormal, nil
	case TierPro:
		return TierPro, nil
	}
	return "", ErrInvalidPlan
}

// NormalizeDuration coerces anything that is not "year" to "month".
func NormalizeDuration(s string) string {
	if strings.ToLower(strings.TrimSpace(s)) == DurationYear {
		return DurationYear
	}
	return DurationMonth
}
