package nowpayments

import "strings"

// Gateway statuses that grant entitlement. Everything else is a
// pending or failed notification and must not change plan state.
var confirmedStatuses = map[string]bool{
	"finished":  true,
	"confirmed": true,
}

func IsConfirmed(status string) bool {
	return confirmedStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// NormalizeStatus is used ONLY for logging/display of IPN statuses.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "finished", "confirmed":
		return "confirmed"
	case "waiting", "confirming", "sending", "partially_paid":
		return "pending"
	case "failed", "expired", "refunded":
		return "failed"
	case "":
		return "none"
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}
