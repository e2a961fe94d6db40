package stripe

import (
	"strings"

	"content-restriction/internal/domain/billing"
)

// NormalizePaymentStatus maps a Checkout Session payment_status (plus the session
// status) to the payment lifecycle stored in billing.Payment.
func NormalizePaymentStatus(sessionStatus, paymentStatus string) string {
	switch strings.TrimSpace(paymentStatus) {
	case "paid", "no_payment_required":
		return billing.StatusComplete
	case "unpaid":
		if strings.TrimSpace(sessionStatus) == "expired" {
			return billing.StatusFailed
		}
		return billing.StatusPending
	case "":
		return billing.StatusPending
	default:
		return billing.StatusFailed
	}
}
