package enums

import "fmt"

// CheckoutStatus tracks a single checkout attempt against the payment provider.
type CheckoutStatus string

const (
	CheckoutStatusSessionCreated CheckoutStatus = "session_created"
	CheckoutStatusConfirmed      CheckoutStatus = "confirmed"
	CheckoutStatusOrderFinalized CheckoutStatus = "order_finalized"
	CheckoutStatusAbandoned      CheckoutStatus = "abandoned"
)

var validCheckoutStatuses = []CheckoutStatus{
	CheckoutStatusSessionCreated,
	CheckoutStatusConfirmed,
	CheckoutStatusOrderFinalized,
	CheckoutStatusAbandoned,
}

// String implements fmt.Stringer.
func (c CheckoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStatus.
func (c CheckoutStatus) IsValid() bool {
	for _, candidate := range validCheckoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutStatus converts raw input into a CheckoutStatus.
func ParseCheckoutStatus(value string) (CheckoutStatus, error) {
	for _, candidate := range validCheckoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout status %q", value)
}
