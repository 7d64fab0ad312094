package enums

import "fmt"

// ShippingStatus tracks a shipping request through its lifecycle.
type ShippingStatus string

const (
	ShippingStatusPending    ShippingStatus = "PENDING"
	ShippingStatusProcessing ShippingStatus = "PROCESSING"
	ShippingStatusShipped    ShippingStatus = "SHIPPED"
	ShippingStatusDelivered  ShippingStatus = "DELIVERED"
	ShippingStatusCancelled  ShippingStatus = "CANCELLED"
)

var validShippingStatuses = []ShippingStatus{
	ShippingStatusPending,
	ShippingStatusProcessing,
	ShippingStatusShipped,
	ShippingStatusDelivered,
	ShippingStatusCancelled,
}

// String implements fmt.Stringer.
func (s ShippingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingStatus.
func (s ShippingStatus) IsValid() bool {
	for _, candidate := range validShippingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the request lifecycle.
func (s ShippingStatus) IsTerminal() bool {
	return s == ShippingStatusDelivered || s == ShippingStatusCancelled
}

// RequiresShippedCards reports whether cards on the request must carry the
// shipped flag once this status is reached.
func (s ShippingStatus) RequiresShippedCards() bool {
	return s == ShippingStatusShipped || s == ShippingStatusDelivered
}

// ParseShippingStatus converts raw input into a ShippingStatus.
func ParseShippingStatus(value string) (ShippingStatus, error) {
	for _, candidate := range validShippingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping status %q", value)
}
