package enums

import "fmt"

// ProductionStatus tracks studio-side progress on a paid order.
type ProductionStatus string

const (
	ProductionStatusQueued     ProductionStatus = "queued"
	ProductionStatusInProgress ProductionStatus = "in_progress"
	ProductionStatusReady      ProductionStatus = "ready"
	ProductionStatusShipped    ProductionStatus = "shipped"
	ProductionStatusPickedUp   ProductionStatus = "picked_up"
	ProductionStatusDelivered  ProductionStatus = "delivered"
)

var validProductionStatuses = []ProductionStatus{
	ProductionStatusQueued,
	ProductionStatusInProgress,
	ProductionStatusReady,
	ProductionStatusShipped,
	ProductionStatusPickedUp,
	ProductionStatusDelivered,
}

// String implements fmt.Stringer.
func (p ProductionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductionStatus.
func (p ProductionStatus) IsValid() bool {
	for _, candidate := range validProductionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductionStatus converts raw input into a ProductionStatus.
func ParseProductionStatus(value string) (ProductionStatus, error) {
	for _, candidate := range validProductionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid production status %q", value)
}
