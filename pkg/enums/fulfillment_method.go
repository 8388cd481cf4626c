package enums

import "fmt"

// FulfillmentMethod identifies how a finished order reaches the customer.
type FulfillmentMethod string

const (
	FulfillmentMethodPickup       FulfillmentMethod = "pickup"
	FulfillmentMethodShipping     FulfillmentMethod = "shipping"
	FulfillmentMethodLocalCourier FulfillmentMethod = "local_courier"
)

var validFulfillmentMethods = []FulfillmentMethod{
	FulfillmentMethodPickup,
	FulfillmentMethodShipping,
	FulfillmentMethodLocalCourier,
}

// String implements fmt.Stringer.
func (f FulfillmentMethod) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentMethod.
func (f FulfillmentMethod) IsValid() bool {
	for _, candidate := range validFulfillmentMethods {
		if candidate == f {
			return true
		}
	}
	return false
}

// RequiresAddress reports whether the method implies physical transport.
func (f FulfillmentMethod) RequiresAddress() bool {
	return f == FulfillmentMethodShipping || f == FulfillmentMethodLocalCourier
}

// ParseFulfillmentMethod converts raw input into a FulfillmentMethod.
func ParseFulfillmentMethod(value string) (FulfillmentMethod, error) {
	for _, candidate := range validFulfillmentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment method %q", value)
}
