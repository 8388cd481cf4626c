package enums

import "fmt"

// PromoType identifies how a promo code discounts an order.
type PromoType string

const (
	PromoTypePercentage     PromoType = "percentage"
	PromoTypeFixedAmount    PromoType = "fixed_amount"
	PromoTypeFreeShipping   PromoType = "free_shipping"
	PromoTypeFreeOrder      PromoType = "free_order"
	PromoTypeFixedPriceItem PromoType = "fixed_price_item"
)

var validPromoTypes = []PromoType{
	PromoTypePercentage,
	PromoTypeFixedAmount,
	PromoTypeFreeShipping,
	PromoTypeFreeOrder,
	PromoTypeFixedPriceItem,
}

// String implements fmt.Stringer.
func (p PromoType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromoType.
func (p PromoType) IsValid() bool {
	for _, candidate := range validPromoTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromoType converts raw input into a PromoType.
func ParsePromoType(value string) (PromoType, error) {
	for _, candidate := range validPromoTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo type %q", value)
}
