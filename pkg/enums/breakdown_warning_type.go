package enums

// BreakdownWarningType classifies non-fatal issues found while pricing a draft.
type BreakdownWarningType string

const (
	BreakdownWarningTypeUnknownShape      BreakdownWarningType = "unknown_shape"
	BreakdownWarningTypeQuantityDefaulted BreakdownWarningType = "quantity_defaulted"
	BreakdownWarningTypeSpeedDefaulted    BreakdownWarningType = "speed_defaulted"
	BreakdownWarningTypeInvalidPromo      BreakdownWarningType = "invalid_promo"
)

// String implements fmt.Stringer.
func (b BreakdownWarningType) String() string {
	return string(b)
}
