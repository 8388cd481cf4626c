package enums

import "fmt"

// SizeMode distinguishes standard sizing kits from per-finger measurements.
type SizeMode string

const (
	SizeModeStandard SizeMode = "standard"
	SizeModePerSet   SizeMode = "per_set"
)

var validSizeModes = []SizeMode{
	SizeModeStandard,
	SizeModePerSet,
}

// String implements fmt.Stringer.
func (s SizeMode) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SizeMode.
func (s SizeMode) IsValid() bool {
	for _, candidate := range validSizeModes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSizeMode converts raw input into a SizeMode.
func ParseSizeMode(value string) (SizeMode, error) {
	for _, candidate := range validSizeModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size mode %q", value)
}
