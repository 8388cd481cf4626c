// Package uploads validates design reference art before it is persisted.
// Every upload belongs to exactly one nail set; duplication always copies
// bytes under fresh identities, never shares rows.
package uploads

import (
	"fmt"
	"path/filepath"
	"strings"

	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".heic": {},
}

// Validator enforces the upload size and format rules.
type Validator struct {
	maxBytes int
}

// NewValidator builds a validator with the configured size cap.
func NewValidator(maxBytes int) (*Validator, error) {
	if maxBytes < 1 {
		return nil, fmt.Errorf("upload max bytes must be positive, got %d", maxBytes)
	}
	return &Validator{maxBytes: maxBytes}, nil
}

// Validate checks one upload. The returned errors are coded validation
// errors suitable for the response envelope.
func (v *Validator) Validate(fileName string, data []byte) error {
	if strings.TrimSpace(fileName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "upload file name is required")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported upload format %q", ext))
	}
	if len(data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "upload is empty")
	}
	if len(data) > v.maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("upload exceeds the %d byte limit", v.maxBytes))
	}
	return nil
}

// MaxBytes returns the configured cap.
func (v *Validator) MaxBytes() int {
	return v.maxBytes
}
