package uploads_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/uploads"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
)

func TestValidatorRejectsNonPositiveCap(t *testing.T) {
	t.Parallel()

	_, err := uploads.NewValidator(0)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v, err := uploads.NewValidator(1024)
	require.NoError(t, err)

	tests := []struct {
		name     string
		fileName string
		data     []byte
		wantErr  bool
	}{
		{"valid png", "inspo.png", []byte{0x89, 0x50}, false},
		{"valid uppercase jpg", "REF.JPG", []byte{0xFF, 0xD8}, false},
		{"blank name", "  ", []byte{0x01}, true},
		{"no extension", "inspo", []byte{0x01}, true},
		{"unsupported format", "design.pdf", []byte{0x25}, true},
		{"empty data", "inspo.png", nil, true},
		{"over the cap", "big.png", bytes.Repeat([]byte{0x01}, 1025), true},
		{"exactly at the cap", "fits.png", bytes.Repeat([]byte{0x01}, 1024), false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.fileName, tc.data)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			coded := pkgerrors.As(err)
			require.NotNil(t, coded)
			assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
		})
	}
}
