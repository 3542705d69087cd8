package impl

import (
	"testing"

	domainerrors "dinein/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_RegistersPhoneTag(t *testing.T) {
	var validate *validator.Validate
	require.NotPanics(t, func() { validate = newValidator() })

	assert.NoError(t, validate.Var("+919876543210", "phone"))
	assert.Error(t, validate.Var("12-34", "phone"))
}

func TestNormalizePhone(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "9876543210", want: "+919876543210"},
		{raw: "98765 43210", want: "+919876543210"},
		{raw: "\t+1 555 123 4567\n", want: "+15551234567"},
		{raw: "+447911123456", want: "+447911123456"},
		{raw: "987654321", wantErr: true},
		{raw: "98765-43210", wantErr: true},
		{raw: "++919876543210", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizePhone(validate, tt.raw, "+91")

			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrValidation)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateOTP(t *testing.T) {
	validate := newValidator()

	assert.NoError(t, validateOTP(validate, "123456", 6))
	assert.Error(t, validateOTP(validate, "12345", 6))
	assert.Error(t, validateOTP(validate, "12345a", 6))
	assert.NoError(t, validateOTP(validate, "1234", 4))
}

func TestCountdown(t *testing.T) {
	var c countdown
	assert.True(t, c.ready())

	c.start(2)
	assert.False(t, c.ready())
	assert.Equal(t, 1, c.tick())
	assert.Equal(t, 0, c.tick())
	assert.Equal(t, 0, c.tick())
	assert.True(t, c.ready())

	c.start(-3)
	assert.True(t, c.ready())
}
