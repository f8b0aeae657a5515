package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Pref   string `json:"notif_preference" validate:"omitempty,is-notif-preference"`
	Role   string `json:"role" validate:"omitempty,is-account-role"`
	Opens  string `json:"open_time" validate:"omitempty,is-clock-time"`
	Rating int    `json:"rating" validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Email: "a@b.kz", Pref: "both", Role: "owner", Opens: "09:30"}))

	err := v.Validate(&sample{Email: "nope", Pref: "pigeon", Role: "root", Opens: "25:00", Rating: -1})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, "Must be a valid email address", verr.Errors["email"])
	assert.Equal(t, "Must be one of: email, sms, both", verr.Errors["notif_preference"])
	assert.Equal(t, "Must be one of: admin, owner, user", verr.Errors["role"])
	assert.Equal(t, "Must be a time in HH:MM format", verr.Errors["open_time"])
	assert.Contains(t, verr.Errors, "rating")
	assert.Contains(t, verr.Error(), "field 'email'")
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(&sample{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"email": "This field is required"}, verr.Errors)
}
