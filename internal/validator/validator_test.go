package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,is-user-role"`
}

type setupInput struct {
	Platforms []string `json:"platforms" validate:"required,min=1,dive,is-platform"`
}

func TestValidate_UserRole(t *testing.T) {
	v := New()

	tests := []struct {
		role  string
		valid bool
	}{
		{"influencer", true},
		{"Advertiser", true},
		{"moderator", false},
		{"unset", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			err := v.Validate(&signUpInput{Email: "a@b.com", Password: "secret1", Role: tt.role})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Errors, "role")
		})
	}
}

func TestValidate_FieldNamesFromJSONTags(t *testing.T) {
	err := New().Validate(&signUpInput{Email: "bad", Password: "123"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors, "password")
	assert.Equal(t, "This field is required", vErr.Errors["role"])
}

func TestValidate_Platforms(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&setupInput{Platforms: []string{"instagram", "TikTok"}}))

	err := v.Validate(&setupInput{Platforms: []string{"instagram", "myspace"}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Errors, 1)

	assert.Error(t, v.Validate(&setupInput{}))
}
