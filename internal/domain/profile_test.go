package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileCodesAndDescriptions(t *testing.T) {
	cases := []struct {
		profile     Profile
		code        int
		description string
	}{
		{ProfileRoot, 0, "ROLE_ROOT"},
		{ProfileAdmin, 1, "ROLE_ADMIN"},
		{ProfileClient, 2, "ROLE_CLIENT"},
		{ProfileTechnician, 3, "ROLE_TECHNICIAN"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.code, tc.profile.Code())
		require.Equal(t, tc.description, tc.profile.Description())

		byCode, err := ProfileFromCode(tc.code)
		require.NoError(t, err)
		require.Equal(t, tc.profile, byCode)

		byDesc, err := ProfileFromDescription(tc.description)
		require.NoError(t, err)
		require.Equal(t, tc.profile, byDesc)
	}
}

func TestProfileFromCodeUnknown(t *testing.T) {
	_, err := ProfileFromCode(42)
	require.Error(t, err)

	_, err = ProfileFromCode(-1)
	require.Error(t, err)
}

func TestProfileFromDescriptionUnknown(t *testing.T) {
	_, err := ProfileFromDescription("ROLE_SUPERUSER")
	require.Error(t, err)

	_, err = ProfileFromDescription("")
	require.Error(t, err)
}
