package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validPolicy() TokenLifetimePolicy {
	return TokenLifetimePolicy{
		Profile:             ProfileAdmin,
		TokenExpirationMin:  60,
		WarnBeforeExpiryMin: 5,
		WarningDialogMin:    1,
		RefreshIntervalMin:  30,
	}
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, validPolicy().Validate())

	cases := map[string]func(*TokenLifetimePolicy){
		"zero token expiration":     func(p *TokenLifetimePolicy) { p.TokenExpirationMin = 0 },
		"negative warn lead":        func(p *TokenLifetimePolicy) { p.WarnBeforeExpiryMin = -1 },
		"zero warning dialog":       func(p *TokenLifetimePolicy) { p.WarningDialogMin = 0 },
		"negative refresh interval": func(p *TokenLifetimePolicy) { p.RefreshIntervalMin = -5 },
		"unknown profile":           func(p *TokenLifetimePolicy) { p.Profile = Profile(9) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			policy := validPolicy()
			mutate(&policy)
			require.Error(t, policy.Validate())
		})
	}
}

func TestPolicyMillisConversion(t *testing.T) {
	policy := validPolicy()

	require.Equal(t, int64(3_600_000), policy.TokenExpirationMillis())
	require.Equal(t, int64(300_000), policy.WarnBeforeExpiryMillis())
	require.Equal(t, int64(60_000), policy.WarningDialogMillis())
	require.Equal(t, int64(1_800_000), policy.RefreshIntervalMillis())
	require.Equal(t, time.Hour, policy.TokenExpiration())
}

func TestPolicyViews(t *testing.T) {
	stored := StoredPolicy(validPolicy())
	require.False(t, stored.Synthetic)

	synthetic := SyntheticPolicy(validPolicy())
	require.True(t, synthetic.Synthetic)
}
