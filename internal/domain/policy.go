package domain

import (
	"errors"
	"time"
)

// minuteMillis converts stored minutes to the millisecond values exposed
// to API consumers.
const minuteMillis = 60_000

// TokenLifetimePolicy configures the token lifecycle for one profile.
// All durations are stored in minutes.
type TokenLifetimePolicy struct {
	Profile             Profile
	TokenExpirationMin  int64
	WarnBeforeExpiryMin int64
	WarningDialogMin    int64
	RefreshIntervalMin  int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks the four mandatory durations.
func (p TokenLifetimePolicy) Validate() error {
	if !p.Profile.Valid() {
		return errors.New("policy profile is unknown")
	}
	if p.TokenExpirationMin <= 0 {
		return errors.New("token expiration must be positive")
	}
	if p.WarnBeforeExpiryMin <= 0 {
		return errors.New("warn-before-expiry must be positive")
	}
	if p.WarningDialogMin <= 0 {
		return errors.New("warning dialog duration must be positive")
	}
	if p.RefreshIntervalMin <= 0 {
		return errors.New("refresh interval must be positive")
	}
	return nil
}

// TokenExpirationMillis returns the token lifetime in milliseconds.
func (p TokenLifetimePolicy) TokenExpirationMillis() int64 {
	return p.TokenExpirationMin * minuteMillis
}

// WarnBeforeExpiryMillis returns the warning lead time in milliseconds.
func (p TokenLifetimePolicy) WarnBeforeExpiryMillis() int64 {
	return p.WarnBeforeExpiryMin * minuteMillis
}

// WarningDialogMillis returns the warning dialog duration in milliseconds.
func (p TokenLifetimePolicy) WarningDialogMillis() int64 {
	return p.WarningDialogMin * minuteMillis
}

// RefreshIntervalMillis returns the proactive refresh interval in milliseconds.
func (p TokenLifetimePolicy) RefreshIntervalMillis() int64 {
	return p.RefreshIntervalMin * minuteMillis
}

// TokenExpiration returns the token lifetime as a duration.
func (p TokenLifetimePolicy) TokenExpiration() time.Duration {
	return time.Duration(p.TokenExpirationMin) * time.Minute
}

// PolicyView is a policy together with its provenance. The ROOT policy is
// synthesized from process configuration and never persisted; every other
// profile's policy comes from storage. Keeping the flag on the value lets
// callers distinguish the two without re-deriving it.
type PolicyView struct {
	TokenLifetimePolicy
	Synthetic bool
}

// StoredPolicy wraps a persisted policy as a view.
func StoredPolicy(p TokenLifetimePolicy) PolicyView {
	return PolicyView{TokenLifetimePolicy: p}
}

// SyntheticPolicy wraps a configuration-derived policy as a view.
func SyntheticPolicy(p TokenLifetimePolicy) PolicyView {
	return PolicyView{TokenLifetimePolicy: p, Synthetic: true}
}
