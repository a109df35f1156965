package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// PolicyRequest carries the four policy durations in minutes, matching how
// they are stored.
type PolicyRequest struct {
	Profile             string `json:"profile"`
	TokenExpirationMin  int64  `json:"token_expiration_minutes"`
	WarnBeforeExpiryMin int64  `json:"warn_before_expiry_minutes"`
	WarningDialogMin    int64  `json:"warning_dialog_minutes"`
	RefreshIntervalMin  int64  `json:"refresh_interval_minutes"`
}

// ToPolicy converts the request into a domain policy for the resolved
// profile.
func (r PolicyRequest) ToPolicy(profile domain.Profile) domain.TokenLifetimePolicy {
	return domain.TokenLifetimePolicy{
		Profile:             profile,
		TokenExpirationMin:  r.TokenExpirationMin,
		WarnBeforeExpiryMin: r.WarnBeforeExpiryMin,
		WarningDialogMin:    r.WarningDialogMin,
		RefreshIntervalMin:  r.RefreshIntervalMin,
	}
}

// PolicyResponse exposes durations to consumers in milliseconds.
type PolicyResponse struct {
	Profile            string    `json:"profile"`
	TokenExpirationMs  int64     `json:"token_expiration_ms"`
	WarnBeforeExpiryMs int64     `json:"warn_before_expiry_ms"`
	WarningDialogMs    int64     `json:"warning_dialog_ms"`
	RefreshIntervalMs  int64     `json:"refresh_interval_ms"`
	Synthetic          bool      `json:"synthetic"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

// NewPolicyResponse converts a policy view.
func NewPolicyResponse(view domain.PolicyView) PolicyResponse {
	return PolicyResponse{
		Profile:            view.Profile.Description(),
		TokenExpirationMs:  view.TokenExpirationMillis(),
		WarnBeforeExpiryMs: view.WarnBeforeExpiryMillis(),
		WarningDialogMs:    view.WarningDialogMillis(),
		RefreshIntervalMs:  view.RefreshIntervalMillis(),
		Synthetic:          view.Synthetic,
		CreatedAt:          view.CreatedAt,
		UpdatedAt:          view.UpdatedAt,
	}
}

// ExistsResponse reports whether a policy is configured.
type ExistsResponse struct {
	Profile string `json:"profile"`
	Exists  bool   `json:"exists"`
}

// ExpirationResponse exposes the token lifetime in milliseconds.
type ExpirationResponse struct {
	Profile      string `json:"profile"`
	ExpirationMs int64  `json:"expiration_ms"`
}
