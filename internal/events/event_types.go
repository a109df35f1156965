package events

import (
	"time"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRefreshed EventType = "token_refreshed"
	EventPolicyCreated  EventType = "policy_created"
	EventPolicyUpdated  EventType = "policy_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginPayload describes login attempts. PersonID is empty on failure so
// the audit trail never confirms account existence.
type LoginPayload struct {
	Email    string `json:"email"`
	PersonID string `json:"person_id,omitempty"`
}

// TokenRefreshedPayload describes a successful token re-issuance.
type TokenRefreshedPayload struct {
	Email     string    `json:"email"`
	PersonID  string    `json:"person_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PolicyChangedPayload describes a policy create or update.
type PolicyChangedPayload struct {
	Profile            string `json:"profile"`
	ActorID            string `json:"actor_id"`
	TokenExpirationMin int64  `json:"token_expiration_min"`
}

// NewPolicyChangedPayload builds the payload from a policy and the acting
// principal id.
func NewPolicyChangedPayload(policy domain.TokenLifetimePolicy, actorID string) PolicyChangedPayload {
	return PolicyChangedPayload{
		Profile:            policy.Profile.Description(),
		ActorID:            actorID,
		TokenExpirationMin: policy.TokenExpirationMin,
	}
}
