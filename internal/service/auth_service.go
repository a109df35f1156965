package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/config"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/events"
	"github.com/spec-kit/helpdesk-admin/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// AuthService orchestrates credential verification, token issuance and
// token refresh against the person directory.
type AuthService struct {
	persons    repository.PersonRepository
	policies   *PolicyService
	codec      *auth.TokenCodec
	verifier   *auth.CredentialVerifier
	dispatcher events.Dispatcher
	defaultTTL time.Duration
}

// AuthDependencies encapsulates collaborator requirements.
type AuthDependencies struct {
	PersonRepo    repository.PersonRepository
	PolicyService *PolicyService
	Dispatcher    events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	ttl := time.Duration(cfg.DefaultTokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthService{
		persons:    deps.PersonRepo,
		policies:   deps.PolicyService,
		codec:      auth.NewTokenCodec(cfg.JWTSecret),
		verifier:   auth.NewCredentialVerifier(cfg.BcryptCost),
		dispatcher: deps.Dispatcher,
		defaultTTL: ttl,
	}
}

// Authenticate resolves and verifies a credential pair. An unknown email
// and a wrong password produce the same INVALID_CREDENTIALS failure so the
// response never discloses whether the account exists.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Person, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	person, err := s.persons.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publishLogin(ctx, events.EventLoginFailed, email, "")
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}

	if !s.verifier.Matches(password, person.PasswordHash) {
		s.publishLogin(ctx, events.EventLoginFailed, email, "")
		return nil, apperrors.NewInvalidCredentials()
	}

	s.publishLogin(ctx, events.EventLoginSucceeded, email, person.ID)
	return person, nil
}

// IssueToken signs a fresh token for the person. The lifetime comes from
// the token-lifetime policy of the person's profile; profiles without a
// configured policy fall back to the service default.
func (s *AuthService) IssueToken(ctx context.Context, person *domain.Person) (string, time.Time, error) {
	ttl, err := s.policies.TokenTTL(ctx, person.Profile, s.defaultTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.codec.Sign(person, ttl)
}

// Login authenticates and issues a token in one step.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Person, string, time.Time, error) {
	person, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.IssueToken(ctx, person)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return person, token, expiresAt, nil
}

// RefreshToken re-issues a token from a still-valid one. The subject is
// re-resolved so profile changes since issuance are reflected. This is a
// re-issuance, not an extension: the old token stays valid until its own
// expiry.
func (s *AuthService) RefreshToken(ctx context.Context, oldToken string) (string, time.Time, error) {
	if !s.codec.Verify(oldToken) {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid or expired token")
	}

	email := s.codec.ExtractSubject(oldToken)
	person, err := s.persons.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("token subject no longer exists")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}

	token, expiresAt, err := s.IssueToken(ctx, person)
	if err != nil {
		return "", time.Time{}, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventTokenRefreshed, events.TokenRefreshedPayload{
			Email:     person.Email,
			PersonID:  person.ID,
			ExpiresAt: expiresAt,
		}))
	}
	return token, expiresAt, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, personID, currentPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}

	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !s.verifier.Matches(currentPassword, person.PasswordHash) {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := s.verifier.Hash(newPassword)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.persons.UpdatePasswordHash(ctx, personID, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Codec exposes the token codec for middleware usage.
func (s *AuthService) Codec() *auth.TokenCodec {
	return s.codec
}

func (s *AuthService) publishLogin(ctx context.Context, eventType events.EventType, email, personID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, events.LoginPayload{Email: email, PersonID: personID}))
}
