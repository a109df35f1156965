package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-admin/internal/cache"
	"github.com/spec-kit/helpdesk-admin/internal/config"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/events"
	"github.com/spec-kit/helpdesk-admin/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// Actor identifies the caller of a privileged operation.
type Actor struct {
	PersonID string
	Profile  domain.Profile
}

// PolicyService manages token-lifetime policies. Policies for non-root
// profiles live in storage; the root profile's policy is synthesized from
// the configuration snapshot taken at construction and is never persisted
// or mutable.
type PolicyService struct {
	policies   repository.PolicyRepository
	cache      *cache.PolicyCache
	dispatcher events.Dispatcher
	rootPolicy domain.TokenLifetimePolicy
}

// PolicyDependencies encapsulates collaborator requirements.
type PolicyDependencies struct {
	PolicyRepo repository.PolicyRepository
	Cache      *cache.PolicyCache
	Dispatcher events.Dispatcher
}

// NewPolicyService builds the service. rootCfg is the immutable source of
// the synthetic root policy.
func NewPolicyService(rootCfg config.RootPolicyConfig, deps PolicyDependencies) *PolicyService {
	return &PolicyService{
		policies:   deps.PolicyRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		rootPolicy: domain.TokenLifetimePolicy{
			Profile:             domain.ProfileRoot,
			TokenExpirationMin:  rootCfg.TokenExpirationMin,
			WarnBeforeExpiryMin: rootCfg.WarnBeforeExpiryMin,
			WarningDialogMin:    rootCfg.WarningDialogMin,
			RefreshIntervalMin:  rootCfg.RefreshIntervalMin,
		},
	}
}

// Create stores a new policy for a non-root profile. The actor gate runs
// before any data validation so privilege failures never leak information
// about payload shape. Uniqueness is enforced by the storage constraint;
// a violation surfaces as DUPLICATE_PROFILE.
func (s *PolicyService) Create(ctx context.Context, actor Actor, policy domain.TokenLifetimePolicy) (*domain.PolicyView, error) {
	if actor.Profile != domain.ProfileRoot {
		return nil, apperrors.NewNotRoot()
	}
	if policy.Profile == domain.ProfileRoot {
		return nil, apperrors.NewInvalidProfile("the root policy is synthetic and cannot be created")
	}
	if err := policy.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.policies.Create(ctx, &policy); err != nil {
		if errors.Is(err, repository.ErrDuplicateProfile) {
			return nil, apperrors.NewDuplicateProfile(policy.Profile.Description())
		}
		return nil, apperrors.MapError(err)
	}

	s.cache.Invalidate(ctx, policy.Profile)
	s.publish(ctx, events.EventPolicyCreated, policy, actor)

	view := domain.StoredPolicy(policy)
	return &view, nil
}

// Update replaces the durations of an existing policy.
func (s *PolicyService) Update(ctx context.Context, actor Actor, profile domain.Profile, policy domain.TokenLifetimePolicy) (*domain.PolicyView, error) {
	if actor.Profile != domain.ProfileRoot {
		return nil, apperrors.NewNotRoot()
	}
	if profile == domain.ProfileRoot {
		return nil, apperrors.NewInvalidProfile("the root policy is synthetic and cannot be updated")
	}
	policy.Profile = profile
	if err := policy.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.policies.Update(ctx, &policy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewProfileNotFound(profile.Description())
		}
		return nil, apperrors.MapError(err)
	}

	s.cache.Invalidate(ctx, profile)
	s.publish(ctx, events.EventPolicyUpdated, policy, actor)

	view := domain.StoredPolicy(policy)
	return &view, nil
}

// FindByProfile returns the policy for a profile. The whole catalog is
// privileged configuration, so the read is root-gated. Root always resolves
// to the synthetic policy regardless of stored data.
func (s *PolicyService) FindByProfile(ctx context.Context, actor Actor, profile domain.Profile) (*domain.PolicyView, error) {
	if actor.Profile != domain.ProfileRoot {
		return nil, apperrors.NewNotRoot()
	}
	if profile == domain.ProfileRoot {
		view := domain.SyntheticPolicy(s.rootPolicy)
		return &view, nil
	}

	policy, err := s.lookup(ctx, profile)
	if err != nil {
		return nil, err
	}
	view := domain.StoredPolicy(*policy)
	return &view, nil
}

// FindAll returns every stored policy with the synthetic root policy
// appended.
func (s *PolicyService) FindAll(ctx context.Context, actor Actor) ([]domain.PolicyView, error) {
	if actor.Profile != domain.ProfileRoot {
		return nil, apperrors.NewNotRoot()
	}

	stored, err := s.policies.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]domain.PolicyView, 0, len(stored)+1)
	for _, policy := range stored {
		views = append(views, domain.StoredPolicy(policy))
	}
	views = append(views, domain.SyntheticPolicy(s.rootPolicy))
	return views, nil
}

// ExistsByProfile reports whether a policy is configured for the profile.
// Deliberately ungated: unauthenticated session-timeout flows need it.
// Root is always configured.
func (s *PolicyService) ExistsByProfile(ctx context.Context, profile domain.Profile) (bool, error) {
	if profile == domain.ProfileRoot {
		return true, nil
	}
	exists, err := s.policies.ExistsByProfile(ctx, profile)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return exists, nil
}

// ExpirationMillis returns the token lifetime of the applicable policy in
// milliseconds. Ungated at this level: token issuance runs before any
// principal exists.
func (s *PolicyService) ExpirationMillis(ctx context.Context, profile domain.Profile) (int64, error) {
	if profile == domain.ProfileRoot {
		return s.rootPolicy.TokenExpirationMillis(), nil
	}
	policy, err := s.lookup(ctx, profile)
	if err != nil {
		return 0, err
	}
	return policy.TokenExpirationMillis(), nil
}

// TokenTTL resolves the token lifetime for a profile, falling back to the
// caller-supplied default when no policy is configured. The fallback is
// explicit so an unconfigured profile can never yield a zero lifetime.
func (s *PolicyService) TokenTTL(ctx context.Context, profile domain.Profile, fallback time.Duration) (time.Duration, error) {
	if profile == domain.ProfileRoot {
		return s.rootPolicy.TokenExpiration(), nil
	}
	policy, err := s.lookup(ctx, profile)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "PROFILE_NOT_FOUND" {
			return fallback, nil
		}
		return 0, err
	}
	return policy.TokenExpiration(), nil
}

func (s *PolicyService) lookup(ctx context.Context, profile domain.Profile) (*domain.TokenLifetimePolicy, error) {
	if cached := s.cache.Get(ctx, profile); cached != nil {
		return cached, nil
	}

	policy, err := s.policies.GetByProfile(ctx, profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewProfileNotFound(profile.Description())
		}
		return nil, apperrors.MapError(err)
	}

	s.cache.Set(ctx, policy)
	return policy, nil
}

func (s *PolicyService) publish(ctx context.Context, eventType events.EventType, policy domain.TokenLifetimePolicy, actor Actor) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, events.NewPolicyChangedPayload(policy, actor.PersonID)))
}
