package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

type fakePersonRepo struct {
	mu     sync.Mutex
	people map[string]*domain.Person // keyed by id
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{people: make(map[string]*domain.Person)}
}

func (f *fakePersonRepo) add(person domain.Person) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.people[person.ID] = &person
}

func (f *fakePersonRepo) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.people, id)
}

func (f *fakePersonRepo) GetByID(_ context.Context, id string) (*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	person, ok := f.people[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *person
	return &copied, nil
}

func (f *fakePersonRepo) GetByEmail(_ context.Context, email string) (*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, person := range f.people {
		if person.Email == email {
			copied := *person
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePersonRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	person, ok := f.people[id]
	if !ok {
		return pgx.ErrNoRows
	}
	person.PasswordHash = passwordHash
	person.UpdatedAt = time.Now()
	return nil
}

type fakePolicyRepo struct {
	mu       sync.Mutex
	policies map[domain.Profile]domain.TokenLifetimePolicy
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: make(map[domain.Profile]domain.TokenLifetimePolicy)}
}

func (f *fakePolicyRepo) Create(_ context.Context, policy *domain.TokenLifetimePolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.policies[policy.Profile]; exists {
		return repository.ErrDuplicateProfile
	}
	now := time.Now()
	policy.CreatedAt = now
	policy.UpdatedAt = now
	f.policies[policy.Profile] = *policy
	return nil
}

func (f *fakePolicyRepo) Update(_ context.Context, policy *domain.TokenLifetimePolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.policies[policy.Profile]
	if !ok {
		return pgx.ErrNoRows
	}
	policy.CreatedAt = existing.CreatedAt
	policy.UpdatedAt = time.Now()
	f.policies[policy.Profile] = *policy
	return nil
}

func (f *fakePolicyRepo) GetByProfile(_ context.Context, profile domain.Profile) (*domain.TokenLifetimePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	policy, ok := f.policies[profile]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := policy
	return &copied, nil
}

func (f *fakePolicyRepo) List(_ context.Context) ([]domain.TokenLifetimePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	policies := make([]domain.TokenLifetimePolicy, 0, len(f.policies))
	for _, policy := range f.policies {
		policies = append(policies, policy)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].Profile.Code() < policies[j].Profile.Code()
	})
	return policies, nil
}

func (f *fakePolicyRepo) ExistsByProfile(_ context.Context, profile domain.Profile) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.policies[profile]
	return ok, nil
}

func requireDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}
