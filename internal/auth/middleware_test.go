package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

type stubPersonRepo struct {
	people map[string]*domain.Person // keyed by email
}

func (s *stubPersonRepo) GetByID(_ context.Context, id string) (*domain.Person, error) {
	for _, person := range s.people {
		if person.ID == id {
			copied := *person
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubPersonRepo) GetByEmail(_ context.Context, email string) (*domain.Person, error) {
	person, ok := s.people[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *person
	return &copied, nil
}

func (s *stubPersonRepo) UpdatePasswordHash(_ context.Context, _, _ string) error {
	return nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGuardedApp(codec *TokenCodec, persons *stubPersonRepo) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})

	middleware := NewMiddleware(codec, persons)
	app.Get("/protected", middleware.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.JSON(fiber.Map{
			"email":   principal.Email,
			"profile": principal.Profile.Description(),
			"theme":   principal.Theme,
		})
	})
	app.Get("/root-only", middleware.Handle, RequireProfile(domain.ProfileRoot), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func guardedRequest(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	codec := NewTokenCodec("unit-test-secret")
	persons := &stubPersonRepo{people: map[string]*domain.Person{}}
	app := newGuardedApp(codec, persons)

	resp := guardedRequest(t, app, "/protected", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)

	resp = guardedRequest(t, app, "/protected", "Token abc")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
}

func TestMiddlewareRejectsInvalidAndExpiredTokens(t *testing.T) {
	codec := NewTokenCodec("unit-test-secret")
	person := testPerson()
	persons := &stubPersonRepo{people: map[string]*domain.Person{person.Email: person}}
	app := newGuardedApp(codec, persons)

	resp := guardedRequest(t, app, "/protected", "Bearer not.a.token")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)

	expired, _, err := codec.Sign(person, -time.Minute)
	require.NoError(t, err)
	resp = guardedRequest(t, app, "/protected", "Bearer "+expired)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
}

func TestMiddlewareRejectsRemovedSubject(t *testing.T) {
	codec := NewTokenCodec("unit-test-secret")
	persons := &stubPersonRepo{people: map[string]*domain.Person{}}
	app := newGuardedApp(codec, persons)

	token, _, err := codec.Sign(testPerson(), time.Hour)
	require.NoError(t, err)

	resp := guardedRequest(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
}

func TestMiddlewareLoadsPrincipal(t *testing.T) {
	codec := NewTokenCodec("unit-test-secret")
	person := testPerson()
	person.Theme = "indigoPink"
	persons := &stubPersonRepo{people: map[string]*domain.Person{person.Email: person}}
	app := newGuardedApp(codec, persons)

	token, _, err := codec.Sign(person, time.Hour)
	require.NoError(t, err)

	resp := guardedRequest(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, person.Email, body["email"])
	require.Equal(t, "ROLE_ADMIN", body["profile"])
	require.Equal(t, "indigoPink", body["theme"])
}

func TestRequireProfileSeparatesForbiddenFromUnauthorized(t *testing.T) {
	codec := NewTokenCodec("unit-test-secret")
	admin := testPerson()
	root := &domain.Person{
		ID:      "person-2",
		Name:    "Root",
		Email:   "root@helpdesk.test",
		Profile: domain.ProfileRoot,
	}
	persons := &stubPersonRepo{people: map[string]*domain.Person{
		admin.Email: admin,
		root.Email:  root,
	}}
	app := newGuardedApp(codec, persons)

	// no token at all: authentication failure
	resp := guardedRequest(t, app, "/root-only", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// authenticated but not root: authorization failure
	adminToken, _, err := codec.Sign(admin, time.Hour)
	require.NoError(t, err)
	resp = guardedRequest(t, app, "/root-only", "Bearer "+adminToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)

	rootToken, _, err := codec.Sign(root, time.Hour)
	require.NoError(t, err)
	resp = guardedRequest(t, app, "/root-only", "Bearer "+rootToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
