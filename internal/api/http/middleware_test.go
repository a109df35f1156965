package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

func TestRequestTimeoutBoundsServiceContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 50*time.Millisecond)

	var hasDeadline bool
	app.Get("/work", func(c *fiber.Ctx) error {
		// handlers hand c.UserContext() to the services, so the request
		// timeout must be visible there
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(nethttp.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/work", nil))
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.True(t, hasDeadline)
}

func TestFailedRequestRecordsRealStatus(t *testing.T) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)

	app.Get("/fail", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidCredentials()
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/fail", nil))
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)

	require.Equal(t, int64(1), metrics.RequestCount("/fail", nethttp.MethodGet, nethttp.StatusUnauthorized))
	require.Equal(t, int64(0), metrics.RequestCount("/fail", nethttp.MethodGet, nethttp.StatusOK))
	require.Equal(t, int64(1), metrics.ErrorCount("/fail", nethttp.MethodGet, "INVALID_CREDENTIALS"))
}
