package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err   error
	delay time.Duration
}

func (p stubPinger) Ping() error {
	time.Sleep(p.delay)
	return p.err
}

func healthOf(t *testing.T, db Pinger) (int, HealthResponse) {
	t.Helper()
	router := setupTestRouter()
	router.GET("/health", NewSystemHandler("product-service", "1.2.3", db).Health)

	w := performRequest(router, http.MethodGet, "/health", "")
	env := decodeEnvelope(t, w)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, w.Code == http.StatusOK, env.Success)
	return w.Code, resp
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("without database", func(t *testing.T) {
		code, resp := healthOf(t, nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "UP", resp.Status)
		assert.Equal(t, "product-service", resp.Service)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Empty(t, resp.Database)
		assert.NotEmpty(t, resp.GoVersion)
	})

	t.Run("database reachable", func(t *testing.T) {
		code, resp := healthOf(t, stubPinger{})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "UP", resp.Database)
	})

	t.Run("database unreachable", func(t *testing.T) {
		code, resp := healthOf(t, stubPinger{err: errors.New("connection refused")})
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "DOWN", resp.Status)
		assert.Equal(t, "DOWN", resp.Database)
	})
}

func TestPingWithin_Timeout(t *testing.T) {
	err := pingWithin(t.Context(), stubPinger{delay: 200 * time.Millisecond}, 10*time.Millisecond)
	require.Error(t, err)
}
