package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	recorder := doJSON(t, engine, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Flowise   struct {
			Configured bool `json:"configured"`
		} `json:"flowise"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.Flowise.Configured)

	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}
