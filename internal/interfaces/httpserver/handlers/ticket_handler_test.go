package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConversation(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/api/chat/send", map[string]interface{}{
		"userId":  "user-1",
		"message": "I need help",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ConversationID string `json:"conversationId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.ConversationID
}

func TestCreateTicketEndpoint(t *testing.T) {
	engine, store := newTestRouter(t, &MockProvider{})
	convID := createConversation(t, engine)

	recorder := doJSON(t, engine, http.MethodPost, "/api/tickets/create", map[string]interface{}{
		"conversationId": convID,
		"subject":        "Cannot log in",
		"description":    "Password reset loop",
		"priority":       "high",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID           string `json:"id"`
			TicketNumber string `json:"ticketNumber"`
			Priority     string `json:"priority"`
			Status       string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Regexp(t, `^TKT-\d{8}-\d{4}$`, resp.Data.TicketNumber)
	assert.Equal(t, "high", resp.Data.Priority)
	assert.Equal(t, "open", resp.Data.Status)

	// Escalation is visible through the store.
	conv, err := store.GetConversation(context.Background(), convID)
	require.NoError(t, err)
	assert.Equal(t, "escalated", string(conv.Status))
}

func TestCreateTicketEndpoint_UnknownConversation(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	recorder := doJSON(t, engine, http.MethodPost, "/api/tickets/create", map[string]interface{}{
		"conversationId": "missing",
		"subject":        "subject",
		"description":    "description",
	})
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "Conversation not found", resp.Error)
}

func TestCreateTicketEndpoint_InvalidPriority(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	recorder := doJSON(t, engine, http.MethodPost, "/api/tickets/create", map[string]interface{}{
		"conversationId": "conv-1",
		"subject":        "subject",
		"description":    "description",
		"priority":       "catastrophic",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetTicketEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})
	convID := createConversation(t, engine)

	createRec := doJSON(t, engine, http.MethodPost, "/api/tickets/create", map[string]interface{}{
		"conversationId": convID,
		"subject":        "subject",
		"description":    "description",
	})
	require.Equal(t, http.StatusOK, createRec.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	recorder := doJSON(t, engine, http.MethodGet, "/api/tickets/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, engine, http.MethodGet, "/api/tickets/missing", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
