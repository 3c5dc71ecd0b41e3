package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, fields map[string]string, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadEndpoint_Success(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	req := uploadRequest(t, map[string]string{
		"conversationId": "conv-1",
		"messageId":      "msg-1",
	}, "notes.txt", "text/plain", []byte("hello upload"))

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID       string `json:"id"`
			Filename string `json:"filename"`
			FileType string `json:"fileType"`
			URL      string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.Data.ID, "file-"))
	assert.Equal(t, "notes.txt", resp.Data.Filename)
	assert.Equal(t, "text/plain", resp.Data.FileType)
	assert.True(t, strings.HasPrefix(resp.Data.URL, "data:text/plain;base64,"))
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	req := uploadRequest(t, map[string]string{
		"conversationId": "conv-1",
		"messageId":      "msg-1",
	}, "", "", nil)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "No file provided", resp.Error)
}

func TestUploadEndpoint_MissingIdentifiers(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	req := uploadRequest(t, map[string]string{}, "notes.txt", "text/plain", []byte("hello"))

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUploadEndpoint_DisallowedType(t *testing.T) {
	engine, _ := newTestRouter(t, &MockProvider{})

	req := uploadRequest(t, map[string]string{
		"conversationId": "conv-1",
		"messageId":      "msg-1",
	}, "payload.exe", "application/x-msdownload", []byte{0x4d, 0x5a})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "not allowed")
}
