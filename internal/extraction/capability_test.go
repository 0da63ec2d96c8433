package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteText(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"total\": 42}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		TextModel: "parser-small",
	})

	content, err := c.CompleteText(context.Background(), "system prompt", "page text")
	require.NoError(t, err)
	assert.Equal(t, `{"total": 42}`, content)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "parser-small", gotBody["model"])

	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
}

func TestCompleteVisionEncodesPages(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", VisionModel: "parser-vision"})
	_, err := c.CompleteVision(context.Background(), "sys", "extract", []string{"AAAA", "BBBB"})
	require.NoError(t, err)

	messages := gotBody["messages"].([]interface{})
	userContent := messages[1].(map[string]interface{})["content"].([]interface{})
	// One text part plus one image part per page.
	require.Len(t, userContent, 3)
	img := userContent[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.Equal(t, "data:application/pdf;base64,AAAA", img["url"])
}

func TestCompleteRequiresCredential(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://localhost:0"})
	_, err := c.CompleteText(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential not configured")
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.CompleteText(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.CompleteText(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
