package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(t *testing.T, inner FallbackResponse) []byte {
	t.Helper()
	innerJSON, err := json.Marshal(inner)
	require.NoError(t, err)

	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": string(innerJSON)},
					},
				},
			},
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

func TestGeminiResolve(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiReply(t, FallbackResponse{
			SelectedBranchID:  "br-lc",
			EstimatedDistance: "~3 km",
			Reasoning:         "Kho gần nhất theo khoảng cách lái xe.",
		}))
	}))
	defer server.Close()

	resolver := NewGeminiResolver(GeminiConfig{APIKey: "test-key", BaseURL: server.URL}, nil)

	resp, err := resolver.Resolve(context.Background(), "123 Tôn Đức Thắng, Đà Nẵng", []Candidate{
		{ID: "br-lc", Address: "123 Nguyễn Sinh Sắc, Liên Chiểu"},
		{ID: "br-cl", Address: "45 Trường Chinh, Cẩm Lệ"},
	})
	require.NoError(t, err)

	assert.Equal(t, "br-lc", resp.SelectedBranchID)
	assert.Equal(t, "~3 km", resp.EstimatedDistance)
	assert.Contains(t, gotPath, "models/gemini-2.5-flash:generateContent")
	assert.Contains(t, gotPath, "key=test-key")

	require.Len(t, gotBody.Contents, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "123 Tôn Đức Thắng, Đà Nẵng")
	assert.Contains(t, prompt, "ID: br-lc | Address: 123 Nguyễn Sinh Sắc, Liên Chiểu")
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
}

func TestGeminiResolveServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := NewGeminiResolver(GeminiConfig{APIKey: "k", BaseURL: server.URL}, nil)
	_, err := resolver.Resolve(context.Background(), "ha noi", nil)
	assert.Error(t, err)
}

func TestGeminiResolveMalformedModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"not json at all"}]}}]}`))
	}))
	defer server.Close()

	resolver := NewGeminiResolver(GeminiConfig{APIKey: "k", BaseURL: server.URL}, nil)
	_, err := resolver.Resolve(context.Background(), "ha noi", nil)
	assert.Error(t, err)
}

func TestGeminiResolveContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	resolver := NewGeminiResolver(GeminiConfig{APIKey: "k", BaseURL: server.URL}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := resolver.Resolve(ctx, "ha noi", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeminiResolveContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	resolver := NewGeminiResolver(GeminiConfig{APIKey: "k", BaseURL: server.URL}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := resolver.Resolve(ctx, "ha noi", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
