package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

// fakeOpenAI serves /v1/chat/completions with handler and records the last request.
func fakeOpenAI(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) (*httptest.Server, *chatRequest, *int32) {
	t.Helper()
	var (
		last  chatRequest
		calls int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		handler(w, last)
	}))
	t.Cleanup(srv.Close)
	return srv, &last, &calls
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(srv *httptest.Server, factTimeout time.Duration) *Client {
	return NewClient(Config{
		APIKey:          "test-key",
		BaseURL:         srv.URL + "/v1/",
		FactTimeout:     factTimeout,
		ResponseTimeout: time.Second,
	})
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		answer string
		want   Verdict
	}{
		{"OK", Verdict{}},
		{"ok, nothing wrong", Verdict{}},
		{"WARNING: The earth is not flat.", Verdict{Flagged: true, Reason: "The earth is not flat."}},
		{"  WARNING:TCP is connection-oriented", Verdict{Flagged: true, Reason: "TCP is connection-oriented"}},
		{"WARNING:", Verdict{Flagged: true, Reason: "Possible misinformation detected"}},
		{"This has a WARNING: inside", Verdict{}},
		{"\nWARNING: UDP has no handshake", Verdict{Flagged: true, Reason: "UDP has no handshake"}},
		{"warning: lowercase is not the protocol", Verdict{}},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerdict(tt.answer))
		})
	}
}

func TestFactCheck_Flagged(t *testing.T) {
	srv, last, _ := fakeOpenAI(t, func(w http.ResponseWriter, _ chatRequest) {
		writeJSON(w, http.StatusOK, completionBody("WARNING: HTTP 404 means not found, not server error."))
	})
	client := newTestClient(srv, time.Second)

	verdict, err := client.FactCheck(t.Context(), "HTTP 404 is a server error")
	require.NoError(t, err)
	assert.True(t, verdict.Flagged)
	assert.Equal(t, "HTTP 404 means not found, not server error.", verdict.Reason)

	assert.Equal(t, "gpt-3.5-turbo", last.Model)
	assert.Equal(t, factCheckMaxTokens, last.MaxTokens)
	assert.InDelta(t, factCheckTemperature, last.Temperature, 0.0001)
	require.Len(t, last.Messages, 2)
	assert.Equal(t, "system", last.Messages[0].Role)
	assert.Equal(t, factCheckUserPrefix+"HTTP 404 is a server error", last.Messages[1].Content)
}

func TestFactCheck_OK(t *testing.T) {
	srv, _, _ := fakeOpenAI(t, func(w http.ResponseWriter, _ chatRequest) {
		writeJSON(w, http.StatusOK, completionBody("OK"))
	})

	verdict, err := newTestClient(srv, time.Second).FactCheck(t.Context(), "Go has goroutines")
	require.NoError(t, err)
	assert.False(t, verdict.Flagged)
	assert.Empty(t, verdict.Reason)
}

func TestFactCheck_ServerErrorIsNotRetried(t *testing.T) {
	srv, _, calls := fakeOpenAI(t, func(w http.ResponseWriter, _ chatRequest) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"message": "upstream down", "type": "server_error"},
		})
	})

	_, err := newTestClient(srv, time.Second).FactCheck(t.Context(), "anything")
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFactCheck_Timeout(t *testing.T) {
	srv, _, _ := fakeOpenAI(t, func(w http.ResponseWriter, _ chatRequest) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, http.StatusOK, completionBody("OK"))
	})

	start := time.Now()
	_, err := newTestClient(srv, 50*time.Millisecond).FactCheck(t.Context(), "slow")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestGenerateResponse_SendsContext(t *testing.T) {
	srv, last, _ := fakeOpenAI(t, func(w http.ResponseWriter, _ chatRequest) {
		writeJSON(w, http.StatusOK, completionBody("  TCP guarantees ordered delivery.  "))
	})

	answer, err := newTestClient(srv, time.Second).GenerateResponse(t.Context(), "what is TCP?", "Original post: networking basics")
	require.NoError(t, err)
	assert.Equal(t, "TCP guarantees ordered delivery.", answer)

	assert.Equal(t, assistantMaxTokens, last.MaxTokens)
	assert.InDelta(t, assistantTemperature, last.Temperature, 0.0001)
	require.Len(t, last.Messages, 2)
	assert.Equal(t, assistantSystemPrompt+assistantContextPrefix+"Original post: networking basics", last.Messages[0].Content)
	assert.Equal(t, "what is TCP?", last.Messages[1].Content)
}

func TestGenerateResponse_Empty(t *testing.T) {
	srv, _, _ := fakeOpenAI(t, func(w http.ResponseWriter, _ chatRequest) {
		writeJSON(w, http.StatusOK, completionBody("   "))
	})

	_, err := newTestClient(srv, time.Second).GenerateResponse(t.Context(), "q", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.FactCheck(t.Context(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.GenerateResponse(t.Context(), "x", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAssistantPrompt(t *testing.T) {
	assert.Equal(t, assistantSystemPrompt, assistantPrompt(""))
	assert.Contains(t, assistantPrompt("Original post: hi"), "Original post: hi")
}
