package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) string {
	return fmt.Sprintf(`{"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %q}}]}`, content)
}

func TestSummarizer_Summarize(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completion("A song about commitment."))
	}))
	defer srv.Close()

	s := NewSummarizer(Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "gpt-4o-mini", MaxTranscriptChars: 1000})
	summary, err := s.Summarize(context.Background(), "Never gonna give you up...", model.SummaryOptions{
		Style: model.StyleBullets, MaxLength: 120, Language: "German",
	})
	require.NoError(t, err)
	assert.Equal(t, "A song about commitment.", summary)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "German")
	assert.Contains(t, got.Messages[0].Content, "120 words")
	assert.Equal(t, "Never gonna give you up...", got.Messages[1].Content)
}

func TestSummarizer_UpstreamFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "overloaded", "type": "server_error"}}`)
	}))
	defer srv.Close()

	s := NewSummarizer(Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "gpt-4o-mini"})
	_, err := s.Summarize(context.Background(), "text", model.SummaryOptions{Style: model.StyleBrief, MaxLength: 250, Language: "English"})

	assert.Equal(t, apperror.KindSummarizationFailed, apperror.KindOf(err))
	assert.Equal(t, 1, calls, "no retry on failure")
}

func TestSummarizer_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completion("  "))
	}))
	defer srv.Close()

	s := NewSummarizer(Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "gpt-4o-mini"})
	_, err := s.Summarize(context.Background(), "text", model.SummaryOptions{Style: model.StyleBrief, MaxLength: 250, Language: "English"})
	assert.Equal(t, apperror.KindSummarizationFailed, apperror.KindOf(err))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short text", Truncate("short text", 100))
	assert.Equal(t, "anything", Truncate("anything", 0))

	out := Truncate("alpha beta gamma delta", 13)
	assert.Equal(t, "alpha beta"+truncationMarker, out)

	long := strings.Repeat("ü", 50)
	out = Truncate(long, 10)
	assert.Equal(t, strings.Repeat("ü", 10)+truncationMarker, out)
	assert.True(t, utf8.ValidString(out))
}

func TestSystemPrompt_Styles(t *testing.T) {
	for _, style := range []model.SummaryStyle{model.StyleBrief, model.StyleDetailed, model.StyleBullets, model.StyleChapters} {
		prompt, err := SystemPrompt(model.SummaryOptions{Style: style, MaxLength: 300, Language: "French"})
		require.NoError(t, err)
		assert.Contains(t, prompt, "French", style)
		assert.Contains(t, prompt, "300 words", style)
	}
}
