package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datarw/internal/config"
	"datarw/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.AI.BaseURL = srv.URL
	cfg.AI.APIKey = "test-key"
	cfg.AI.TimeoutSec = 5
	return NewHTTPClient(cfg)
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestGenerateSurveyParsesFencedDraft(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		chatReply(t, w, "```json\n{\"title\":\"Water access\",\"questions\":[{\"id\":\"q1\",\"text\":\"Do you have tap water?\",\"type\":\"single_choice\",\"options\":[\"Yes\",\"No\"]}]}\n```")
	})

	draft, err := client.GenerateSurvey(context.Background(), "water", 5, "en")
	require.NoError(t, err)
	assert.Equal(t, "Water access", draft.Title)
	require.Len(t, draft.Questions, 1)
	assert.Equal(t, model.QuestionSingleChoice, draft.Questions[0].Type)
}

func TestGenerateSurveyRejectsEmptyDraft(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"title":"Empty","questions":[]}`)
	})

	_, err := client.GenerateSurvey(context.Background(), "water", 5, "en")
	assert.ErrorContains(t, err, "no questions")
}

func TestTranslateTexts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `["Bonjour","Au revoir"]`)
	})

	out, err := client.TranslateTexts(context.Background(), []string{"Hello", "Goodbye"}, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour", "Au revoir"}, out)
}

func TestTranslateTextsLengthMismatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `["Bonjour"]`)
	})

	_, err := client.TranslateTexts(context.Background(), []string{"Hello", "Goodbye"}, "fr")
	assert.ErrorContains(t, err, "2 texts")
}

func TestTranslateTextsEmptyInput(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	out, err := client.TranslateTexts(context.Background(), nil, "fr")
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.False(t, called)
}

func TestRetriesServerErrors(t *testing.T) {
	var attempts int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		chatReply(t, w, `["Oui"]`)
	})

	out, err := client.TranslateTexts(context.Background(), []string{"Yes"}, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Oui"}, out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model not found", "type": "invalid_request_error"},
		})
	})

	_, err := client.TranslateTexts(context.Background(), []string{"Yes"}, "fr")
	assert.ErrorContains(t, err, "model not found")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestMissingAPIKey(t *testing.T) {
	cfg := config.New()
	cfg.AI.APIKey = ""
	client := NewHTTPClient(cfg)

	_, err := client.GenerateSurvey(context.Background(), "water", 5, "en")
	assert.ErrorContains(t, err, "AI_API_KEY")
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `["x"]`, extractJSON("Here you go: [\"x\"] hope that helps"))
	assert.Equal(t, "no json here", extractJSON("no json here"))
}
