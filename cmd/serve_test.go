package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelm/study-cli/internal/ask"
	"github.com/pagelm/study-cli/internal/llm"
	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/plan"
	"github.com/pagelm/study-cli/internal/podcast"
	"github.com/pagelm/study-cli/internal/snippet"
)

// stubGateway implements llm.Gateway with a fixed generation.
type stubGateway struct {
	generation any
	err        error
}

func (g *stubGateway) Invoke(context.Context, []model.ConversationMessage) (any, error) {
	return g.generation, g.err
}

// stubStore implements snippet.Store over a fixed result set.
type stubStore struct {
	results []snippet.Snippet
}

func (s *stubStore) Add(context.Context, []snippet.Snippet) error { return nil }
func (s *stubStore) Search(context.Context, string, string, int) ([]snippet.Snippet, error) {
	return s.results, nil
}
func (s *stubStore) Count(context.Context, string) (int, error) { return len(s.results), nil }
func (s *stubStore) Migrate(context.Context) error              { return nil }
func (s *stubStore) Close() error                               { return nil }

func testEnv(gateway llm.Gateway) *env {
	store := &stubStore{results: []snippet.Snippet{{Text: "entropy measures disorder"}}}
	runner := plan.NewRunner(
		snippet.NewSearchTool(store),
		podcast.NewScriptTool(gateway),
	)
	return &env{
		Store:   store,
		Gateway: gateway,
		Ask:     ask.NewOrchestrator(runner, gateway, nil),
		Podcast: podcast.NewOrchestrator(runner, gateway, nil),
	}
}

const answerJSON = `{"topic":"Entropy","answer":"Entropy measures disorder.","flashcards":[{"q":"What is entropy?","a":"A measure of disorder."}]}`

func TestServeHealth(t *testing.T) {
	router := newRouter(testEnv(&stubGateway{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeRequestIDHonored(t *testing.T) {
	router := newRouter(testEnv(&stubGateway{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}

func TestServeAsk(t *testing.T) {
	router := newRouter(testEnv(&stubGateway{generation: answerJSON}))

	body := strings.NewReader(`{"question":"what is entropy?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload model.AskPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Entropy", payload.Topic)
	assert.Len(t, payload.Flashcards, 1)
}

func TestServeAskValidation(t *testing.T) {
	router := newRouter(testEnv(&stubGateway{}))

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`not json`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeAskUpstreamFailure(t *testing.T) {
	router := newRouter(testEnv(&stubGateway{err: errors.New("api down")}))

	body := strings.NewReader(`{"question":"what is entropy?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServePodcastScript(t *testing.T) {
	scriptJSON := `{"title":"T","summary":"S","segments":[{"spk":"A","md":"hello"},{"spk":"B","md":"hi"}]}`
	router := newRouter(testEnv(&stubGateway{generation: scriptJSON}))

	body := strings.NewReader(`{"material":"some study notes","topic":"entropy"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/podcast/script", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var script model.PodcastScript
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &script))
	assert.Len(t, script.Segments, 2)
}

func TestServePodcastScriptValidation(t *testing.T) {
	router := newRouter(testEnv(&stubGateway{}))

	req := httptest.NewRequest(http.MethodPost, "/api/podcast/script", strings.NewReader(`{"topic":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
