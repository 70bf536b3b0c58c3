package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/practice"
	"github.com/Anwar-Qureshi/SkillBridge/internal/questionbank"
)

const (
	questionText  = "Tell me about a time you improved system performance."
	shortAnswer   = "We had a problem."
	clarification = "I implemented a cache and latency was reduced by 40%."
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newAPIServer(t).Routes()
}

func newAPIServer(t *testing.T) *Server {
	t.Helper()
	bank, err := questionbank.New([]dataset.Question{
		{ID: "q1", Text: questionText, Difficulty: dataset.Medium, ModelAnswer: "S: slow API. T: speed it up. A: cache. R: 40% faster."},
	})
	require.NoError(t, err)

	scorer := evaluator.New(dataset.DefaultRubric(), nil, nil)
	synth := coach.New(dataset.Templates{}, nil, nil, nil)
	runner := practice.New(bank, scorer, synth, nil, nil)
	return NewServer(bank, scorer, synth, runner, nil)
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w, out := do(t, h, http.MethodPost, "/api/sessions", map[string]string{"user": "ada"})
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := out["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealthz(t *testing.T) {
	w, out := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])
}

func TestScore(t *testing.T) {
	w, out := do(t, newTestServer(t), http.MethodPost, "/api/score", map[string]string{
		"question": questionText,
		"answer":   "I implemented a caching layer that reduced latency by 40%.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.EqualValues(t, 90, out["structure"])
	assert.EqualValues(t, 90, out["star_structure"])
	assert.Equal(t, "none", out["structure_issue"])
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "clarification_needed")
	assert.Contains(t, out, "diagnostics")
}

func TestScore_InvalidJSON(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedback(t *testing.T) {
	h := newTestServer(t)

	w, out := do(t, h, http.MethodPost, "/api/feedback", map[string]string{
		"question_id": "q1",
		"answer":      "I implemented a caching layer for our API.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	fb := out["feedback"].(map[string]any)
	assert.Equal(t, "S: slow API. T: speed it up. A: cache. R: 40% faster.", fb["model_answer"])
	for _, key := range []string{"improvement_bullet", "practice_prompt", "personalized_coaching", "ideal_answer"} {
		assert.NotEmpty(t, fb[key], key)
	}
	eval := out["evaluation"].(map[string]any)
	assert.Equal(t, "missing_result", eval["structure_issue"])

	w, _ = do(t, h, http.MethodPost, "/api/feedback", map[string]string{"question_id": "nope", "answer": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, h, http.MethodPost, "/api/feedback", map[string]string{"answer": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, http.MethodPost, "/api/feedback", map[string]string{"question": questionText, "answer": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionFlow(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	w, _ := do(t, h, http.MethodPost, "/api/sessions/"+id+"/answer", map[string]string{"answer": shortAnswer})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, out := do(t, h, http.MethodPost, "/api/sessions/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := out["question"].(map[string]any)
	assert.Equal(t, "q1", q["id"])
	assert.NotContains(t, q, "model_answer")

	w, _ = do(t, h, http.MethodPost, "/api/sessions/"+id+"/answer", map[string]string{"answer": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = do(t, h, http.MethodPost, "/api/sessions/"+id+"/answer", map[string]string{"answer": shortAnswer})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Can you clarify the specific actions you personally took?", out["clarification_prompt"])
	assert.NotContains(t, out, "turn")

	w, out = do(t, h, http.MethodPost, "/api/sessions/"+id+"/clarify", map[string]string{"clarification": clarification})
	require.Equal(t, http.StatusOK, w.Code)
	turn := out["turn"].(map[string]any)
	assert.Equal(t, true, turn["clarified"])
	assert.Equal(t, shortAnswer+" "+clarification, turn["answer"])
	assert.InDelta(t, 61.9, turn["evaluation"].(map[string]any)["total"], 1e-9)

	w, _ = do(t, h, http.MethodPost, "/api/sessions/"+id+"/clarify", map[string]string{"clarification": clarification})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, out = do(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada", out["user"])
	assert.Equal(t, "idle", out["phase"])
	assert.Len(t, out["history"], 1)
	summary := out["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["attempted"])
	assert.InDelta(t, 61.9, summary["average_total"], 1e-9)
}

func TestUnknownSession(t *testing.T) {
	h := newTestServer(t)
	for _, path := range []string{"/api/sessions/missing/next", "/api/sessions/missing/answer"} {
		w, _ := do(t, h, http.MethodPost, path, map[string]string{"answer": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w, _ := do(t, h, http.MethodGet, "/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	w, _ := do(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, out := do(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session not found", out["error"])
}

func TestSweepSessions(t *testing.T) {
	srv := newAPIServer(t)
	h := srv.Routes()
	id := createSession(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.SweepSessions(ctx, time.Millisecond, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		w, _ := do(t, h, http.MethodGet, "/api/sessions/"+id, nil)
		return w.Code == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newTestServer(t)
	a := createSession(t, h)
	b := createSession(t, h)
	require.NotEqual(t, a, b)

	do(t, h, http.MethodPost, "/api/sessions/"+a+"/next", nil)
	_, out := do(t, h, http.MethodPost, "/api/sessions/"+a+"/answer", map[string]string{"answer": shortAnswer})
	require.Contains(t, out, "clarification_prompt")

	_, out = do(t, h, http.MethodGet, "/api/sessions/"+b, nil)
	assert.Equal(t, "idle", out["phase"])
	assert.NotContains(t, out, "current_question_id")
}

func TestConcurrentSessions(t *testing.T) {
	h := newTestServer(t)
	ids := make([]string, 8)
	for i := range ids {
		ids[i] = createSession(t, h)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for range 3 {
				req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/next", nil)
				h.ServeHTTP(httptest.NewRecorder(), req)

				body := bytes.NewBufferString(`{"answer":"I led the effort to add a cache, and the result was that latency was reduced by 40% for our users."}`)
				req = httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/answer", body)
				req.Header.Set("Content-Type", "application/json")
				h.ServeHTTP(httptest.NewRecorder(), req)
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		_, out := do(t, h, http.MethodGet, "/api/sessions/"+id, nil)
		assert.Len(t, out["history"], 3, id)
	}
}
