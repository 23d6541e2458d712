package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keyloom/keyloom"
	"github.com/keyloom/keyloom/internal/adapters/memory"
	"github.com/keyloom/keyloom/internal/logging"
	"github.com/keyloom/keyloom/internal/testutils"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, genOpts ...keyloom.Option) http.Handler {
	t.Helper()
	s := NewServer(memory.NewStore(), logging.NewNop(), genOpts...)
	return s.Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGenerateEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/generate", GenerateRequest{Modes: []string{"numeric"}, Length: ptr(4)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Regexp(t, `^[0-9]{4}$`, resp.Key)
	assert.Equal(t, 10, resp.AlphabetSize)
	assert.Len(t, resp.Steps, 4)
	assert.Empty(t, resp.SessionID, "no session requested")
	assert.Equal(t, resp.Key, resp.Tree.Yield())
}

func TestGenerateDefaultLength(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/generate", GenerateRequest{Modes: []string{"alphanumeric"}})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Key, 16)
}

func TestGenerateValidationErrors(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		body GenerateRequest
	}{
		{"Explicit Zero Length", GenerateRequest{Modes: []string{"numeric"}, Length: ptr(0)}},
		{"Negative Length", GenerateRequest{Modes: []string{"numeric"}, Length: ptr(-2)}},
		{"Empty Modes", GenerateRequest{Modes: []string{}}},
		{"Unknown Mode", GenerateRequest{Modes: []string{"bogus"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, handler, "/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestSessionReplayFlow(t *testing.T) {
	handler := newTestHandler(t, keyloom.WithSource(&testutils.ScriptedSource{
		Values: []int{1, 2, 3, 4},
	}))

	rr := postJSON(t, handler, "/generate", GenerateRequest{
		Modes: []string{"numeric"}, Length: ptr(4), Session: true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "1234", resp.Key)

	// Full log and partial snapshots are served from the recording.
	req := httptest.NewRequest("GET", "/sessions/"+resp.SessionID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for k := 0; k <= 4; k++ {
		req := httptest.NewRequest("GET", fmt.Sprintf("/sessions/%s/snapshot/%d", resp.SessionID, k), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "k=%d", k)

		var snap struct {
			Yield    string `json:"yield"`
			Resolved int    `json:"resolved"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Equal(t, "1234"[:k], snap.Yield)
		assert.Equal(t, k, snap.Resolved)
	}

	// Out of range snapshot.
	req = httptest.NewRequest("GET", "/sessions/"+resp.SessionID+"/snapshot/9", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete, then the session is gone.
	req = httptest.NewRequest("DELETE", "/sessions/"+resp.SessionID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest("GET", "/sessions/"+resp.SessionID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsStreamDeliversDraws(t *testing.T) {
	handler := newTestHandler(t, keyloom.WithSource(&testutils.ScriptedSource{
		Values: []int{1, 2, 3, 4},
	}))
	srv := httptest.NewServer(handler)
	defer srv.Close()

	// The client picks the session ID so it can subscribe before generating.
	const sessionID = "live-stream-session"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?session_id="+sessionID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				events <- line
			}
		}
		close(events)
	}()

	// The ping confirms the subscription is registered before any draw.
	require.Equal(t, "connected", <-events)

	rr := postJSON(t, handler, "/generate", GenerateRequest{
		Modes: []string{"numeric"}, Length: ptr(4), SessionID: sessionID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var genResp GenerateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &genResp))
	assert.Equal(t, sessionID, genResp.SessionID)

	var draws []string
	for done := false; !done; {
		select {
		case <-ctx.Done():
			t.Fatalf("timed out after %d draw events", len(draws))
		case msg := <-events:
			var e struct {
				Type string      `json:"type"`
				Step domain.Step `json:"step"`
			}
			require.NoError(t, json.Unmarshal([]byte(msg), &e))
			switch e.Type {
			case "draw":
				draws = append(draws, e.Step.Char)
			case "complete":
				done = true
			}
		}
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, draws, "every draw must reach the subscriber")

	// The recording is available for snapshots under the same ID.
	sreq := httptest.NewRequest("GET", "/sessions/"+sessionID, nil)
	srec := httptest.NewRecorder()
	handler.ServeHTTP(srec, sreq)
	assert.Equal(t, http.StatusOK, srec.Code)
}

func TestSessionNotFound(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/sessions/nope", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEntropyEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/entropy", EntropyRequest{Key: "aB3!", AlphabetSize: 88})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Entropy    float64 `json:"entropy"`
		MaxEntropy float64 `json:"max_entropy"`
		Tier       string  `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.InDelta(t, 2.0, resp.Entropy, 1e-9)
	assert.Equal(t, "weak", resp.Tier)

	rr = postJSON(t, handler, "/entropy", EntropyRequest{Key: "", AlphabetSize: 10})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetHealth(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/info", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		App     string   `json:"app"`
		Version string   `json:"version"`
		Modes   []string `json:"modes"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "keyloom-http", resp.App)
	assert.NotEmpty(t, resp.Version)
	assert.Contains(t, resp.Modes, "symbolic")
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	// Generate once so the counter has a sample.
	postJSON(t, handler, "/generate", GenerateRequest{Modes: []string{"numeric"}})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "keyloom_generations_total")
}

func ptr[T any](v T) *T {
	return &v
}
