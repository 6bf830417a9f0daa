package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-feed/pkg/simplefeed/config"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.Load(config.WithEnvironment("testing"), config.WithEventLogging(false))
	require.NoError(t, err)
	svc, err := cfg.BuildService()
	require.NoError(t, err)
	return NewHTTPServer(svc, cfg, HTTPConfig{}).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-User-ID", actor)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["database"])

	rr = doJSON(t, h, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestFeedRoundTrip(t *testing.T) {
	h := newTestServer(t)

	var alice, bob struct {
		ID string `json:"id"`
	}
	rr := doJSON(t, h, http.MethodPost, "/api/v1/users", "", map[string]string{"name": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))
	rr = doJSON(t, h, http.MethodPost, "/api/v1/users", "", map[string]string{"name": "bob"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bob))

	rr = doJSON(t, h, http.MethodPost, "/api/v1/users/"+alice.ID+"/follow", bob.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var post struct {
		ID        string `json:"id"`
		LikeCount int    `json:"like_count"`
	}
	rr = doJSON(t, h, http.MethodPost, "/api/v1/posts", alice.ID, map[string]string{"text": "hello followers"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))

	rr = doJSON(t, h, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", bob.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, 1, post.LikeCount)
}
