package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("http://localhost:8080", "")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = NewClient("not a url", "tok")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/", "tok")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/backups/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req uploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.JSONEq(t, `{"entryTypes":[]}`, string(req.Content))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Backup{ID: "b1", Filename: req.Filename, CreatedAt: created})
	})
	mux.HandleFunc("/api/v1/backups", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.Backup{{ID: "b1", Filename: "a.json"}, {ID: "b2", Filename: "b.json"}})
	})
	mux.HandleFunc("/api/v1/backups/b1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.Backup{ID: "b1", Content: json.RawMessage(`{"entryTypes":[]}`)})
	})
	mux.HandleFunc("/api/v1/backups/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "resource not found"})
	})
	mux.HandleFunc("/api/v1/backups/push", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "tok")
	require.NoError(t, err)

	t.Run("Upload", func(t *testing.T) {
		b, err := c.Upload(ctx, "mine.json", []byte(`{"entryTypes":[]}`))
		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
		assert.Equal(t, "mine.json", b.Filename)
		assert.True(t, created.Equal(b.CreatedAt))
	})

	t.Run("List", func(t *testing.T) {
		list, err := c.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("Download", func(t *testing.T) {
		b, err := c.Download(ctx, "b1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"entryTypes":[]}`, string(b.Content))
	})

	t.Run("Download surfaces the server error", func(t *testing.T) {
		_, err := c.Download(ctx, "missing")
		assert.ErrorContains(t, err, "404")
		assert.ErrorContains(t, err, "resource not found")
	})

	t.Run("Push", func(t *testing.T) {
		assert.NoError(t, c.Push(ctx))
	})

	t.Run("Rejected token", func(t *testing.T) {
		bad, err := NewClient(srv.URL, "other")
		require.NoError(t, err)

		_, err = bad.List(ctx)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
