package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-diary/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
	"github.com/comitanigiacomo/kanso-diary/internal/core/workers"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	types := repository.NewInMemoryEntryTypeRepository()
	entries := repository.NewInMemoryEntryRepository()
	backups := repository.NewInMemoryBackupRepository()
	worker := workers.NewBackupWorker(types, entries, nil, nil)
	tokens := services.NewTokenService("router-secret", "kanso-test", time.Hour, users)

	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(users), tokens),
		EntryTypeHandler: adapterHTTP.NewEntryTypeHandler(services.NewEntryTypeService(types, entries, worker)),
		EntryHandler:     adapterHTTP.NewEntryHandler(services.NewEntryService(entries, types, worker)),
		StatsHandler:     adapterHTTP.NewStatsHandler(services.NewStatsService(types, entries)),
		BackupHandler:    adapterHTTP.NewBackupHandler(services.NewBackupService(backups, types, entries, worker)),
		TokenService:     tokens,
		StartTime:        time.Now(),
	})
}

func send(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	router := setupRouter()

	t.Run("Health without optional backends", func(t *testing.T) {
		w := send(router, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"disabled"`)
		assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	})

	t.Run("Swagger document is served", func(t *testing.T) {
		w := send(router, http.MethodGet, "/swagger/doc.json", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/stats/summary")
	})

	t.Run("CORS preflight", func(t *testing.T) {
		w := send(router, http.MethodOptions, "/api/v1/entries", "", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Protected routes need a token", func(t *testing.T) {
		w := send(router, http.MethodGet, "/api/v1/entry-types", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Register, login and log an entry", func(t *testing.T) {
		creds := map[string]string{"email": "flow@kanso.app", "password": "FlowPassword1"}

		w := send(router, http.MethodPost, "/api/v1/auth/register", "", creds)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = send(router, http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var login struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

		w = send(router, http.MethodPost, "/api/v1/entry-types", login.Token, map[string]any{"title": "Stretch"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = send(router, http.MethodPost, "/api/v1/entries", login.Token, map[string]any{"entryTypeId": "stretch"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = send(router, http.MethodGet, "/api/v1/stats/summary", login.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"current_streak":1`)
	})
}
