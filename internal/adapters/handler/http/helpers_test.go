package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-diary/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
	"github.com/comitanigiacomo/kanso-diary/internal/core/workers"
)

type testAPI struct {
	router  *gin.Engine
	types   *repository.InMemoryEntryTypeRepository
	entries *repository.InMemoryEntryRepository
	backups *repository.InMemoryBackupRepository
}

// setupAPI mounts every protected handler on in-memory repositories. The
// user id comes from the X-User-ID header instead of a token.
func setupAPI() *testAPI {
	gin.SetMode(gin.TestMode)

	api := &testAPI{
		types:   repository.NewInMemoryEntryTypeRepository(),
		entries: repository.NewInMemoryEntryRepository(),
		backups: repository.NewInMemoryBackupRepository(),
	}
	worker := workers.NewBackupWorker(api.types, api.entries, nil, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	v1 := r.Group("/api/v1")
	adapterHTTP.NewEntryTypeHandler(services.NewEntryTypeService(api.types, api.entries, worker)).RegisterRoutes(v1)
	adapterHTTP.NewEntryHandler(services.NewEntryService(api.entries, api.types, worker)).RegisterRoutes(v1)
	adapterHTTP.NewStatsHandler(services.NewStatsService(api.types, api.entries)).RegisterRoutes(v1)
	adapterHTTP.NewBackupHandler(services.NewBackupService(api.backups, api.types, api.entries, worker)).RegisterRoutes(v1)

	api.router = r
	return api
}

func (a *testAPI) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// mustDo fails the test unless the response has the wanted status, and
// decodes the body into out when given.
func (a *testAPI) mustDo(t *testing.T, method, path, userID string, body any, want int, out any) {
	t.Helper()
	w := a.do(method, path, userID, body)
	require.Equal(t, want, w.Code, w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
}
