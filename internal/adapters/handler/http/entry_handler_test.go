package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func setupWithType(t *testing.T) *testAPI {
	api := setupAPI()
	api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{
		"title": "Read", "defaultPoints": 3,
	}, http.StatusCreated, nil)
	return api
}

func TestEntryHandler_Create(t *testing.T) {
	t.Run("Success: 201 with the type's default points", func(t *testing.T) {
		api := setupWithType(t)

		var entry domain.EntryInstance
		api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{
			"entryTypeId": "read", "notes": " chapter 3 ",
		}, http.StatusCreated, &entry)

		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, domain.Points(3), entry.Points)
		assert.Equal(t, "chapter 3", entry.Notes)
		assert.Equal(t, 1, entry.Version)
	})

	t.Run("Success: Explicit points as a string", func(t *testing.T) {
		api := setupWithType(t)

		var entry domain.EntryInstance
		api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{
			"entryTypeId": "read", "points": "1.5",
		}, http.StatusCreated, &entry)

		assert.Equal(t, domain.Points(1.5), entry.Points)
	})

	t.Run("Fail: 404 for unknown entry type", func(t *testing.T) {
		api := setupWithType(t)

		w := api.do(http.MethodPost, "/entries", "user-1", map[string]any{"entryTypeId": "gym"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 400 on negative points", func(t *testing.T) {
		api := setupWithType(t)

		w := api.do(http.MethodPost, "/entries", "user-1", map[string]any{"entryTypeId": "read", "points": -1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 without entry type", func(t *testing.T) {
		api := setupWithType(t)

		w := api.do(http.MethodPost, "/entries", "user-1", map[string]any{"notes": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEntryHandler_Map(t *testing.T) {
	api := setupWithType(t)
	api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{
		"entryTypeId": "read", "createdAt": "2024-01-10T23:30:00Z",
	}, http.StatusCreated, nil)

	t.Run("Success: Keyed by UTC day by default", func(t *testing.T) {
		var m domain.EntryInstancesMap
		api.mustDo(t, http.MethodGet, "/entries", "user-1", nil, http.StatusOK, &m)

		assert.Len(t, m["2024-01-10"], 1)
	})

	t.Run("Success: Keyed by local day with tz", func(t *testing.T) {
		var m domain.EntryInstancesMap
		api.mustDo(t, http.MethodGet, "/entries?tz=Europe/Rome", "user-1", nil, http.StatusOK, &m)

		assert.Len(t, m["2024-01-11"], 1)
		assert.NotContains(t, m, "2024-01-10")
	})

	t.Run("Fail: 400 on unknown tz", func(t *testing.T) {
		w := api.do(http.MethodGet, "/entries?tz=Mars/Olympus", "user-1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEntryHandler_Update(t *testing.T) {
	create := func(t *testing.T, api *testAPI) domain.EntryInstance {
		var entry domain.EntryInstance
		api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{"entryTypeId": "read"}, http.StatusCreated, &entry)
		return entry
	}

	t.Run("Success: 200 and version bump", func(t *testing.T) {
		api := setupWithType(t)
		entry := create(t, api)

		var updated domain.EntryInstance
		api.mustDo(t, http.MethodPut, "/entries/"+entry.ID, "user-1", map[string]any{
			"points": 5, "notes": "done", "version": 1,
		}, http.StatusOK, &updated)

		assert.Equal(t, domain.Points(5), updated.Points)
		assert.Equal(t, "done", updated.Notes)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Fail: 409 on stale version", func(t *testing.T) {
		api := setupWithType(t)
		entry := create(t, api)
		api.mustDo(t, http.MethodPut, "/entries/"+entry.ID, "user-1", map[string]any{"notes": "a", "version": 1}, http.StatusOK, nil)

		w := api.do(http.MethodPut, "/entries/"+entry.ID, "user-1", map[string]any{"notes": "b", "version": 1})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "version conflict")
	})

	t.Run("Fail: 403 for another user's entry", func(t *testing.T) {
		api := setupWithType(t)
		entry := create(t, api)

		w := api.do(http.MethodPut, "/entries/"+entry.ID, "user-2", map[string]any{"notes": "x", "version": 1})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Fail: 404 for unknown entry", func(t *testing.T) {
		api := setupWithType(t)

		w := api.do(http.MethodPut, "/entries/missing", "user-1", map[string]any{"notes": "x", "version": 1})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEntryHandler_DeleteAndSync(t *testing.T) {
	api := setupWithType(t)

	var entry domain.EntryInstance
	api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{"entryTypeId": "read"}, http.StatusCreated, &entry)

	api.mustDo(t, http.MethodDelete, "/entries/"+entry.ID, "user-1", nil, http.StatusNoContent, nil)
	api.mustDo(t, http.MethodGet, "/entries/"+entry.ID, "user-1", nil, http.StatusNotFound, nil)

	t.Run("Success: Sync returns the tombstone", func(t *testing.T) {
		var resp struct {
			Changes []domain.EntryInstance `json:"changes"`
		}
		api.mustDo(t, http.MethodGet, "/entries/sync?since=2000-01-01T00:00:00Z", "user-1", nil, http.StatusOK, &resp)

		require.Len(t, resp.Changes, 1)
		assert.Equal(t, entry.ID, resp.Changes[0].ID)
		assert.NotNil(t, resp.Changes[0].DeletedAt)
	})

	t.Run("Fail: 400 on malformed since", func(t *testing.T) {
		w := api.do(http.MethodGet, "/entries/sync?since=yesterday", "user-1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
