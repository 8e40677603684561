package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func TestEntryTypeHandler_Create(t *testing.T) {
	t.Run("Success: 201 with slug id and coerced points", func(t *testing.T) {
		api := setupAPI()

		var created domain.EntryType
		api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{
			"title":         "Morning Run",
			"routine":       "weekly",
			"defaultPoints": "2",
		}, http.StatusCreated, &created)

		assert.Equal(t, "morning-run", created.ID)
		assert.Equal(t, domain.RoutineWeekly, created.Routine)
		assert.Equal(t, domain.Points(2), created.DefaultPoints)
		assert.Equal(t, domain.Points(1), created.PointStep)
	})

	t.Run("Fail: 409 when the title is taken", func(t *testing.T) {
		api := setupAPI()
		api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Read"}, http.StatusCreated, nil)

		w := api.do(http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "read!"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Success: Same title for another user", func(t *testing.T) {
		api := setupAPI()
		api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Read"}, http.StatusCreated, nil)
		api.mustDo(t, http.MethodPost, "/entry-types", "user-2", map[string]any{"title": "Read"}, http.StatusCreated, nil)
	})

	t.Run("Fail: 400 on validation errors", func(t *testing.T) {
		api := setupAPI()

		cases := []map[string]any{
			{"routine": "daily"},
			{"title": "Read", "routine": "yearly"},
			{"title": "Read", "themeColors": []string{"red", "#000000"}},
			{"title": "!!!"},
		}
		for _, body := range cases {
			w := api.do(http.MethodPost, "/entry-types", "user-1", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		}
	})

	t.Run("Fail: 401 without user", func(t *testing.T) {
		api := setupAPI()

		w := api.do(http.MethodPost, "/entry-types", "", map[string]any{"title": "Read"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEntryTypeHandler_List(t *testing.T) {
	api := setupAPI()
	api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Read"}, http.StatusCreated, nil)
	api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Gym"}, http.StatusCreated, nil)

	for _, day := range []string{"2024-01-01T10:00:00Z", "2024-01-02T10:00:00Z"} {
		api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{
			"entryTypeId": "gym", "createdAt": day,
		}, http.StatusCreated, nil)
	}

	t.Run("Success: Creation order by default", func(t *testing.T) {
		var list []domain.EntryType
		api.mustDo(t, http.MethodGet, "/entry-types", "user-1", nil, http.StatusOK, &list)

		require.Len(t, list, 2)
		assert.Equal(t, "read", list[0].ID)
	})

	t.Run("Success: Ranked by total entries", func(t *testing.T) {
		var list []domain.EntryType
		api.mustDo(t, http.MethodGet, "/entry-types?sort=rank", "user-1", nil, http.StatusOK, &list)

		require.Len(t, list, 2)
		assert.Equal(t, "gym", list[0].ID)
		assert.Equal(t, "read", list[1].ID)
	})

	t.Run("Success: Empty list for another user", func(t *testing.T) {
		var list []domain.EntryType
		api.mustDo(t, http.MethodGet, "/entry-types", "user-2", nil, http.StatusOK, &list)

		assert.Empty(t, list)
	})
}

func TestEntryTypeHandler_Update(t *testing.T) {
	t.Run("Success: Rename moves the id and its entries", func(t *testing.T) {
		api := setupAPI()
		api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Read"}, http.StatusCreated, nil)
		api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{
			"entryTypeId": "read", "createdAt": "2024-01-01T10:00:00Z",
		}, http.StatusCreated, nil)

		var updated domain.EntryType
		api.mustDo(t, http.MethodPut, "/entry-types/read", "user-1", map[string]any{
			"title": "Read Books", "pointStep": 0.5,
		}, http.StatusOK, &updated)

		assert.Equal(t, "read-books", updated.ID)
		assert.Equal(t, domain.Points(0.5), updated.PointStep)

		api.mustDo(t, http.MethodGet, "/entry-types/read", "user-1", nil, http.StatusNotFound, nil)

		var m domain.EntryInstancesMap
		api.mustDo(t, http.MethodGet, "/entries", "user-1", nil, http.StatusOK, &m)
		require.Len(t, m["2024-01-01"], 1)
		assert.Equal(t, "read-books", m["2024-01-01"][0].EntryTypeID)
	})

	t.Run("Fail: 409 when renaming onto another type", func(t *testing.T) {
		api := setupAPI()
		api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Read"}, http.StatusCreated, nil)
		api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Gym"}, http.StatusCreated, nil)

		w := api.do(http.MethodPut, "/entry-types/read", "user-1", map[string]any{"title": "GYM"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail: 404 for unknown type", func(t *testing.T) {
		api := setupAPI()

		w := api.do(http.MethodPut, "/entry-types/nope", "user-1", map[string]any{"title": "x"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEntryTypeHandler_Delete(t *testing.T) {
	api := setupAPI()
	api.mustDo(t, http.MethodPost, "/entry-types", "user-1", map[string]any{"title": "Read"}, http.StatusCreated, nil)
	api.mustDo(t, http.MethodPost, "/entries", "user-1", map[string]any{"entryTypeId": "read"}, http.StatusCreated, nil)

	api.mustDo(t, http.MethodDelete, "/entry-types/read", "user-1", nil, http.StatusNoContent, nil)

	api.mustDo(t, http.MethodGet, "/entry-types/read", "user-1", nil, http.StatusNotFound, nil)

	var m domain.EntryInstancesMap
	api.mustDo(t, http.MethodGet, "/entries", "user-1", nil, http.StatusOK, &m)
	assert.Empty(t, m)

	api.mustDo(t, http.MethodDelete, "/entry-types/read", "user-1", nil, http.StatusNotFound, nil)
}
