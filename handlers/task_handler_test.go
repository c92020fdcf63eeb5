package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/calendar"
	modelStreak "habitTrackerAPI/internal/types/streak"
	modelTask "habitTrackerAPI/internal/types/task"
)

func TestTaskLifecycle(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"name":    "Morning run",
		"user_id": "u1",
		"date":    "2024-01-02",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created modelTask.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, modelTask.KindRegular, created.Kind)

	rr = doJSON(t, router, http.MethodPatch, "/tasks/"+created.ID.String(), map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/tasks?user_id=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var tasks []modelTask.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	rr = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskValidation(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"user_id": "u1", "date": "2024-01-02",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"name": "No date", "user_id": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskDateFilter(t *testing.T) {
	_, router := newTestRouter()

	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
			"name": "habit", "user_id": "u1", "date": date,
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doJSON(t, router, http.MethodGet, "/tasks?user_id=u1&date=2024-01-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var tasks []modelTask.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "2024-01-01", tasks[0].Date)
}

func seedCompleted(t *testing.T, router http.Handler, userID string, dates ...string) {
	t.Helper()
	for _, date := range dates {
		rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
			"name": "habit", "user_id": userID, "date": date, "completed": true,
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}
}

func TestStreakEndpointGraceDay(t *testing.T) {
	_, router := newTestRouter()
	seedCompleted(t, router, "u1", "2024-01-01", "2024-01-02")

	rr := doJSON(t, router, http.MethodGet, "/tasks/streak/u1?today=2024-01-03", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp modelStreak.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Streak)
	assert.Equal(t, "u1", resp.UserID)
}

func TestStreakEndpointFrozenDay(t *testing.T) {
	_, router := newTestRouter()
	seedCompleted(t, router, "u1", "2024-01-01", "2024-01-02")

	rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"name": "Frozen", "user_id": "u1", "date": "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var marker modelTask.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &marker))
	assert.Equal(t, modelTask.KindFreezeMarker, marker.Kind)

	for _, anchor := range []string{"2024-01-03", "2024-01-04"} {
		rr = doJSON(t, router, http.MethodGet, "/tasks/streak/u1?today="+anchor, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp modelStreak.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Streak, "anchor %s", anchor)
	}
}

func TestStreakEndpointRejectsBadAnchor(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodGet, "/tasks/streak/u1?today=Jan-3", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnfreezeEndpointIdempotent(t *testing.T) {
	_, router := newTestRouter()

	for i := 0; i < 2; i++ {
		rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
			"name": "Frozen", "user_id": "u1", "date": "2024-01-03",
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	for i := 0; i < 2; i++ {
		rr := doJSON(t, router, http.MethodDelete, "/tasks/frozen?user_id=u1&date=2024-01-03", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	rr := doJSON(t, router, http.MethodGet, "/tasks?user_id=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestUnfreezeEndpointRequiresParams(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodDelete, "/tasks/frozen?user_id=u1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalendarEndpoint(t *testing.T) {
	_, router := newTestRouter()
	seedCompleted(t, router, "u1", "2024-01-01", "2024-01-02")

	rr := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"name": "Frozen", "user_id": "u1", "date": "2024-01-03",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/users/u1/calendar?year=2024&month=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp calendar.CalendarResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, 1, resp.Month)
	require.Len(t, resp.Days, 31)

	byDate := map[string]string{}
	for _, d := range resp.Days {
		byDate[d.Date.Format("2006-01-02")] = d.Status
	}
	assert.Equal(t, "completed", byDate["2024-01-01"])
	assert.Equal(t, "completed", byDate["2024-01-02"])
	assert.Equal(t, "frozen", byDate["2024-01-03"])
	assert.Equal(t, "not_completed", byDate["2024-01-04"])
}

func TestCalendarEndpointRejectsBadMonth(t *testing.T) {
	_, router := newTestRouter()

	for _, query := range []string{"year=2024&month=13", "year=abc&month=1", "month=1"} {
		rr := doJSON(t, router, http.MethodGet, "/users/u1/calendar?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, fmt.Sprintf("query %s", query))
	}
}
