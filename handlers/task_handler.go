package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"habitTrackerAPI/internal/streak"
	"habitTrackerAPI/internal/types/calendar"
	"habitTrackerAPI/internal/types/task"
	"habitTrackerAPI/services"
)

type TaskHandler struct {
	store services.Store
	now   func() time.Time
}

func NewTaskHandler(store services.Store) *TaskHandler {
	return &TaskHandler{
		store: store,
		now:   time.Now,
	}
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := services.TaskFilter{
		UserID: r.URL.Query().Get("user_id"),
		Date:   r.URL.Query().Get("date"),
	}

	tasks, err := h.store.ListTasks(ctx, filter)
	if err != nil {
		log.Printf("GetTasks: %v", err)
		respondWithStoreError(w, err)
		return
	}

	if tasks == nil {
		tasks = []*task.Task{}
	}
	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req task.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.store.CreateTask(ctx, &req)
	if err != nil {
		log.Printf("CreateTask: %v", err)
		respondWithStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := task.ID(mux.Vars(r)["id"])

	var req task.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.store.UpdateTask(ctx, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Printf("UpdateTask: %v", err)
		respondWithStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := task.ID(mux.Vars(r)["id"])

	if err := h.store.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Printf("DeleteTask: %v", err)
		respondWithStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// DeleteFrozenTasks removes every freeze marker for a user and date.
// Calling it when no markers exist is a successful no-op.
func (h *TaskHandler) DeleteFrozenTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := r.URL.Query().Get("user_id")
	date := r.URL.Query().Get("date")
	if userID == "" || date == "" {
		respondWithError(w, http.StatusBadRequest, "user_id and date are required")
		return
	}

	if err := h.store.DeleteFrozenTasks(ctx, userID, date); err != nil {
		log.Printf("DeleteFrozenTasks: %v", err)
		respondWithStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Frozen tasks deleted successfully"})
}

// GetUserStreak recomputes the streak from the full task history. The
// anchor date defaults to the server's today and may be overridden with a
// ?today=YYYY-MM-DD query parameter.
func (h *TaskHandler) GetUserStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]

	today := h.now()
	if anchor := r.URL.Query().Get("today"); anchor != "" {
		parsed, err := time.Parse(task.DateLayout, anchor)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid today date, expected YYYY-MM-DD")
			return
		}
		today = parsed
	}

	resp, err := h.store.GetUserStreak(ctx, userID, today)
	if err != nil {
		log.Printf("GetUserStreak: %v", err)
		respondWithStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetCalendar returns the per-day status of one month for the calendar
// view: completed, frozen, or not_completed for each date.
func (h *TaskHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["id"]

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		respondWithError(w, http.StatusBadRequest, "Invalid month")
		return
	}

	tasks, err := services.ListTasksByUser(ctx, h.store, userID)
	if err != nil {
		log.Printf("GetCalendar: %v", err)
		respondWithStoreError(w, err)
		return
	}

	statuses := streak.Statuses(tasks)
	today := h.now().Format(task.DateLayout)

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	var days []*calendar.CalendarDay
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(task.DateLayout)
		days = append(days, &calendar.CalendarDay{
			Date:    d,
			Status:  statuses[dateStr].String(),
			IsToday: dateStr == today,
		})
	}

	respondWithJSON(w, http.StatusOK, &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	})
}
