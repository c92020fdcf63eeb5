package handlers

import (
	"github.com/gorilla/mux"

	"habitTrackerAPI/services"
)

// NewRouter wires the REST surface onto a fresh router. More specific task
// routes are registered before the {id} catch-alls.
func NewRouter(store services.Store) *mux.Router {
	userHandler := NewUserHandler(store)
	taskHandler := NewTaskHandler(store)

	r := mux.NewRouter()

	r.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
	r.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	r.HandleFunc("/users/{id}", userHandler.GetUserById).Methods("GET")
	r.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods("PATCH")
	r.HandleFunc("/users/{id}/calendar", taskHandler.GetCalendar).Methods("GET")

	r.HandleFunc("/tasks", taskHandler.GetTasks).Methods("GET")
	r.HandleFunc("/tasks", taskHandler.CreateTask).Methods("POST")
	r.HandleFunc("/tasks/streak/{userId}", taskHandler.GetUserStreak).Methods("GET")
	r.HandleFunc("/tasks/frozen", taskHandler.DeleteFrozenTasks).Methods("DELETE")
	r.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods("PATCH")
	r.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods("DELETE")

	r.HandleFunc("/auth/login", userHandler.Login).Methods("POST")

	return r
}
