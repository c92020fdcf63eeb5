// Package services holds the data access layer: one Store contract with a
// persistent Postgres implementation, an in-memory simulation used for
// demos and tests, and a remote client that speaks the same contract over
// HTTP. The application layer is handed one of them at startup and never
// learns which.
package services

import (
	"context"
	"time"

	"habitTrackerAPI/internal/types/streak"
	"habitTrackerAPI/internal/types/task"
	"habitTrackerAPI/internal/types/user"
)

// Store is the uniform data access contract.
//
// All methods take a context and honor its cancellation. Password material
// crosses this boundary only as plaintext input to CreateUser and
// VerifyCredentials; implementations hash before persisting and never
// return plaintext.
type Store interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	UpdateUser(ctx context.Context, id string, req *user.UpdateUserRequest) (*user.User, error)

	ListTasks(ctx context.Context, filter TaskFilter) ([]*task.Task, error)
	CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.Task, error)
	UpdateTask(ctx context.Context, id task.ID, req *task.UpdateTaskRequest) (*task.Task, error)
	DeleteTask(ctx context.Context, id task.ID) error

	// DeleteFrozenTasks removes every freeze marker for the user and date.
	// It is idempotent: deleting when none exist is a successful no-op.
	DeleteFrozenTasks(ctx context.Context, userID, date string) error

	// GetUserStreak recomputes the streak from the full task history,
	// anchored at today. The cached User.Streak field is a display hint
	// only; this is the authoritative value.
	GetUserStreak(ctx context.Context, userID string, today time.Time) (*streak.Response, error)

	// VerifyCredentials returns the matching user, or (nil, nil) when the
	// email is unknown or the password is wrong. The two failure modes are
	// deliberately indistinguishable.
	VerifyCredentials(ctx context.Context, email, password string) (*user.User, error)
}

// TaskFilter narrows ListTasks. Zero values mean "no constraint".
type TaskFilter struct {
	UserID string
	Date   string
}

// ListTasksByUser is a convenience for the common filter.
func ListTasksByUser(ctx context.Context, s Store, userID string) ([]*task.Task, error) {
	return s.ListTasks(ctx, TaskFilter{UserID: userID})
}

// StreakOrUnavailable wraps GetUserStreak for display callers: when the
// task history cannot be fetched it returns the Unavailable sentinel (-1)
// instead of an error, so the view layer renders "unknown" rather than
// failing. The engine itself never produces a negative value.
func StreakOrUnavailable(ctx context.Context, s Store, userID string, today time.Time) *streak.Response {
	resp, err := s.GetUserStreak(ctx, userID, today)
	if err != nil {
		return &streak.Response{Streak: streak.Unavailable, UserID: userID}
	}
	return resp
}

// SelectStore picks the Store a consumer should run against: the seeded
// in-memory simulation when useMock is set, else the remote client rooted
// at baseURL. Callers hold the returned Store; nothing here is global.
func SelectStore(useMock bool, baseURL string) Store {
	if useMock {
		return NewMemoryStore()
	}
	return NewClient(baseURL)
}
