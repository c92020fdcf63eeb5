package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/streak"
	streaktypes "habitTrackerAPI/internal/types/streak"
	"habitTrackerAPI/internal/types/task"
	"habitTrackerAPI/internal/types/user"
	"habitTrackerAPI/utils"
)

// PostgresStore is the persistent Store implementation.
type PostgresStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	query := `
	SELECT id, name, email, password_hash, streak, avatar_url, created_at
	FROM users
	ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Streak, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	query := `
	SELECT id, name, email, password_hash, streak, avatar_url, created_at
	FROM users
	WHERE id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Streak,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if req.Name == "" {
		return nil, missingField("name")
	}
	if req.Password == "" {
		return nil, missingField("password")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Streak:       0,
		CreatedAt:    s.now(),
	}

	query := `
	INSERT INTO users (id, name, email, password_hash, streak, avatar_url, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Streak, u.AvatarURL, u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, req *user.UpdateUserRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		name = COALESCE($2, name),
		email = COALESCE($3, email),
		avatar_url = COALESCE($4, avatar_url),
		streak = COALESCE($5, streak)
	WHERE id = $1
	RETURNING id, name, email, password_hash, streak, avatar_url, created_at
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, id, req.Name, req.Email, req.AvatarURL, req.Streak).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Streak,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter TaskFilter) ([]*task.Task, error) {
	query := `
	SELECT id, user_id, name, kind, completed, date, created_at
	FROM tasks
	WHERE ($1 = '' OR user_id = $1)
		AND ($2 = '' OR date = $2)
	ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, filter.UserID, filter.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t := &task.Task{}
		var id, kind string
		if err := rows.Scan(&id, &t.UserID, &t.Name, &kind, &t.Completed, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.ID = task.ID(id)
		t.Kind = task.Kind(kind)
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (s *PostgresStore) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.Task, error) {
	if req.Name == "" {
		return nil, missingField("name")
	}
	if req.Date == "" {
		return nil, missingField("date")
	}

	kind := req.Kind
	if kind == "" {
		kind = task.KindForName(req.Name)
	}

	t := &task.Task{
		ID:        task.ID(uuid.New().String()),
		UserID:    req.UserID,
		Name:      req.Name,
		Kind:      kind,
		Completed: req.Completed,
		Date:      req.Date,
		CreatedAt: s.now(),
	}

	query := `
	INSERT INTO tasks (id, user_id, name, kind, completed, date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.db.Exec(ctx, query, t.ID.String(), t.UserID, t.Name, t.Kind, t.Completed, t.Date, t.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, id task.ID, req *task.UpdateTaskRequest) (*task.Task, error) {
	kind := req.Kind
	if kind == nil && req.Name != nil {
		k := task.KindForName(*req.Name)
		kind = &k
	}

	query := `
	UPDATE tasks
	SET
		name = COALESCE($2, name),
		completed = COALESCE($3, completed),
		date = COALESCE($4, date),
		kind = COALESCE($5, kind)
	WHERE id = $1
	RETURNING id, user_id, name, kind, completed, date, created_at
	`

	t := &task.Task{}
	var scannedID, scannedKind string
	err := s.db.QueryRow(ctx, query, id.String(), req.Name, req.Completed, req.Date, kind).Scan(
		&scannedID,
		&t.UserID,
		&t.Name,
		&scannedKind,
		&t.Completed,
		&t.Date,
		&t.CreatedAt,
	)
	t.ID = task.ID(scannedID)
	t.Kind = task.Kind(scannedKind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return t, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id task.ID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) DeleteFrozenTasks(ctx context.Context, userID, date string) error {
	query := `
	DELETE FROM tasks
	WHERE user_id = $1
		AND date = $2
		AND (kind = $3 OR name ILIKE '%frozen%')
	`

	// Idempotent: zero rows deleted is still success.
	if _, err := s.db.Exec(ctx, query, userID, date, task.KindFreezeMarker); err != nil {
		return fmt.Errorf("failed to delete frozen tasks: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetUserStreak(ctx context.Context, userID string, today time.Time) (*streaktypes.Response, error) {
	tasks, err := s.ListTasks(ctx, TaskFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	value := streak.Compute(tasks, today)

	// Refresh the cached display hint; the computed value is authoritative
	// either way.
	if _, err := s.db.Exec(ctx, `UPDATE users SET streak = $2 WHERE id = $1`, userID, value); err != nil {
		return nil, fmt.Errorf("failed to cache streak: %w", err)
	}

	return &streaktypes.Response{Streak: value, UserID: userID}, nil
}

func (s *PostgresStore) VerifyCredentials(ctx context.Context, email, password string) (*user.User, error) {
	query := `
	SELECT id, name, email, password_hash, streak, avatar_url, created_at
	FROM users
	WHERE email = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Streak,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown email and wrong password must be indistinguishable.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, nil
	}

	return u, nil
}
