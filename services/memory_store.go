package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/streak"
	streaktypes "habitTrackerAPI/internal/types/streak"
	"habitTrackerAPI/internal/types/task"
	"habitTrackerAPI/internal/types/user"
	"habitTrackerAPI/utils"
)

// DefaultLatency mimics a network round trip so the simulation backend
// keeps the asynchronous timing characteristics callers are built against.
const DefaultLatency = 300 * time.Millisecond

// MemoryStore is the in-process simulation Store. It seeds deterministic
// fixture data on construction, injects artificial latency per call, and
// issues IDs locally: random opaque strings for users, an incrementing
// counter for tasks.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*user.User
	tasks      map[task.ID]*task.Task
	nextTaskID int64

	latency time.Duration
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:      make(map[string]*user.User),
		tasks:      make(map[task.ID]*task.Task),
		nextTaskID: 1,
		latency:    DefaultLatency,
		now:        time.Now,
	}
	s.seed()
	return s
}

// NewMemoryStoreBare returns an unseeded store without latency, for tests.
func NewMemoryStoreBare() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*user.User),
		tasks:      make(map[task.ID]*task.Task),
		nextTaskID: 1,
		now:        time.Now,
	}
}

// delay simulates the network round trip. It returns early when the caller
// gives up, so every outstanding call has a cancellation hook.
func (s *MemoryStore) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
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

	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()

	copied := *u
	return &copied, nil
}

// UpdateUser is deliberately permissive: an unknown id auto-creates a
// placeholder user instead of failing. The persistent backend does not
// replicate this; it is simulation-mode leniency for demo scaffolding.
func (s *MemoryStore) UpdateUser(ctx context.Context, id string, req *user.UpdateUserRequest) (*user.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		u = &user.User{
			ID:        id,
			Name:      "New User",
			CreatedAt: s.now(),
		}
		s.users[id] = u
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if req.Streak != nil {
		u.Streak = *req.Streak
	}

	copied := *u
	return &copied, nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, filter TaskFilter) ([]*task.Task, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*task.Task
	for _, t := range s.tasks {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Date != "" && t.Date != filter.Date {
			continue
		}
		copied := *t
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.Task, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
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

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task.Task{
		ID:        task.ID(strconv.FormatInt(s.nextTaskID, 10)),
		UserID:    req.UserID,
		Name:      req.Name,
		Kind:      kind,
		Completed: req.Completed,
		Date:      req.Date,
		CreatedAt: s.now(),
	}
	s.nextTaskID++
	s.tasks[t.ID] = t

	copied := *t
	return &copied, nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id task.ID, req *task.UpdateTaskRequest) (*task.Task, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		t.Name = *req.Name
		if req.Kind == nil {
			t.Kind = task.KindForName(*req.Name)
		}
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	if req.Date != nil {
		t.Date = *req.Date
	}
	if req.Kind != nil {
		t.Kind = *req.Kind
	}

	copied := *t
	return &copied, nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id task.ID) error {
	if err := s.delay(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) DeleteFrozenTasks(ctx context.Context, userID, date string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.UserID == userID && t.Date == date && t.IsFreezeMarker() {
			delete(s.tasks, id)
		}
	}
	return nil
}

func (s *MemoryStore) GetUserStreak(ctx context.Context, userID string, today time.Time) (*streaktypes.Response, error) {
	tasks, err := s.ListTasks(ctx, TaskFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	value := streak.Compute(tasks, today)

	s.mu.Lock()
	if u, ok := s.users[userID]; ok {
		u.Streak = value
	}
	s.mu.Unlock()

	return &streaktypes.Response{Streak: value, UserID: userID}, nil
}

func (s *MemoryStore) VerifyCredentials(ctx context.Context, email, password string) (*user.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			if !utils.CheckPassword(u.PasswordHash, password) {
				return nil, nil
			}
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// SetLatency overrides the artificial delay. Tests set it to zero.
func (s *MemoryStore) SetLatency(d time.Duration) { s.latency = d }

// SetClock overrides the time source for deterministic fixtures and tests.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

// Reset drops all records and reseeds the fixtures.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	s.users = make(map[string]*user.User)
	s.tasks = make(map[task.ID]*task.Task)
	s.nextTaskID = 1
	s.mu.Unlock()
	s.seed()
}

// seed loads the demo fixtures: two users ("password123") with a few tasks
// spread over today, yesterday, and the day before.
func (s *MemoryStore) seed() {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		return
	}

	now := s.now()
	today := now.Format(task.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(task.DateLayout)
	twoDaysAgo := now.AddDate(0, 0, -2).Format(task.DateLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	seedUsers := []*user.User{
		{ID: "demo_user_1", Name: "Demo User 1", Email: "demo1@example.com", PasswordHash: hash, Streak: 2, CreatedAt: now},
		{ID: "demo_user_2", Name: "Demo User 2", Email: "demo2@example.com", PasswordHash: hash, Streak: 1, CreatedAt: now},
	}
	for _, u := range seedUsers {
		s.users[u.ID] = u
	}

	seedTasks := []*task.Task{
		{UserID: "demo_user_1", Name: "Complete project documentation", Completed: true, Date: today},
		{UserID: "demo_user_1", Name: "Review pull requests", Completed: false, Date: today},
		{UserID: "demo_user_1", Name: "Team meeting", Completed: true, Date: yesterday},
		{UserID: "demo_user_1", Name: "Code review", Completed: true, Date: twoDaysAgo},
		{UserID: "demo_user_2", Name: "Update README", Completed: true, Date: today},
		{UserID: "demo_user_2", Name: "Fix bugs", Completed: false, Date: today},
	}
	for _, t := range seedTasks {
		t.ID = task.ID(strconv.FormatInt(s.nextTaskID, 10))
		t.Kind = task.KindRegular
		t.CreatedAt = now
		s.nextTaskID++
		s.tasks[t.ID] = t
	}
}
