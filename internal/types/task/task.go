package task

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind tags what a task record represents. Freeze markers are not habit
// items: their presence on a date exempts that date from streak-breaking.
type Kind string

const (
	KindRegular      Kind = "regular"
	KindFreezeMarker Kind = "freeze_marker"
)

// FreezeMarkerName is the name given to marker tasks created by the
// "freeze this day" action.
const FreezeMarkerName = "Frozen"

// ID is a task identifier. The in-memory backend issues numeric IDs while
// the persistent backend issues opaque strings, so the wire codec accepts
// either and renders numeric IDs back as JSON numbers.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type Task struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind,omitempty"`
	Completed bool      `json:"completed"`
	Date      string    `json:"date,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsFreezeMarker reports whether the task is a freeze marker. Tasks written
// by older clients carry no kind tag and are classified by the reserved
// "frozen" name substring instead.
func (t *Task) IsFreezeMarker() bool {
	if t.Kind != "" {
		return t.Kind == KindFreezeMarker
	}
	return KindForName(t.Name) == KindFreezeMarker
}

// KindForName classifies a task name, honoring the reserved "frozen"
// substring (case-insensitive).
func KindForName(name string) Kind {
	if strings.Contains(strings.ToLower(name), "frozen") {
		return KindFreezeMarker
	}
	return KindRegular
}

type CreateTaskRequest struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Kind      Kind   `json:"kind,omitempty"`
}

// UpdateTaskRequest is a partial update; nil fields are left untouched.
// Renaming a task re-classifies its kind unless one is given explicitly.
type UpdateTaskRequest struct {
	Name      *string `json:"name"`
	Completed *bool   `json:"completed"`
	Date      *string `json:"date"`
	Kind      *Kind   `json:"kind"`
}

// DateLayout is the calendar-date wire format. Dates carry no time component.
const DateLayout = "2006-01-02"
