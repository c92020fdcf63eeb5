package streak

// DayStatus is the derived state of a single calendar date.
type DayStatus int

const (
	NotCompleted DayStatus = iota
	Completed
	Frozen
)

func (s DayStatus) String() string {
	switch s {
	case Completed:
		return "completed"
	case Frozen:
		return "frozen"
	default:
		return "not_completed"
	}
}

// Unavailable is the sentinel callers substitute when the task history
// needed for a recompute cannot be fetched. The engine itself never
// produces it; 0 means "no active streak".
const Unavailable = -1

type Response struct {
	Streak int    `json:"streak"`
	UserID string `json:"user_id"`
}
