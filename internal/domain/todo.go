package domain

import "time"

type Todo struct {
	ID          string
	Text        string
	Completed   bool
	CompletedAt *time.Time
	CreatorID   string
	CreatedAt   time.Time
}

// SetCompleted keeps Completed and CompletedAt in lockstep: a completed todo
// always carries a timestamp, an open one never does.
func (t *Todo) SetCompleted(completed bool, now time.Time) {
	if completed {
		at := now.UTC()
		t.Completed = true
		t.CompletedAt = &at
		return
	}
	t.Completed = false
	t.CompletedAt = nil
}

// TodoPatch carries the optional fields of a partial update.
type TodoPatch struct {
	Text      *string
	Completed *bool
}
