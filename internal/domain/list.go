package domain

import "time"

// List is a shopping list owned by a single user. A list starts open and
// can be completed exactly once; completion freezes TotalSpent as a
// snapshot of the purchased cost at that moment. Items edited afterwards
// do not change the snapshot.
type List struct {
	Syncable
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"` // Optional grouping for spending statistics
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TotalSpent  float64    `json:"total_spent"` // Snapshot taken at completion, zero while open
}

// IsOpen returns true if the list can still be renamed and completed.
func (l *List) IsOpen() bool {
	return !l.Completed
}

// MarkCompleted transitions the list to the completed state, recording
// the spend snapshot. Returns false if the list is already completed;
// the existing snapshot is left untouched in that case.
func (l *List) MarkCompleted(totalSpent float64, at time.Time) bool {
	if l.Completed {
		return false
	}
	l.Completed = true
	l.CompletedAt = &at
	l.TotalSpent = totalSpent
	l.UpdatedAt = at
	return true
}
