package models

import "time"

// EdgeEventKind describes how an edge changed.
type EdgeEventKind string

const (
	EventCreated    EdgeEventKind = "created"
	EventUpgraded   EdgeEventKind = "upgraded"
	EventDowngraded EdgeEventKind = "downgraded"
	EventRemoved    EdgeEventKind = "removed"
)

// EdgeEvent records one change to an owner's edge. Downgrades and removals
// are the churn signal used by the trust scorer.
type EdgeEvent struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	OwnerID    string        `gorm:"size:64;not null;index:idx_edge_events_owner_time,priority:1" json:"owner_id"`
	TargetID   string        `gorm:"size:64;not null" json:"target_id"`
	FromTier   Tier          `gorm:"type:varchar(20)" json:"from_tier,omitempty"`
	ToTier     Tier          `gorm:"type:varchar(20)" json:"to_tier,omitempty"`
	Kind       EdgeEventKind `gorm:"type:varchar(20);not null" json:"kind"`
	OccurredAt time.Time     `gorm:"not null;index:idx_edge_events_owner_time,priority:2" json:"occurred_at"`
}

func (EdgeEvent) TableName() string { return "circle_edge_events" }

// IsChurn reports whether the event lowered or removed trust.
func (e EdgeEvent) IsChurn() bool {
	return e.Kind == EventDowngraded || e.Kind == EventRemoved
}

// ClassifyChange returns the event kind for a transition from one tier to
// another. An empty from means the edge did not exist; an empty to means it
// was removed. ok is false when nothing changed.
func ClassifyChange(from, to Tier) (kind EdgeEventKind, ok bool) {
	switch {
	case from == "" && to == "":
		return "", false
	case from == "":
		return EventCreated, true
	case to == "":
		return EventRemoved, true
	case to.Rank() > from.Rank():
		return EventUpgraded, true
	case to.Rank() < from.Rank():
		return EventDowngraded, true
	}
	return "", false
}
