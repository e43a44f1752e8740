package models

import "time"

// Edge is a directed relationship from OwnerID to TargetID.
// The primary key is a composite of (OwnerID, TargetID) so an owner holds at
// most one edge per target; the reverse direction is a separate record.
type Edge struct {
	OwnerID   string    `gorm:"primaryKey;size:64" json:"owner_id"`
	TargetID  string    `gorm:"primaryKey;size:64;index" json:"target_id"`
	Tier      Tier      `gorm:"type:varchar(20);not null;index" json:"tier"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName keeps the table name stable regardless of the struct name.
func (Edge) TableName() string { return "circle_edges" }

// Modified reports whether the tier was reassigned after creation.
func (e Edge) Modified() bool { return !e.UpdatedAt.Equal(e.CreatedAt) }
