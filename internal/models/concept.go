package models

import "time"

// Concept represents a billable item students may owe, either a fixed
// calendar-month fee or an ad-hoc charge.
type Concept struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Code          string     `gorm:"size:16;not null;uniqueIndex" json:"code"`
	Name          string     `gorm:"size:255" json:"name"`
	ScheduleOrder int        `gorm:"default:0" json:"schedule_order"`
	DueDate       *time.Time `json:"due_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsAdHoc reports whether the concept has no calendar-month slot.
func (c Concept) IsAdHoc() bool {
	return c.ScheduleOrder <= 0
}
