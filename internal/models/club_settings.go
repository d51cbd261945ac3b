package models

import (
	"time"

	"gorm.io/gorm"
)

// ClubSettings holds the club-wide defaults used by the monthly session
// generator and the registration rules. A single row is expected; the
// first row wins.
type ClubSettings struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// ScheduleRule is an RFC 5545 RRULE string describing playing days,
	// e.g. "FREQ=WEEKLY;BYDAY=TU,FR".
	ScheduleRule string `gorm:"type:text" json:"schedule_rule"`

	// Start/end of play in minutes from midnight, local time.
	StartMinute int `gorm:"default:1140" json:"start_minute"` // 19:00
	EndMinute   int `gorm:"default:1260" json:"end_minute"`   // 21:00

	DefaultCourtCount int     `gorm:"default:2" json:"default_court_count"`
	DefaultBaseCost   float64 `gorm:"type:decimal(15,2)" json:"default_base_cost"`
	DefaultMaxMembers int     `gorm:"default:0" json:"default_max_members"`

	// Members cannot join or withdraw within this window before start.
	RegistrationCutoffMinutes int `gorm:"default:60" json:"registration_cutoff_minutes"`
}
