package models

import (
	"time"

	"gorm.io/gorm"
)

// Session represents one scheduled playing occasion
type Session struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Date      time.Time `gorm:"index" json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// IsActive=false is a soft cancel; sessions are never hard-deleted.
	IsActive bool `gorm:"default:true" json:"is_active"`

	CourtCount int     `gorm:"default:1" json:"court_count"`
	BaseCost   float64 `gorm:"type:decimal(15,2)" json:"base_cost"`
	MaxMembers int     `gorm:"default:0" json:"max_members"` // 0 means unlimited

	// Relationships
	Members  []SessionMember `gorm:"foreignKey:SessionID" json:"members,omitempty"`
	Expenses []ExtraExpense  `gorm:"foreignKey:SessionID" json:"expenses,omitempty"`
}

// Weekday returns the day of week for the session date
func (s Session) Weekday() time.Weekday {
	return s.Date.Weekday()
}
