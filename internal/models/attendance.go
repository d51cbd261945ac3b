package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionMember is an attendance record, unique per session+member.
// Slots captures multiplicity (a member bringing guests registers one row
// with Slots > 1, never duplicate rows).
type SessionMember struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SessionID uint `gorm:"uniqueIndex:idx_session_member,where:deleted_at IS NULL" json:"session_id"`
	MemberID  uint `gorm:"uniqueIndex:idx_session_member,where:deleted_at IS NULL" json:"member_id"`

	Slots int  `gorm:"default:1" json:"slots"`
	Paid  bool `gorm:"default:false" json:"paid"`

	// Relationships
	Session Session `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Member  Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// SessionOptOut suppresses auto-enrollment of a core member for one
// specific session. Created when a core member withdraws; cleared when
// they register again.
type SessionOptOut struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SessionID uint `gorm:"uniqueIndex:idx_session_optout,where:deleted_at IS NULL" json:"session_id"`
	MemberID  uint `gorm:"uniqueIndex:idx_session_optout,where:deleted_at IS NULL" json:"member_id"`

	// Relationships
	Session Session `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Member  Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}
