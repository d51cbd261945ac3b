package models

import (
	"time"

	"gorm.io/gorm"
)

// ExtraExpense is an ad-hoc cost logged against a session (shuttlecocks,
// water, ...), split pro-rata like the court cost. Never updated in place;
// deletable only by its creator.
type ExtraExpense struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SessionID  uint    `gorm:"index" json:"session_id"`
	LoggedByID uint    `gorm:"index" json:"logged_by_id"`
	Amount     float64 `gorm:"type:decimal(15,2)" json:"amount"`
	Note       string  `gorm:"type:text" json:"note"`

	// Relationships
	Session  Session `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	LoggedBy Member  `gorm:"foreignKey:LoggedByID" json:"logged_by,omitempty"`
}
