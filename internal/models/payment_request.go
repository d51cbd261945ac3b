package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentRequestStatus represents the state of a manual payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending  PaymentRequestStatus = "pending"
	PaymentRequestStatusApproved PaymentRequestStatus = "approved"
	PaymentRequestStatusRejected PaymentRequestStatus = "rejected"
)

// PaymentRequest asks an admin to confirm a payment received outside the
// automated gateway flow. Terminal once approved or rejected.
type PaymentRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Reference string  `gorm:"type:varchar(64);uniqueIndex" json:"reference"`
	SessionID uint    `gorm:"index" json:"session_id"`
	MemberID  uint    `gorm:"index" json:"member_id"`
	Amount    float64 `gorm:"type:decimal(15,2)" json:"amount"`

	Status        PaymentRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Notes         string               `gorm:"type:text" json:"notes"`
	ProcessedByID *uint                `json:"processed_by_id"`
	ProcessedAt   *time.Time           `json:"processed_at"`

	// Relationships
	Session     Session `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Member      Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	ProcessedBy *Member `gorm:"foreignKey:ProcessedByID" json:"processed_by,omitempty"`
}
