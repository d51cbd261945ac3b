package models

import (
	"time"

	"gorm.io/gorm"
)

// Member represents a club member
type Member struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	FirebaseUID string `gorm:"type:varchar(128);uniqueIndex" json:"firebase_uid"`
	Name        string `gorm:"type:varchar(255)" json:"name"`
	Email       string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	AvatarURL   string `gorm:"type:text" json:"avatar_url"`
	IsAdmin     bool   `gorm:"default:false" json:"is_admin"`
	IsBanned    bool   `gorm:"default:false" json:"is_banned"`

	// Relationships
	Attendances     []SessionMember  `gorm:"foreignKey:MemberID" json:"attendances,omitempty"`
	PaymentRequests []PaymentRequest `gorm:"foreignKey:MemberID" json:"payment_requests,omitempty"`
}

// CoreMember marks a member as part of the core group.
// Modeled as a join row rather than a flag on Member so that admins can
// toggle it without touching the profile record.
type CoreMember struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	MemberID uint `gorm:"uniqueIndex" json:"member_id"`

	// Relationships
	Member Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}
