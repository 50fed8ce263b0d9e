package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the type of operation performed
type AuditAction string

const (
	AuditActionLoad   AuditAction = "LOAD"   // Case book loaded from the remote store
	AuditActionSave   AuditAction = "SAVE"   // Case book written to the remote store
	AuditActionExport AuditAction = "EXPORT" // Case book exported as a spreadsheet
	AuditActionEmail  AuditAction = "EMAIL"  // Case statement emailed
	AuditActionLogin  AuditAction = "LOGIN"  // User signed in
	AuditActionLogout AuditAction = "LOGOUT" // User signed out
)

// ResourceTypeCaseBook is the resource type for operations on the whole
// persisted case list.
const ResourceTypeCaseBook = "CaseBook"

// AuditLog is an immutable record of an operation against a user's case
// book or account.
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"created_at"`

	// Actor identification. Email is denormalized for historical accuracy.
	UserID    *string `gorm:"type:uuid;index:idx_audit_user" json:"user_id,omitempty"`
	UserEmail string  `gorm:"not null" json:"user_email"`

	// Target resource
	ResourceType string `gorm:"not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   string `gorm:"index:idx_audit_resource" json:"resource_id"` // remote file id when known
	CaseCount    int    `json:"case_count"`

	Action      AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Description string      `gorm:"type:text" json:"description,omitempty"`

	// Request metadata
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs (immutability)
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of audit logs (immutability)
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
