package types

import "time"

// Status is the soft-lifecycle state every persisted row carries.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// BaseModel carries the audit columns shared by all persisted entities.
// Embedded by domain models; services are responsible for populating it from
// the context on create/update.
type BaseModel struct {
	Status    Status    `json:"status" gorm:"column:status;default:'published'"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
	CreatedBy string    `json:"created_by" gorm:"column:created_by"`
	UpdatedBy string    `json:"updated_by" gorm:"column:updated_by"`
}

// GetDefaultBaseModel returns a BaseModel stamped with the acting user.
func GetDefaultBaseModel(userID string) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
}
