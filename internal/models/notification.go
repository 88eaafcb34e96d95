package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an in-app notification row. Email delivery is handled
// separately by the dispatch service; this is the durable record.
type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index"`
	Type    string         `gorm:"type:varchar(40);not null"`
	Title   string         `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"`
	IsRead  bool           `gorm:"default:false;index"`
	ReadAt  *time.Time
}
