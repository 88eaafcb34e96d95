package models

import (
	"time"

	"gorm.io/datatypes"
)

// Load is a posted freight offer, a carrier demand, or open truck space.
//
// Invariant: AssignedTo is non-empty iff Status == assigned, and then it
// equals the requester of the single accepted LoadRequest for this load.
type Load struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerID      string     `gorm:"type:uuid;not null;index"`
	Type         LoadType   `gorm:"type:varchar(20);not null"`
	Status       LoadStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	PickupCity   string
	PickupZip    string `gorm:"type:varchar(10);not null;index"`
	PickupDate   *time.Time
	DeliveryCity string
	DeliveryZip  string `gorm:"type:varchar(10)"`
	DeliveryDate *time.Time
	Rate         float64
	AssignedTo   *string        `gorm:"type:uuid"`
	AssignedAt   *time.Time
	Details      datatypes.JSON `gorm:"type:jsonb"` // equipment, weight, notes - opaque to the workflow
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Owner *User `gorm:"foreignKey:OwnerID"`
}

// IsOpen reports whether the load still accepts requests.
func (l *Load) IsOpen() bool {
	return l.Status == LoadStatusActive && l.AssignedTo == nil
}
