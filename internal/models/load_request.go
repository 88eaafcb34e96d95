package models

// LoadRequest is a bid by a requester against a load. OwnerID is a
// denormalized copy of Load.OwnerID taken at creation time so owner-side
// listings never need a join.
//
// Invariant: for a given LoadID at most one LoadRequest is ever accepted.
type LoadRequest struct {
	BaseModel
	LoadID          string        `gorm:"type:uuid;not null;index"`
	RequesterID     string        `gorm:"type:uuid;not null;index"`
	OwnerID         string        `gorm:"type:uuid;not null;index"`
	Status          RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ProposedRate    *float64
	Message         *string
	ResponseMessage *string

	Load      *Load `gorm:"foreignKey:LoadID"`
	Requester *User `gorm:"foreignKey:RequesterID"`
}

func (r *LoadRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
