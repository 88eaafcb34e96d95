package dto

import (
	"time"

	"loadlink_backend/internal/models"

	"gorm.io/datatypes"
)

// --- Load requests ---

type CreateLoadRequest struct {
	OwnerID      string          `json:"owner_id" validate:"-"` // set by the server
	Type         models.LoadType `json:"type" validate:"required,oneof=broker_post carrier_demand truck_capacity"`
	PickupCity   string          `json:"pickup_city" validate:"required,max=120"`
	PickupZip    string          `json:"pickup_zip" validate:"required,uszip"`
	PickupDate   *time.Time      `json:"pickup_date"`
	DeliveryCity string          `json:"delivery_city" validate:"omitempty,max=120"`
	DeliveryZip  string          `json:"delivery_zip" validate:"omitempty,uszip"`
	DeliveryDate *time.Time      `json:"delivery_date"`
	Rate         float64         `json:"rate" validate:"omitempty,min=0"`
	Details      datatypes.JSON  `json:"details"`
}

type UpdateLoadRequest struct {
	PickupCity   *string        `json:"pickup_city,omitempty" validate:"omitempty,max=120"`
	PickupZip    *string        `json:"pickup_zip,omitempty" validate:"omitempty,uszip"`
	PickupDate   *time.Time     `json:"pickup_date,omitempty"`
	DeliveryCity *string        `json:"delivery_city,omitempty" validate:"omitempty,max=120"`
	DeliveryZip  *string        `json:"delivery_zip,omitempty" validate:"omitempty,uszip"`
	DeliveryDate *time.Time     `json:"delivery_date,omitempty"`
	Rate         *float64       `json:"rate,omitempty" validate:"omitempty,min=0"`
	Details      datatypes.JSON `json:"details,omitempty"`
}

type ListLoadsRequest struct {
	Type      models.LoadType   `form:"type" validate:"omitempty,oneof=broker_post carrier_demand truck_capacity"`
	Status    models.LoadStatus `form:"status" validate:"omitempty,oneof=active assigned completed cancelled"`
	PickupZip string            `form:"pickup_zip" validate:"omitempty,uszip"`
	Page      int               `form:"page" validate:"omitempty,min=1"`
	PageSize  int               `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// --- Load responses ---

type LoadResponse struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	Type         models.LoadType   `json:"type"`
	Status       models.LoadStatus `json:"status"`
	PickupCity   string            `json:"pickup_city"`
	PickupZip    string            `json:"pickup_zip"`
	PickupDate   *time.Time        `json:"pickup_date,omitempty"`
	DeliveryCity string            `json:"delivery_city,omitempty"`
	DeliveryZip  string            `json:"delivery_zip,omitempty"`
	DeliveryDate *time.Time        `json:"delivery_date,omitempty"`
	Rate         float64           `json:"rate,omitempty"`
	AssignedTo   *string           `json:"assigned_to,omitempty"`
	AssignedAt   *time.Time        `json:"assigned_at,omitempty"`
	Details      datatypes.JSON    `json:"details,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type LoadListResponse struct {
	Loads    []LoadResponse `json:"loads"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func NewLoadResponse(load *models.Load) LoadResponse {
	return LoadResponse{
		ID:           load.ID,
		OwnerID:      load.OwnerID,
		Type:         load.Type,
		Status:       load.Status,
		PickupCity:   load.PickupCity,
		PickupZip:    load.PickupZip,
		PickupDate:   load.PickupDate,
		DeliveryCity: load.DeliveryCity,
		DeliveryZip:  load.DeliveryZip,
		DeliveryDate: load.DeliveryDate,
		Rate:         load.Rate,
		AssignedTo:   load.AssignedTo,
		AssignedAt:   load.AssignedAt,
		Details:      load.Details,
		CreatedAt:    load.CreatedAt,
		UpdatedAt:    load.UpdatedAt,
	}
}
