package dto

import (
	"time"

	"loadlink_backend/internal/models"
)

// --- Load request (bid) requests ---

type CreateLoadRequestRequest struct {
	RequesterID  string   `json:"requester_id" validate:"-"` // set by the server
	LoadID       string   `json:"load_id" validate:"-"`      // set from the URL
	ProposedRate *float64 `json:"proposed_rate" validate:"omitempty,min=0"`
	Message      *string  `json:"message" validate:"omitempty,max=1000"`
}

type DecideRequestRequest struct {
	Status          models.RequestStatus `json:"status" validate:"required,oneof=accepted rejected"`
	ResponseMessage *string              `json:"response_message" validate:"omitempty,max=1000"`
}

// --- Load request responses ---

type LoadRequestResponse struct {
	ID              string               `json:"id"`
	LoadID          string               `json:"load_id"`
	RequesterID     string               `json:"requester_id"`
	OwnerID         string               `json:"owner_id"`
	Status          models.RequestStatus `json:"status"`
	ProposedRate    *float64             `json:"proposed_rate,omitempty"`
	Message         *string              `json:"message,omitempty"`
	ResponseMessage *string              `json:"response_message,omitempty"`
	RequesterName   string               `json:"requester_name,omitempty"`
	Load            *LoadResponse        `json:"load,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func NewLoadRequestResponse(request *models.LoadRequest) LoadRequestResponse {
	resp := LoadRequestResponse{
		ID:              request.ID,
		LoadID:          request.LoadID,
		RequesterID:     request.RequesterID,
		OwnerID:         request.OwnerID,
		Status:          request.Status,
		ProposedRate:    request.ProposedRate,
		Message:         request.Message,
		ResponseMessage: request.ResponseMessage,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}
	if request.Requester != nil {
		resp.RequesterName = request.Requester.Name
	}
	if request.Load != nil {
		load := NewLoadResponse(request.Load)
		resp.Load = &load
	}
	return resp
}
