package dto

import (
	"time"

	"loadlink_backend/internal/models"
)

// --- Service area requests ---

type CreateServiceAreaRequest struct {
	UserID  string  `json:"user_id" validate:"-"` // set by the server
	ZipCode string  `json:"zip_code" validate:"required,uszip"`
	Radius  float64 `json:"radius" validate:"required,gt=0,max=500"` // miles
}

type UpdateAlertPreferenceRequest struct {
	EmailEnabled    *bool `json:"email_enabled,omitempty"`
	RfpAlerts       *bool `json:"rfp_alerts,omitempty"`
	OpenTruckAlerts *bool `json:"open_truck_alerts,omitempty"`
}

// --- Service area responses ---

type ServiceAreaResponse struct {
	ID        string    `json:"id"`
	ZipCode   string    `json:"zip_code"`
	Radius    float64   `json:"radius"`
	CreatedAt time.Time `json:"created_at"`
}

type AlertPreferenceResponse struct {
	EmailEnabled    bool `json:"email_enabled"`
	RfpAlerts       bool `json:"rfp_alerts"`
	OpenTruckAlerts bool `json:"open_truck_alerts"`
}

func NewServiceAreaResponse(area *models.ServiceArea) ServiceAreaResponse {
	return ServiceAreaResponse{
		ID:        area.ID,
		ZipCode:   area.ZipCode,
		Radius:    area.Radius,
		CreatedAt: area.CreatedAt,
	}
}

func NewAlertPreferenceResponse(pref *models.AlertPreference) AlertPreferenceResponse {
	return AlertPreferenceResponse{
		EmailEnabled:    pref.EmailEnabled,
		RfpAlerts:       pref.RfpAlerts,
		OpenTruckAlerts: pref.OpenTruckAlerts,
	}
}
