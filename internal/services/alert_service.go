package services

import (
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"
)

const maxServiceAreasPerUser = 20

type AlertService interface {
	CreateServiceArea(req *dto.CreateServiceAreaRequest) (*dto.ServiceAreaResponse, error)
	ListServiceAreas(userID string) ([]dto.ServiceAreaResponse, error)
	DeleteServiceArea(userID, areaID string) error

	GetPreference(userID string) (*dto.AlertPreferenceResponse, error)
	UpdatePreference(userID string, req *dto.UpdateAlertPreferenceRequest) (*dto.AlertPreferenceResponse, error)
}

type AlertServiceImpl struct {
	alertRepo repositories.AlertRepository
}

func NewAlertService(alertRepo repositories.AlertRepository) AlertService {
	return &AlertServiceImpl{alertRepo: alertRepo}
}

func (s *AlertServiceImpl) CreateServiceArea(req *dto.CreateServiceAreaRequest) (*dto.ServiceAreaResponse, error) {
	existing, err := s.alertRepo.FindAreasByUser(req.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(existing) >= maxServiceAreasPerUser {
		return nil, apperrors.NewBadRequestError("Service area limit reached")
	}
	for _, area := range existing {
		if area.ZipCode == req.ZipCode && area.Radius == req.Radius {
			return nil, apperrors.ErrAlreadyExists(nil)
		}
	}

	area := &models.ServiceArea{
		UserID:  req.UserID,
		ZipCode: req.ZipCode,
		Radius:  req.Radius,
	}
	if err := s.alertRepo.CreateArea(area); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewServiceAreaResponse(area)
	return &resp, nil
}

func (s *AlertServiceImpl) ListServiceAreas(userID string) ([]dto.ServiceAreaResponse, error) {
	areas, err := s.alertRepo.FindAreasByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.ServiceAreaResponse, 0, len(areas))
	for i := range areas {
		out = append(out, dto.NewServiceAreaResponse(&areas[i]))
	}
	return out, nil
}

func (s *AlertServiceImpl) DeleteServiceArea(userID, areaID string) error {
	if err := s.alertRepo.DeleteArea(userID, areaID); err != nil {
		if apperrors.Is(err, repositories.ErrServiceAreaNotFound) {
			return apperrors.ErrServiceAreaNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AlertServiceImpl) GetPreference(userID string) (*dto.AlertPreferenceResponse, error) {
	pref, err := s.alertRepo.FindPreference(userID)
	if err != nil {
		// No saved row means defaults.
		pref = &models.AlertPreference{
			UserID:          userID,
			EmailEnabled:    true,
			RfpAlerts:       true,
			OpenTruckAlerts: false,
		}
	}

	resp := dto.NewAlertPreferenceResponse(pref)
	return &resp, nil
}

func (s *AlertServiceImpl) UpdatePreference(userID string, req *dto.UpdateAlertPreferenceRequest) (*dto.AlertPreferenceResponse, error) {
	pref, err := s.alertRepo.FindPreference(userID)
	if err != nil {
		pref = &models.AlertPreference{
			UserID:          userID,
			EmailEnabled:    true,
			RfpAlerts:       true,
			OpenTruckAlerts: false,
		}
	}

	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if req.RfpAlerts != nil {
		pref.RfpAlerts = *req.RfpAlerts
	}
	if req.OpenTruckAlerts != nil {
		pref.OpenTruckAlerts = *req.OpenTruckAlerts
	}

	if err := s.alertRepo.UpsertPreference(pref); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewAlertPreferenceResponse(pref)
	return &resp, nil
}
