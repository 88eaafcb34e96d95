package services

import (
	"context"
	"time"

	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"
)

type LoadService interface {
	CreateLoad(req *dto.CreateLoadRequest) (*dto.LoadResponse, error)
	GetLoad(loadID string) (*dto.LoadResponse, error)
	ListLoads(req *dto.ListLoadsRequest) (*dto.LoadListResponse, error)
	ListMyLoads(ownerID string) ([]dto.LoadResponse, error)
	ListAssignedLoads(carrierID string) ([]dto.LoadResponse, error)
	UpdateLoad(ownerID, loadID string, req *dto.UpdateLoadRequest) (*dto.LoadResponse, error)
	CancelLoad(ownerID, loadID string) error
	CompleteLoad(ownerID, loadID string) error
}

type LoadServiceImpl struct {
	loadRepo repositories.LoadRepository
	userRepo repositories.UserRepository
	matching MatchingService
	dispatch DispatchService
}

func NewLoadService(
	loadRepo repositories.LoadRepository,
	userRepo repositories.UserRepository,
	matching MatchingService,
	dispatch DispatchService,
) LoadService {
	return &LoadServiceImpl{
		loadRepo: loadRepo,
		userRepo: userRepo,
		matching: matching,
		dispatch: dispatch,
	}
}

func (s *LoadServiceImpl) CreateLoad(req *dto.CreateLoadRequest) (*dto.LoadResponse, error) {
	owner, err := s.userRepo.FindByID(req.OwnerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if owner.Status != models.UserStatusActive {
		return nil, apperrors.ErrUserSuspended
	}

	load := &models.Load{
		OwnerID:      req.OwnerID,
		Type:         req.Type,
		Status:       models.LoadStatusActive,
		PickupCity:   req.PickupCity,
		PickupZip:    req.PickupZip,
		PickupDate:   req.PickupDate,
		DeliveryCity: req.DeliveryCity,
		DeliveryZip:  req.DeliveryZip,
		DeliveryDate: req.DeliveryDate,
		Rate:         req.Rate,
		Details:      req.Details,
	}

	if err := s.loadRepo.Create(load); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Matching and alert fan-out run off the request path; posting a load
	// never waits on geocoding or SMTP.
	go s.notifyMatches(load)

	resp := dto.NewLoadResponse(load)
	return &resp, nil
}

func (s *LoadServiceImpl) notifyMatches(load *models.Load) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	matches, err := s.matching.FindMatches(ctx, load)
	if err != nil {
		logger.Error("Load matching failed", "load_id", load.ID, "error", err)
		return
	}
	if len(matches) == 0 {
		return
	}

	s.dispatch.DispatchLoadAlerts(ctx, load, matches)
}

func (s *LoadServiceImpl) GetLoad(loadID string) (*dto.LoadResponse, error) {
	load, err := s.loadRepo.FindByID(loadID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrLoadNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewLoadResponse(load)
	return &resp, nil
}

func (s *LoadServiceImpl) ListLoads(req *dto.ListLoadsRequest) (*dto.LoadListResponse, error) {
	filter := repositories.LoadFilter{
		Type:      req.Type,
		Status:    req.Status,
		PickupZip: req.PickupZip,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if filter.Status == "" {
		filter.Status = models.LoadStatusActive
	}

	loads, total, err := s.loadRepo.List(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.LoadListResponse{
		Loads:    make([]dto.LoadResponse, 0, len(loads)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if resp.Page < 1 {
		resp.Page = 1
	}
	if resp.PageSize < 1 {
		resp.PageSize = 20
	}
	for i := range loads {
		resp.Loads = append(resp.Loads, dto.NewLoadResponse(&loads[i]))
	}
	return resp, nil
}

func (s *LoadServiceImpl) ListMyLoads(ownerID string) ([]dto.LoadResponse, error) {
	loads, _, err := s.loadRepo.List(repositories.LoadFilter{OwnerID: ownerID, PageSize: 100})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.LoadResponse, 0, len(loads))
	for i := range loads {
		out = append(out, dto.NewLoadResponse(&loads[i]))
	}
	return out, nil
}

func (s *LoadServiceImpl) ListAssignedLoads(carrierID string) ([]dto.LoadResponse, error) {
	loads, _, err := s.loadRepo.List(repositories.LoadFilter{AssignedTo: carrierID, PageSize: 100})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.LoadResponse, 0, len(loads))
	for i := range loads {
		out = append(out, dto.NewLoadResponse(&loads[i]))
	}
	return out, nil
}

func (s *LoadServiceImpl) UpdateLoad(ownerID, loadID string, req *dto.UpdateLoadRequest) (*dto.LoadResponse, error) {
	load, err := s.findOwnedLoad(ownerID, loadID)
	if err != nil {
		return nil, err
	}
	if load.Status != models.LoadStatusActive {
		return nil, apperrors.ErrInvalidLoadStatus
	}

	if req.PickupCity != nil {
		load.PickupCity = *req.PickupCity
	}
	if req.PickupZip != nil {
		load.PickupZip = *req.PickupZip
	}
	if req.PickupDate != nil {
		load.PickupDate = req.PickupDate
	}
	if req.DeliveryCity != nil {
		load.DeliveryCity = *req.DeliveryCity
	}
	if req.DeliveryZip != nil {
		load.DeliveryZip = *req.DeliveryZip
	}
	if req.DeliveryDate != nil {
		load.DeliveryDate = req.DeliveryDate
	}
	if req.Rate != nil {
		load.Rate = *req.Rate
	}
	if req.Details != nil {
		load.Details = req.Details
	}

	if err := s.loadRepo.Update(load); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewLoadResponse(load)
	return &resp, nil
}

func (s *LoadServiceImpl) CancelLoad(ownerID, loadID string) error {
	load, err := s.findOwnedLoad(ownerID, loadID)
	if err != nil {
		return err
	}
	if load.Status != models.LoadStatusActive {
		return apperrors.ErrInvalidLoadStatus
	}

	if err := s.loadRepo.UpdateStatus(loadID, models.LoadStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *LoadServiceImpl) CompleteLoad(ownerID, loadID string) error {
	load, err := s.findOwnedLoad(ownerID, loadID)
	if err != nil {
		return err
	}
	if load.Status != models.LoadStatusAssigned {
		return apperrors.ErrInvalidLoadStatus
	}

	if err := s.loadRepo.UpdateStatus(loadID, models.LoadStatusCompleted); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *LoadServiceImpl) findOwnedLoad(ownerID, loadID string) (*models.Load, error) {
	load, err := s.loadRepo.FindByID(loadID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrLoadNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if load.OwnerID != ownerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return load, nil
}
