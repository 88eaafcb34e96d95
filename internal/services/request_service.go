package services

import (
	"fmt"

	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/pkg/email"
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"
)

type RequestService interface {
	// CreateRequest submits a bid against an open load. Owners cannot bid
	// on their own loads, only active accounts may bid, and a requester
	// holds at most one pending bid per load.
	CreateRequest(req *dto.CreateLoadRequestRequest) (*dto.LoadRequestResponse, error)

	// DecideRequest lets the load owner (or an admin) accept or reject a
	// pending bid.
	// Accepting assigns the load and rejects every competing pending bid
	// in the same transaction; when two accepts race, exactly one wins.
	DecideRequest(ownerID, requestID string, req *dto.DecideRequestRequest) (*dto.LoadRequestResponse, error)

	ListByLoad(ownerID, loadID string) ([]dto.LoadRequestResponse, error)
	ListMine(requesterID string) ([]dto.LoadRequestResponse, error)
}

type RequestServiceImpl struct {
	requestRepo      repositories.RequestRepository
	loadRepo         repositories.LoadRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	sender           email.Sender
	emailEnabled     bool
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	loadRepo repositories.LoadRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	sender email.Sender,
	emailEnabled bool,
) RequestService {
	return &RequestServiceImpl{
		requestRepo:      requestRepo,
		loadRepo:         loadRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		sender:           sender,
		emailEnabled:     emailEnabled,
	}
}

func (s *RequestServiceImpl) CreateRequest(req *dto.CreateLoadRequestRequest) (*dto.LoadRequestResponse, error) {
	load, err := s.loadRepo.FindByID(req.LoadID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrLoadNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if load.OwnerID == req.RequesterID {
		return nil, apperrors.ErrCannotRequestOwnLoad
	}
	if !load.IsOpen() {
		if load.AssignedTo != nil {
			return nil, apperrors.ErrLoadAlreadyAssigned
		}
		return nil, apperrors.ErrLoadNotActive
	}

	requester, err := s.userRepo.FindByID(req.RequesterID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if requester.Status != models.UserStatusActive {
		return nil, apperrors.ErrRequesterInactive
	}

	pending, err := s.requestRepo.HasPendingRequest(req.LoadID, req.RequesterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if pending {
		return nil, apperrors.ErrDuplicatePendingRequest
	}

	request := &models.LoadRequest{
		LoadID:       load.ID,
		RequesterID:  requester.ID,
		OwnerID:      load.OwnerID,
		Status:       models.RequestStatusPending,
		ProposedRate: req.ProposedRate,
		Message:      req.Message,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	go s.notifyOwnerOfRequest(load, request, requester)

	resp := dto.NewLoadRequestResponse(request)
	return &resp, nil
}

func (s *RequestServiceImpl) DecideRequest(ownerID, requestID string, req *dto.DecideRequestRequest) (*dto.LoadRequestResponse, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if request.OwnerID != ownerID {
		// Administrators may decide on behalf of the owner.
		decider, err := s.userRepo.FindByID(ownerID)
		if err != nil || decider.Role != models.UserRoleAdmin {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}
	if !request.IsPending() {
		return nil, apperrors.ErrRequestAlreadyProcessed
	}

	load := request.Load
	if load == nil {
		loaded, err := s.loadRepo.FindByID(request.LoadID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		load = loaded
	}

	switch req.Status {
	case models.RequestStatusRejected:
		return s.reject(request, load, req.ResponseMessage)
	case models.RequestStatusAccepted:
		return s.accept(request, load, req.ResponseMessage)
	default:
		return nil, apperrors.NewBadRequestError("Unknown status value")
	}
}

// requireOpen enforces the shared decision precondition: the load must
// still be active and unassigned, whichever way the owner decides.
func requireOpen(load *models.Load) error {
	if !load.IsOpen() {
		if load.AssignedTo != nil {
			return apperrors.ErrLoadAlreadyAssigned
		}
		return apperrors.ErrLoadNotActive
	}
	return nil
}

func (s *RequestServiceImpl) reject(request *models.LoadRequest, load *models.Load, responseMessage *string) (*dto.LoadRequestResponse, error) {
	if err := requireOpen(load); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Reject(request.ID, responseMessage); err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			// Lost a race with another decision on the same request.
			return nil, apperrors.ErrRequestAlreadyProcessed
		}
		return nil, apperrors.InternalError(err)
	}

	request.Status = models.RequestStatusRejected
	request.ResponseMessage = responseMessage

	go s.notifyRequesterOfDecision(request.RequesterID, load, models.RequestStatusRejected, responseMessage)

	resp := dto.NewLoadRequestResponse(request)
	return &resp, nil
}

func (s *RequestServiceImpl) accept(request *models.LoadRequest, load *models.Load, responseMessage *string) (*dto.LoadRequestResponse, error) {
	if err := requireOpen(load); err != nil {
		return nil, err
	}

	// Siblings recorded up front: they guard against an already-accepted
	// competitor and let the losers be notified after the transaction
	// rejects them.
	siblings, err := s.requestRepo.FindByLoad(load.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range siblings {
		if siblings[i].ID != request.ID && siblings[i].Status == models.RequestStatusAccepted {
			return nil, apperrors.ErrSiblingAlreadyAccepted
		}
	}

	requester, err := s.userRepo.FindByID(request.RequesterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if requester.Status != models.UserStatusActive {
		return nil, apperrors.ErrRequesterInactive
	}

	err = s.requestRepo.AcceptAndAssign(request.ID, load.ID, request.RequesterID, responseMessage)
	if err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrAssignmentConflict):
			return nil, apperrors.ErrAssignmentRaceLost
		case apperrors.Is(err, repositories.ErrRequestNotFound):
			return nil, apperrors.ErrRequestAlreadyProcessed
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	request.Status = models.RequestStatusAccepted
	request.ResponseMessage = responseMessage

	go s.notifyAfterAssignment(request, load, siblings, responseMessage)

	resp := dto.NewLoadRequestResponse(request)
	return &resp, nil
}

func (s *RequestServiceImpl) ListByLoad(ownerID, loadID string) ([]dto.LoadRequestResponse, error) {
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

	requests, err := s.requestRepo.FindByLoad(loadID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.LoadRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewLoadRequestResponse(&requests[i]))
	}
	return out, nil
}

func (s *RequestServiceImpl) ListMine(requesterID string) ([]dto.LoadRequestResponse, error) {
	requests, err := s.requestRepo.FindByRequester(requesterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.LoadRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewLoadRequestResponse(&requests[i]))
	}
	return out, nil
}

// --- Side effects ---

func (s *RequestServiceImpl) notifyOwnerOfRequest(load *models.Load, request *models.LoadRequest, requester *models.User) {
	pendingCount, err := s.requestRepo.CountPendingByLoad(load.ID)
	if err != nil {
		logger.Error("Failed to count pending requests",
			"load_id", load.ID, "error", err)
		pendingCount = 1
	}

	if err := s.notificationRepo.CreateNewRequestNotification(load.OwnerID, load, request, pendingCount); err != nil {
		logger.Error("Failed to create new-request notification",
			"owner_id", load.OwnerID, "request_id", request.ID, "error", err)
	}

	if !s.emailEnabled {
		return
	}

	owner, err := s.userRepo.FindByID(load.OwnerID)
	if err != nil {
		logger.Error("Failed to load owner for request email",
			"owner_id", load.OwnerID, "error", err)
		return
	}

	data := email.RequestReceivedData{
		CarrierName: requester.Name,
		LoadRoute:   loadRoute(load),
	}
	if request.ProposedRate != nil {
		data.ProposedRate = fmt.Sprintf("$%.2f", *request.ProposedRate)
	}
	if err := s.sender.SendRequestReceived(owner.Email, owner.Name, data); err != nil {
		logger.Error("Failed to send request-received email",
			"owner_id", owner.ID, "error", err)
	}
}

func (s *RequestServiceImpl) notifyAfterAssignment(winner *models.LoadRequest, load *models.Load, siblings []models.LoadRequest, responseMessage *string) {
	s.notifyRequesterOfDecision(winner.RequesterID, load, models.RequestStatusAccepted, responseMessage)

	cascade := models.CascadeRejectionMessage
	for i := range siblings {
		sibling := &siblings[i]
		if sibling.ID == winner.ID || !sibling.IsPending() {
			continue
		}
		s.notifyRequesterOfDecision(sibling.RequesterID, load, models.RequestStatusRejected, &cascade)
	}
}

func (s *RequestServiceImpl) notifyRequesterOfDecision(requesterID string, load *models.Load, decision models.RequestStatus, message *string) {
	if err := s.notificationRepo.CreateRequestDecisionNotification(requesterID, load, decision, message); err != nil {
		logger.Error("Failed to create decision notification",
			"requester_id", requesterID, "load_id", load.ID, "error", err)
	}

	if !s.emailEnabled {
		return
	}

	requester, err := s.userRepo.FindByID(requesterID)
	if err != nil {
		logger.Error("Failed to load requester for decision email",
			"requester_id", requesterID, "error", err)
		return
	}

	data := email.RequestDecisionData{
		LoadRoute: loadRoute(load),
		Decision:  string(decision),
	}
	if message != nil {
		data.OwnerNote = *message
	}
	if err := s.sender.SendRequestDecision(requester.Email, requester.Name, data); err != nil {
		logger.Error("Failed to send decision email",
			"requester_id", requesterID, "error", err)
	}
}

func loadRoute(load *models.Load) string {
	if load.DeliveryCity == "" {
		return load.PickupCity
	}
	return load.PickupCity + " - " + load.DeliveryCity
}
