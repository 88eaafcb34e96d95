package services

import (
	"testing"
	"time"

	"loadlink_backend/internal/models"
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestFixture struct {
	svc              RequestService
	requestRepo      *fakeRequestRepo
	loadRepo         *fakeLoadRepo
	userRepo         *fakeUserRepo
	notificationRepo *fakeNotificationRepo
	sender           *fakeSender
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requestRepo:      newFakeRequestRepo(),
		loadRepo:         newFakeLoadRepo(),
		userRepo:         newFakeUserRepo(),
		notificationRepo: &fakeNotificationRepo{},
		sender:           newFakeSender(),
	}
	f.svc = NewRequestService(f.requestRepo, f.loadRepo, f.userRepo, f.notificationRepo, f.sender, true)
	return f
}

func (f *requestFixture) addUser(id string, role models.UserRole, status models.UserStatus) {
	user := &models.User{Role: role, Status: status}
	user.ID = id
	user.Email = id + "@example.com"
	user.Name = id
	f.userRepo.add(user)
}

func (f *requestFixture) addActiveLoad(id, ownerID string) *models.Load {
	load := &models.Load{
		ID:         id,
		OwnerID:    ownerID,
		Type:       models.LoadTypeBrokerPost,
		Status:     models.LoadStatusActive,
		PickupCity: "Chicago",
		PickupZip:  "60601",
	}
	f.loadRepo.add(load)
	return load
}

func (f *requestFixture) addPendingRequest(id, loadID, requesterID, ownerID string) *models.LoadRequest {
	request := &models.LoadRequest{
		LoadID:      loadID,
		RequesterID: requesterID,
		OwnerID:     ownerID,
		Status:      models.RequestStatusPending,
	}
	request.ID = id
	f.requestRepo.add(request)
	return request
}

func dtoCreateRequest(loadID, requesterID string) *dto.CreateLoadRequestRequest {
	return &dto.CreateLoadRequestRequest{
		LoadID:      loadID,
		RequesterID: requesterID,
	}
}

func dtoDecision(decision models.RequestStatus) *dto.DecideRequestRequest {
	return &dto.DecideRequestRequest{Status: decision}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *apperrors.AppError, got %v", err)
	return appErr.HTTPCode
}

// --- CreateRequest ---

func TestCreateRequest_Success(t *testing.T) {
	f := newRequestFixture()
	f.addUser("owner", models.UserRoleBroker, models.UserStatusActive)
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")

	resp, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "carrier"))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, resp.Status)
	assert.Equal(t, "owner", resp.OwnerID)

	// Owner gets an in-app notification and an email, off the request path.
	require.Eventually(t, func() bool {
		return f.notificationRepo.created("new_request") == 1 && f.sender.sentCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The notification reports the load's current pending-bid count.
	assert.Contains(t, f.notificationRepo.lastMessage("new_request"), "1 pending")
}

func TestCreateRequest_OwnLoad(t *testing.T) {
	f := newRequestFixture()
	f.addUser("owner", models.UserRoleBroker, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")

	_, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "owner"))
	assert.ErrorIs(t, err, apperrors.ErrCannotRequestOwnLoad)
}

func TestCreateRequest_LoadNotFound(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)

	_, err := f.svc.CreateRequest(dtoCreateRequest("missing", "carrier"))
	assert.Equal(t, 404, httpCode(t, err))
}

func TestCreateRequest_LoadAlreadyAssigned(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	load := f.addActiveLoad("load-1", "owner")
	winner := "someone-else"
	load.Status = models.LoadStatusAssigned
	load.AssignedTo = &winner

	_, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "carrier"))
	assert.ErrorIs(t, err, apperrors.ErrLoadAlreadyAssigned)
}

func TestCreateRequest_LoadCancelled(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	load := f.addActiveLoad("load-1", "owner")
	load.Status = models.LoadStatusCancelled

	_, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "carrier"))
	assert.ErrorIs(t, err, apperrors.ErrLoadNotActive)
}

func TestCreateRequest_InactiveRequester(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusSuspended)
	f.addActiveLoad("load-1", "owner")

	_, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "carrier"))
	assert.ErrorIs(t, err, apperrors.ErrRequesterInactive)
}

func TestCreateRequest_DuplicatePending(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	_, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "carrier"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePendingRequest)
	assert.Equal(t, 409, httpCode(t, err))
}

func TestCreateRequest_SecondRequesterAllowed(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier-1", models.UserRoleCarrier, models.UserStatusActive)
	f.addUser("carrier-2", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier-1", "owner")

	_, err := f.svc.CreateRequest(dtoCreateRequest("load-1", "carrier-2"))
	assert.NoError(t, err)
}

// --- DecideRequest ---

func TestDecideRequest_NotOwner(t *testing.T) {
	f := newRequestFixture()
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	_, err := f.svc.DecideRequest("intruder", "req-1", dtoDecision(models.RequestStatusAccepted))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Equal(t, 403, httpCode(t, err))
}

func TestDecideRequest_AdminMayDecide(t *testing.T) {
	f := newRequestFixture()
	f.addUser("admin", models.UserRoleAdmin, models.UserStatusActive)
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	resp, err := f.svc.DecideRequest("admin", "req-1", dtoDecision(models.RequestStatusAccepted))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, resp.Status)
}

func TestDecideRequest_AcceptInactiveRequester(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusSuspended)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusAccepted))
	assert.ErrorIs(t, err, apperrors.ErrRequesterInactive)
	assert.Zero(t, f.requestRepo.acceptCallCount)
}

func TestDecideRequest_AlreadyProcessed(t *testing.T) {
	f := newRequestFixture()
	f.addActiveLoad("load-1", "owner")
	request := f.addPendingRequest("req-1", "load-1", "carrier", "owner")
	request.Status = models.RequestStatusRejected

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusAccepted))
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyProcessed)
}

func TestDecideRequest_Reject(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	decision := dtoDecision(models.RequestStatusRejected)
	note := "Rate too high"
	decision.ResponseMessage = &note

	resp, err := f.svc.DecideRequest("owner", "req-1", decision)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, resp.Status)
	require.NotNil(t, resp.ResponseMessage)
	assert.Equal(t, note, *resp.ResponseMessage)

	// Rejection never touches the load.
	load, err := f.loadRepo.FindByID("load-1")
	require.NoError(t, err)
	assert.Equal(t, models.LoadStatusActive, load.Status)
	assert.Nil(t, load.AssignedTo)

	require.Eventually(t, func() bool {
		return f.notificationRepo.created("request_decision") == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDecideRequest_RejectOnCancelledLoad(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	load := f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")
	load.Status = models.LoadStatusCancelled

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusRejected))
	assert.ErrorIs(t, err, apperrors.ErrLoadNotActive)

	// The request is left untouched.
	request, findErr := f.requestRepo.FindByID("req-1")
	require.NoError(t, findErr)
	assert.Equal(t, models.RequestStatusPending, request.Status)
}

func TestDecideRequest_RejectOnAssignedLoad(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	load := f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	winner := "someone-else"
	load.Status = models.LoadStatusAssigned
	load.AssignedTo = &winner

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusRejected))
	assert.ErrorIs(t, err, apperrors.ErrLoadAlreadyAssigned)
}

func TestDecideRequest_AcceptWithAcceptedSibling(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier-1", models.UserRoleCarrier, models.UserStatusActive)
	f.addUser("carrier-2", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier-1", "owner")
	sibling := f.addPendingRequest("req-2", "load-1", "carrier-2", "owner")
	sibling.Status = models.RequestStatusAccepted

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusAccepted))
	assert.ErrorIs(t, err, apperrors.ErrSiblingAlreadyAccepted)
	assert.Zero(t, f.requestRepo.acceptCallCount)
}

func TestDecideRequest_Accept(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier-1", models.UserRoleCarrier, models.UserStatusActive)
	f.addUser("carrier-2", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier-1", "owner")
	f.addPendingRequest("req-2", "load-1", "carrier-2", "owner")

	resp, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusAccepted))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, resp.Status)

	// The competing pending request is cascade-rejected.
	sibling, err := f.requestRepo.FindByID("req-2")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, sibling.Status)
	require.NotNil(t, sibling.ResponseMessage)
	assert.Equal(t, models.CascadeRejectionMessage, *sibling.ResponseMessage)

	// Winner and loser are both notified.
	require.Eventually(t, func() bool {
		return f.notificationRepo.created("request_decision") == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDecideRequest_AcceptRaceLost(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")
	f.requestRepo.acceptErr = repositories.ErrAssignmentConflict

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusAccepted))
	assert.ErrorIs(t, err, apperrors.ErrAssignmentRaceLost)
	assert.Equal(t, 409, httpCode(t, err))
}

func TestDecideRequest_AcceptOnAssignedLoad(t *testing.T) {
	f := newRequestFixture()
	f.addUser("carrier", models.UserRoleCarrier, models.UserStatusActive)
	load := f.addActiveLoad("load-1", "owner")
	f.addPendingRequest("req-1", "load-1", "carrier", "owner")

	winner := "someone-else"
	load.Status = models.LoadStatusAssigned
	load.AssignedTo = &winner

	_, err := f.svc.DecideRequest("owner", "req-1", dtoDecision(models.RequestStatusAccepted))
	assert.ErrorIs(t, err, apperrors.ErrLoadAlreadyAssigned)
	assert.Zero(t, f.requestRepo.acceptCallCount)
}
