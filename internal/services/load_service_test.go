package services

import (
	"testing"
	"time"

	"loadlink_backend/internal/config"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadFixture struct {
	svc              LoadService
	loadRepo         *fakeLoadRepo
	userRepo         *fakeUserRepo
	notificationRepo *fakeNotificationRepo
	sender           *fakeSender
}

func newLoadFixture() *loadFixture {
	f := &loadFixture{
		loadRepo:         newFakeLoadRepo(),
		userRepo:         newFakeUserRepo(),
		notificationRepo: &fakeNotificationRepo{},
		sender:           newFakeSender(),
	}

	cfg := &config.Config{}
	cfg.Email.Enabled = true
	cfg.Dispatch.MaxWorkers = 4

	matching := NewMatchingService(f.userRepo, &fakeResolver{coords: testCoords})
	dispatch := NewDispatchService(f.notificationRepo, f.sender, cfg)
	f.svc = NewLoadService(f.loadRepo, f.userRepo, matching, dispatch)
	return f
}

func (f *loadFixture) addOwner(id string, status models.UserStatus) {
	user := &models.User{Role: models.UserRoleBroker, Status: status}
	user.ID = id
	user.Email = id + "@example.com"
	f.userRepo.add(user)
}

func createLoadReq(ownerID, zip string) *dto.CreateLoadRequest {
	return &dto.CreateLoadRequest{
		OwnerID:    ownerID,
		Type:       models.LoadTypeBrokerPost,
		PickupCity: "Chicago",
		PickupZip:  zip,
	}
}

func TestCreateLoad_Success(t *testing.T) {
	f := newLoadFixture()
	f.addOwner("owner", models.UserStatusActive)

	resp, err := f.svc.CreateLoad(createLoadReq("owner", "60601"))
	require.NoError(t, err)
	assert.Equal(t, models.LoadStatusActive, resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.Nil(t, resp.AssignedTo)
}

func TestCreateLoad_SuspendedOwner(t *testing.T) {
	f := newLoadFixture()
	f.addOwner("owner", models.UserStatusSuspended)

	_, err := f.svc.CreateLoad(createLoadReq("owner", "60601"))
	assert.ErrorIs(t, err, apperrors.ErrUserSuspended)
}

func TestCreateLoad_TriggersAlertFanOut(t *testing.T) {
	f := newLoadFixture()
	f.addOwner("owner", models.UserStatusActive)
	f.userRepo.candidates = []models.User{
		candidateUser("carrier", models.UserRoleCarrier, nil, area("20002", 100)),
	}

	_, err := f.svc.CreateLoad(createLoadReq("owner", "10001"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.notificationRepo.created("load_alert") == 1 && f.sender.sentCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCreateLoad_UnresolvableZipStillPosts(t *testing.T) {
	f := newLoadFixture()
	f.addOwner("owner", models.UserStatusActive)
	f.userRepo.candidates = []models.User{
		candidateUser("carrier", models.UserRoleCarrier, nil, area("20002", 5000)),
	}

	resp, err := f.svc.CreateLoad(createLoadReq("owner", "00000"))
	require.NoError(t, err)
	assert.Equal(t, models.LoadStatusActive, resp.Status)

	// Geocoding failure means no alerts, never a failed posting.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, f.notificationRepo.created("load_alert"))
}

func TestCancelLoad(t *testing.T) {
	f := newLoadFixture()
	f.addOwner("owner", models.UserStatusActive)
	f.loadRepo.add(&models.Load{ID: "load-1", OwnerID: "owner", Status: models.LoadStatusActive})

	require.NoError(t, f.svc.CancelLoad("owner", "load-1"))

	load, err := f.loadRepo.FindByID("load-1")
	require.NoError(t, err)
	assert.Equal(t, models.LoadStatusCancelled, load.Status)
}

func TestCancelLoad_NotOwner(t *testing.T) {
	f := newLoadFixture()
	f.loadRepo.add(&models.Load{ID: "load-1", OwnerID: "owner", Status: models.LoadStatusActive})

	err := f.svc.CancelLoad("intruder", "load-1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestCompleteLoad_RequiresAssigned(t *testing.T) {
	f := newLoadFixture()
	f.loadRepo.add(&models.Load{ID: "load-1", OwnerID: "owner", Status: models.LoadStatusActive})

	err := f.svc.CompleteLoad("owner", "load-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidLoadStatus)

	carrier := "carrier"
	f.loadRepo.add(&models.Load{ID: "load-2", OwnerID: "owner", Status: models.LoadStatusAssigned, AssignedTo: &carrier})
	assert.NoError(t, f.svc.CompleteLoad("owner", "load-2"))
}

func TestUpdateLoad_OnlyWhileActive(t *testing.T) {
	f := newLoadFixture()
	carrier := "carrier"
	f.loadRepo.add(&models.Load{ID: "load-1", OwnerID: "owner", Status: models.LoadStatusAssigned, AssignedTo: &carrier})

	rate := 1500.0
	_, err := f.svc.UpdateLoad("owner", "load-1", &dto.UpdateLoadRequest{Rate: &rate})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLoadStatus)
}
