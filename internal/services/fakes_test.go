package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"loadlink_backend/internal/geo"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/pkg/email"
	"loadlink_backend/internal/repositories"
)

// --- fake user repository ---

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]*models.User
	candidates []models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(emailAddr string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == emailAddr {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) UpdateStatus(userID string, status models.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Status = status
	return nil
}

func (r *fakeUserRepo) FindAlertCandidates(excludeUserID string) ([]models.User, error) {
	out := make([]models.User, 0, len(r.candidates))
	for _, c := range r.candidates {
		if c.ID != excludeUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CreateRefreshToken(token *models.RefreshToken) error { return nil }
func (r *fakeUserRepo) FindRefreshToken(token string) (*models.RefreshToken, error) {
	return nil, repositories.ErrUserNotFound
}
func (r *fakeUserRepo) DeleteRefreshToken(token string) error      { return nil }
func (r *fakeUserRepo) DeleteUserRefreshTokens(userID string) error { return nil }

// --- fake load repository ---

type fakeLoadRepo struct {
	mu    sync.Mutex
	loads map[string]*models.Load
}

func newFakeLoadRepo() *fakeLoadRepo {
	return &fakeLoadRepo{loads: make(map[string]*models.Load)}
}

func (r *fakeLoadRepo) add(load *models.Load) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads[load.ID] = load
}

func (r *fakeLoadRepo) Create(load *models.Load) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if load.ID == "" {
		load.ID = fmt.Sprintf("load-%d", len(r.loads)+1)
	}
	r.loads[load.ID] = load
	return nil
}

func (r *fakeLoadRepo) FindByID(id string) (*models.Load, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	load, ok := r.loads[id]
	if !ok {
		return nil, repositories.ErrLoadNotFound
	}
	copied := *load
	return &copied, nil
}

func (r *fakeLoadRepo) Update(load *models.Load) error {
	r.add(load)
	return nil
}

func (r *fakeLoadRepo) UpdateStatus(loadID string, status models.LoadStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	load, ok := r.loads[loadID]
	if !ok {
		return repositories.ErrLoadNotFound
	}
	load.Status = status
	return nil
}

func (r *fakeLoadRepo) List(filter repositories.LoadFilter) ([]models.Load, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Load
	for _, load := range r.loads {
		if filter.OwnerID != "" && load.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && load.Status != filter.Status {
			continue
		}
		if filter.Type != "" && load.Type != filter.Type {
			continue
		}
		if filter.AssignedTo != "" && (load.AssignedTo == nil || *load.AssignedTo != filter.AssignedTo) {
			continue
		}
		out = append(out, *load)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLoadRepo) CancelExpired(now time.Time) (int64, error) { return 0, nil }

// --- fake request repository ---

type fakeRequestRepo struct {
	mu              sync.Mutex
	requests        map[string]*models.LoadRequest
	acceptErr       error
	acceptCallCount int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*models.LoadRequest)}
}

func (r *fakeRequestRepo) add(request *models.LoadRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = request
}

func (r *fakeRequestRepo) Create(request *models.LoadRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == "" {
		request.ID = fmt.Sprintf("req-%d", len(r.requests)+1)
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) FindByID(id string) (*models.LoadRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequestRepo) FindByLoad(loadID string) ([]models.LoadRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LoadRequest
	for _, request := range r.requests {
		if request.LoadID == loadID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) FindByRequester(requesterID string) ([]models.LoadRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LoadRequest
	for _, request := range r.requests {
		if request.RequesterID == requesterID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) HasPendingRequest(loadID, requesterID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.LoadID == loadID && request.RequesterID == requesterID && request.Status == models.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) CountPendingByLoad(loadID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, request := range r.requests {
		if request.LoadID == loadID && request.Status == models.RequestStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) Reject(requestID string, responseMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[requestID]
	if !ok || request.Status != models.RequestStatusPending {
		return repositories.ErrRequestNotFound
	}
	request.Status = models.RequestStatusRejected
	request.ResponseMessage = responseMessage
	return nil
}

func (r *fakeRequestRepo) AcceptAndAssign(requestID, loadID, requesterID string, responseMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acceptCallCount++
	if r.acceptErr != nil {
		return r.acceptErr
	}
	winner, ok := r.requests[requestID]
	if !ok || winner.Status != models.RequestStatusPending {
		return repositories.ErrRequestNotFound
	}
	winner.Status = models.RequestStatusAccepted
	winner.ResponseMessage = responseMessage
	cascade := models.CascadeRejectionMessage
	for _, sibling := range r.requests {
		if sibling.LoadID == loadID && sibling.ID != requestID && sibling.Status == models.RequestStatusPending {
			sibling.Status = models.RequestStatusRejected
			sibling.ResponseMessage = &cascade
		}
	}
	return nil
}

// --- fake notification repository ---

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (r *fakeNotificationRepo) lastMessage(notificationType string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := ""
	for _, n := range r.notifications {
		if n.Type == notificationType {
			msg = n.Message
		}
	}
	return msg
}

func (r *fakeNotificationRepo) created(notificationType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.Type == notificationType {
			count++
		}
	}
	return count
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) FindByUser(userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(userID, notificationID string) error { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error              { return nil }

func (r *fakeNotificationRepo) CountUnread(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) CreateLoadAlertNotification(userID string, load *models.Load) error {
	return r.Create(&models.Notification{UserID: userID, Type: "load_alert"})
}

func (r *fakeNotificationRepo) CreateNewRequestNotification(ownerID string, load *models.Load, request *models.LoadRequest, pendingCount int64) error {
	return r.Create(&models.Notification{UserID: ownerID, Type: "new_request", Message: fmt.Sprintf("%d pending", pendingCount)})
}

func (r *fakeNotificationRepo) CreateRequestDecisionNotification(requesterID string, load *models.Load, status models.RequestStatus, message *string) error {
	return r.Create(&models.Notification{UserID: requesterID, Type: "request_decision"})
}

// --- fake email sender ---

type fakeSender struct {
	mu       sync.Mutex
	sent     []string // recipient addresses, in send order
	failFor  map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]bool)}
}

func (s *fakeSender) record(to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[to] {
		return fmt.Errorf("smtp rejected %s", to)
	}
	s.sent = append(s.sent, to)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSender) Send(e *email.Email) error {
	if len(e.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	return s.record(e.To[0])
}

func (s *fakeSender) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	return s.record(to[0])
}

func (s *fakeSender) SendLoadAlert(to, userName string, data email.LoadAlertData) error {
	return s.record(to)
}

func (s *fakeSender) SendRequestReceived(to, userName string, data email.RequestReceivedData) error {
	return s.record(to)
}

func (s *fakeSender) SendRequestDecision(to, userName string, data email.RequestDecisionData) error {
	return s.record(to)
}

func (s *fakeSender) SendWelcome(to, userName, role string) error {
	return s.record(to)
}

// --- fake zip resolver ---

type fakeResolver struct {
	coords map[string]geo.Coordinates
}

func (r *fakeResolver) Resolve(_ context.Context, zip string) (geo.Coordinates, error) {
	coords, ok := r.coords[zip]
	if !ok {
		return geo.Coordinates{}, geo.ErrZipNotFound
	}
	return coords, nil
}
