package repositories

import (
	"errors"
	"fmt"
	"time"

	"loadlink_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByUser(userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	CountUnread(userID string) (int64, error)

	// Factory helpers keep the notification wording in one place.
	CreateLoadAlertNotification(userID string, load *models.Load) error
	CreateNewRequestNotification(ownerID string, load *models.Load, request *models.LoadRequest, pendingCount int64) error
	CreateRequestDecisionNotification(requesterID string, load *models.Load, status models.RequestStatus, message *string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByUser(userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) MarkAsRead(userID, notificationID string) error {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *NotificationRepositoryImpl) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Factory helpers

func (r *NotificationRepositoryImpl) CreateLoadAlertNotification(userID string, load *models.Load) error {
	data := datatypes.JSON(fmt.Sprintf(`{"load_id": %q, "load_type": %q}`, load.ID, load.Type))
	return r.Create(&models.Notification{
		UserID:  userID,
		Type:    "load_alert",
		Title:   "New load in your service area",
		Message: fmt.Sprintf("A new load from %s to %s matches one of your service areas", load.PickupCity, load.DeliveryCity),
		Data:    data,
	})
}

func (r *NotificationRepositoryImpl) CreateNewRequestNotification(ownerID string, load *models.Load, request *models.LoadRequest, pendingCount int64) error {
	data := datatypes.JSON(fmt.Sprintf(`{"load_id": %q, "request_id": %q, "pending_count": %d}`, load.ID, request.ID, pendingCount))
	return r.Create(&models.Notification{
		UserID:  ownerID,
		Type:    "new_request",
		Title:   "New request on your load",
		Message: fmt.Sprintf("A carrier requested your load %s - %s (%d pending)", load.PickupCity, load.DeliveryCity, pendingCount),
		Data:    data,
	})
}

func (r *NotificationRepositoryImpl) CreateRequestDecisionNotification(requesterID string, load *models.Load, status models.RequestStatus, message *string) error {
	data := datatypes.JSON(fmt.Sprintf(`{"load_id": %q, "decision": %q}`, load.ID, status))
	title := "Your request was rejected"
	body := fmt.Sprintf("Your request for load %s - %s was not accepted", load.PickupCity, load.DeliveryCity)
	if status == models.RequestStatusAccepted {
		title = "Your request was accepted"
		body = fmt.Sprintf("You were assigned the load %s - %s", load.PickupCity, load.DeliveryCity)
	}
	if message != nil && *message != "" {
		body = body + ": " + *message
	}
	return r.Create(&models.Notification{
		UserID:  requesterID,
		Type:    "request_decision",
		Title:   title,
		Message: body,
		Data:    data,
	})
}
