package services

import (
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"
)

type NotificationService interface {
	List(userID string, req *dto.ListNotificationsRequest) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) List(userID string, req *dto.ListNotificationsRequest) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindByUser(userID, req.UnreadOnly, req.Page, req.PageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		UnreadCount:   unread,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if resp.Page < 1 {
		resp.Page = 1
	}
	if resp.PageSize < 1 {
		resp.PageSize = 20
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.NewNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *NotificationServiceImpl) MarkAsRead(userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(userID, notificationID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
