package services

import (
	"loadlink_backend/internal/pkg/email"
)

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	LoadService         LoadService
	RequestService      RequestService
	MatchingService     MatchingService
	DispatchService     DispatchService
	AlertService        AlertService
	NotificationService NotificationService
	EmailSender         email.Sender
}
