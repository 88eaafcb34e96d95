package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"loadlink_backend/internal/config"
	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/pkg/email"
	"loadlink_backend/internal/repositories"

	"golang.org/x/sync/semaphore"
)

// DispatchSummary reports what happened to one fan-out batch.
type DispatchSummary struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"` // email channel disabled for the user
	Failed  int `json:"failed"`
}

type DispatchService interface {
	// DispatchLoadAlerts writes an in-app notification for every matched
	// user and fans out alert emails with bounded concurrency. One failed
	// recipient never affects the others.
	DispatchLoadAlerts(ctx context.Context, load *models.Load, matches []MatchCandidate) DispatchSummary
}

type DispatchServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	sender           email.Sender
	maxWorkers       int64
	emailGloballyOn  bool
}

func NewDispatchService(notificationRepo repositories.NotificationRepository, sender email.Sender, cfg *config.Config) DispatchService {
	return &DispatchServiceImpl{
		notificationRepo: notificationRepo,
		sender:           sender,
		maxWorkers:       cfg.Dispatch.MaxWorkers,
		emailGloballyOn:  cfg.Email.Enabled,
	}
}

func (s *DispatchServiceImpl) DispatchLoadAlerts(ctx context.Context, load *models.Load, matches []MatchCandidate) DispatchSummary {
	summary := DispatchSummary{Total: len(matches)}
	if len(matches) == 0 {
		return summary
	}

	var sent, skipped, failed atomic.Int64

	sem := semaphore.NewWeighted(s.maxWorkers)
	var wg sync.WaitGroup

	for _, match := range matches {
		match := match

		// In-app record first: it is the durable part of the alert.
		if err := s.notificationRepo.CreateLoadAlertNotification(match.User.ID, load); err != nil {
			logger.Error("Failed to create load alert notification",
				"user_id", match.User.ID, "load_id", load.ID, "error", err)
		}

		if !s.emailGloballyOn || !match.EmailEnabled {
			skipped.Add(1)
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled mid-batch; count the rest as failed.
			failed.Add(1)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.sendLoadAlert(match.User, load); err != nil {
				logger.Error("Failed to send load alert email",
					"user_id", match.User.ID, "load_id", load.ID, "error", err)
				failed.Add(1)
				return
			}
			sent.Add(1)
		}()
	}

	wg.Wait()

	summary.Sent = int(sent.Load())
	summary.Skipped = int(skipped.Load())
	summary.Failed = int(failed.Load())

	logger.Info("Load alert dispatch finished",
		"load_id", load.ID, "total", summary.Total,
		"sent", summary.Sent, "skipped", summary.Skipped, "failed", summary.Failed)

	return summary
}

func (s *DispatchServiceImpl) sendLoadAlert(user models.User, load *models.Load) error {
	data := email.LoadAlertData{
		LoadType:     string(load.Type),
		PickupCity:   load.PickupCity,
		PickupZip:    load.PickupZip,
		DeliveryCity: load.DeliveryCity,
	}
	if load.PickupDate != nil {
		data.PickupDate = load.PickupDate.Format("Jan 2, 2006")
	}
	if load.Rate > 0 {
		data.Rate = fmt.Sprintf("$%.2f", load.Rate)
	}
	return s.sender.SendLoadAlert(user.Email, user.Name, data)
}
