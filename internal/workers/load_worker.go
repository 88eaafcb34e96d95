package workers

import (
	"context"
	"time"

	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/repositories"
)

// LoadWorker cancels active loads whose pickup date has passed so stale
// postings stop generating requests and alerts.
type LoadWorker struct {
	loadRepo repositories.LoadRepository
	interval time.Duration
}

func NewLoadWorker(loadRepo repositories.LoadRepository) *LoadWorker {
	return &LoadWorker{
		loadRepo: loadRepo,
		interval: 1 * time.Hour,
	}
}

// Run blocks until the context is done. Callers start it in a goroutine.
func (w *LoadWorker) Run() {
	w.Start(context.Background())
}

func (w *LoadWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Load worker stopped")
			return
		case <-ticker.C:
			count, err := w.loadRepo.CancelExpired(time.Now())
			if err != nil {
				logger.WorkerLog("load_worker", "cancel_expired", err)
			} else if count > 0 {
				logger.Info("Auto-cancelled expired loads", "count", count)
			}
		}
	}
}
