package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vestisen/internal/logger"
	"vestisen/internal/services"
)

// Interval between expiration sweeps.
const sweepInterval = time.Hour

// Scheduler runs the publication expiration sweep in the background.
type Scheduler struct {
	annonces *services.AnnonceService
}

func New(annonces *services.AnnonceService) *Scheduler {
	return &Scheduler{annonces: annonces}
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.sweep()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("expiration scheduler stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	if err := s.annonces.RevertExpired(); err != nil {
		logger.Log.Error("expiration sweep failed", zap.Error(err))
	}
}
