package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/ports"
)

// Sweeper periodically rejects pending bids whose shipment already left
// posted. The acceptance transaction rejects competitors itself; this is a
// repair pass for rows written before that behavior existed.
type Sweeper struct {
	Bids ports.BidRepository
	Log  *zap.Logger

	cron *cron.Cron
}

func NewSweeper(bids ports.BidRepository, log *zap.Logger) *Sweeper {
	return &Sweeper{Bids: bids, Log: log, cron: cron.New()}
}

// Start schedules the sweep. Spec is a cron expression ("@every 5m" works).
func (s *Sweeper) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.Bids.RejectStale(ctx)
	if err != nil {
		s.Log.Error("stale bid sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.Log.Info("stale bids rejected", zap.Int64("count", n))
	}
}
