package scheduler

import (
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Checkpointer re-persists its current state.
type Checkpointer interface {
	Checkpoint()
}

// SnapshotScheduler periodically re-issues the cart snapshot so that a write
// swallowed after a backend outage is eventually retried.
type SnapshotScheduler struct {
	cron   *cron.Cron
	spec   string
	target Checkpointer
}

func NewSnapshotScheduler(spec string, target Checkpointer) *SnapshotScheduler {
	return &SnapshotScheduler{
		cron:   cron.New(),
		spec:   spec,
		target: target,
	}
}

// Start registers the checkpoint job. An empty spec leaves the scheduler idle.
func (s *SnapshotScheduler) Start() error {
	if s.spec == "" {
		logger.Info("Cart checkpoint scheduler disabled", nil)
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Debug("Running scheduled cart checkpoint", nil)
		s.target.Checkpoint()
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart checkpoint", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart checkpoint scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop waits for a running checkpoint to finish.
func (s *SnapshotScheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cart checkpoint scheduler stopped", nil)
}
