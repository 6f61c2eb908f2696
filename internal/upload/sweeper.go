package upload

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically deletes uploads older than a fixed age.
type Sweeper struct {
	cron   *cron.Cron
	store  *Store
	maxAge float64
	logger *zap.Logger
}

// NewSweeper schedules store.DeleteOlderThan(maxAgeHours) on a cron spec
// such as "@hourly" or "*/30 * * * *".
func NewSweeper(store *Store, schedule string, maxAgeHours float64, logger *zap.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sweeper{
		cron:   cron.New(),
		store:  store,
		maxAge: maxAgeHours,
		logger: logger.Named("sweeper"),
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Sweep runs one cleanup pass immediately.
func (s *Sweeper) Sweep() {
	n := s.store.DeleteOlderThan(s.maxAge)
	if n > 0 {
		s.logger.Info("swept old uploads", zap.Int("deleted", n), zap.Float64("max_age_hours", s.maxAge))
	}
}

// Start begins the schedule in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
