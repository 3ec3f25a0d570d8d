package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ScheduleCleanup runs Cleanup once immediately and then on schedule (a
// cron spec such as "@daily"). Stop the returned cron to end it.
func (s *Store) ScheduleCleanup(schedule string, retention time.Duration) (*cron.Cron, error) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Cleanup(ctx, retention); err != nil {
			s.logger.Error("error cleaning up old visitor data", zap.Error(err))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		return nil, fmt.Errorf("schedule cleanup %q: %w", schedule, err)
	}

	go run()
	c.Start()
	return c, nil
}
