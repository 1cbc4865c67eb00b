package status

import (
	"context"
	"io"
	"time"

	"github.com/robfig/cron/v3"

	"meetcal/internal/apperr"
	appLog "meetcal/internal/log"
)

// Watch runs the pipeline immediately and then on every tick of schedule
// until ctx is cancelled. A failed tick is logged and skipped; overlapping
// ticks are dropped.
func Watch(ctx context.Context, opts Options, schedule string, w io.Writer) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	tick := func() {
		if _, err := Run(ctx, opts, time.Now(), w); err != nil {
			appLog.Error("status run failed", err, "calendar", opts.CalendarPath)
		}
	}

	if _, err := c.AddFunc(schedule, tick); err != nil {
		return apperr.Config("invalid watch_schedule "+schedule, err)
	}

	appLog.Info("watching calendar", "calendar", opts.CalendarPath, "schedule", schedule)
	tick()

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	appLog.Info("watch stopped")
	return nil
}
