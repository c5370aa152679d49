package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"github.com/wltlabs/staffhub/internal/config"
	"github.com/wltlabs/staffhub/internal/service"
)

// PunchOutWorker closes attendance records that were never punched out,
// waking on a cron schedule and auto-closing anything still open past the
// workday cutoff.
type PunchOutWorker struct {
	attendance *service.AttendanceService
	cfg        config.AttendanceConfig
	logger     *zap.Logger
}

// NewPunchOutWorker constructs the worker.
func NewPunchOutWorker(attendance *service.AttendanceService, cfg config.AttendanceConfig, logger *zap.Logger) *PunchOutWorker {
	return &PunchOutWorker{attendance: attendance, cfg: cfg, logger: logger}
}

// Start launches the scheduler goroutine. The returned cancel stops it.
func (w *PunchOutWorker) Start(ctx context.Context) (context.CancelFunc, error) {
	cronExpr := w.cfg.AutoPunchOutCron
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid auto punch-out cron expression: %s", cronExpr)
	}

	runCtx, cancel := context.WithCancel(ctx)
	go w.run(runCtx, cronExpr)

	w.logger.Info("auto punch-out scheduler started", zap.String("cron", cronExpr))
	return cancel, nil
}

func (w *PunchOutWorker) run(ctx context.Context, cronExpr string) {
	for {
		next, err := gronx.NextTickAfter(cronExpr, time.Now(), false)
		if err != nil {
			w.logger.Error("next tick computation failed", zap.Error(err))
			select {
			case <-time.After(30 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			w.logger.Info("auto punch-out scheduler stopping")
			return
		}

		cutoff := Cutoff(time.Now(), w.cfg.WorkdayEndHour)
		closed, err := w.attendance.AutoPunchOut(ctx, cutoff)
		if err != nil {
			w.logger.Error("auto punch-out run failed", zap.Error(err))
			continue
		}
		if closed > 0 {
			w.logger.Info("auto punch-out run",
				zap.Int("closed", closed), zap.Time("cutoff", cutoff))
		}
	}
}

// Cutoff returns the workday-end instant for the day of now. Records opened
// before it and still open are eligible for auto punch-out.
func Cutoff(now time.Time, endHour int) time.Time {
	if endHour <= 0 || endHour > 23 {
		endHour = 20
	}
	year, month, day := now.Date()
	cutoff := time.Date(year, month, day, endHour, 0, 0, 0, now.Location())
	if cutoff.After(now) {
		// before today's end-of-day: only records from previous days qualify
		cutoff = cutoff.AddDate(0, 0, -1)
	}
	return cutoff
}
