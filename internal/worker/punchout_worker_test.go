package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/wltlabs/staffhub/internal/config"
)

func TestCutoff(t *testing.T) {
	loc := time.UTC

	t.Run("after end of day uses today", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 22, 30, 0, 0, loc)
		got := Cutoff(now, 20)
		assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, loc), got)
	})

	t.Run("before end of day falls back to yesterday", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
		got := Cutoff(now, 20)
		assert.Equal(t, time.Date(2025, 3, 9, 20, 0, 0, 0, loc), got)
	})

	t.Run("exactly at the cutoff uses today", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 20, 0, 0, 0, loc)
		got := Cutoff(now, 20)
		assert.Equal(t, now, got)
	})

	t.Run("out-of-range hour defaults to 20", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)
		assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, loc), Cutoff(now, 0))
		assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, loc), Cutoff(now, 24))
	})
}

func TestStartRejectsInvalidCron(t *testing.T) {
	cfg := config.AttendanceConfig{AutoPunchOutCron: "not a cron", WorkdayEndHour: 20}
	w := NewPunchOutWorker(nil, cfg, zap.NewNop())

	cancel, err := w.Start(context.Background())
	assert.Error(t, err)
	assert.Nil(t, cancel)
}
