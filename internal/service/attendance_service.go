package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// AttendanceService tracks daily punch in/out records.
type AttendanceService struct {
	attendance repository.AttendanceRepository
	teams      repository.TeamRepository
	logger     *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(attendance repository.AttendanceRepository, teams repository.TeamRepository, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{attendance: attendance, teams: teams, logger: logger}
}

// PunchIn opens today's record. A second punch-in the same day conflicts.
func (s *AttendanceService) PunchIn(ctx context.Context, userID string) (*domain.Attendance, error) {
	now := time.Now()
	day := now.Truncate(24 * time.Hour)

	existing, err := s.attendance.GetOpenForDay(ctx, userID, day)
	if err == nil {
		if existing.Open() {
			return nil, apperrors.NewConflict("already punched in today", nil)
		}
		return nil, apperrors.NewConflict("attendance already closed for today", nil)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	record := &domain.Attendance{UserID: userID, Day: day, PunchIn: now}
	if err := s.attendance.Create(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// PunchOut closes today's open record.
func (s *AttendanceService) PunchOut(ctx context.Context, userID string) (*domain.Attendance, error) {
	now := time.Now()
	day := now.Truncate(24 * time.Hour)

	record, err := s.attendance.GetOpenForDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("attendance record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !record.Open() {
		return nil, apperrors.NewConflict("already punched out", nil)
	}
	if err := s.attendance.PunchOut(ctx, record.ID, now, false); err != nil {
		return nil, apperrors.MapError(err)
	}
	record.PunchOut = &now
	return record, nil
}

// History returns the user's records within [from, to].
func (s *AttendanceService) History(ctx context.Context, userID string, from, to time.Time) ([]domain.Attendance, error) {
	records, err := s.attendance.ListForUser(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// TeamReport returns attendance for every member of teams the manager
// leads, within [from, to].
func (s *AttendanceService) TeamReport(ctx context.Context, managerID string, from, to time.Time) ([]domain.Attendance, error) {
	led, err := s.teams.ListLedBy(ctx, managerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idSet := map[string]struct{}{}
	for _, team := range led {
		for _, id := range team.MemberIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	records, err := s.attendance.ListForUsers(ctx, ids, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// AutoPunchOut closes every record still open past the cutoff, marking it
// auto-closed. Invoked by the cron worker.
func (s *AttendanceService) AutoPunchOut(ctx context.Context, cutoff time.Time) (int, error) {
	open, err := s.attendance.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	closed := 0
	for _, record := range open {
		if err := s.attendance.PunchOut(ctx, record.ID, cutoff, true); err != nil {
			s.logger.Warn("auto punch-out failed",
				zap.String("attendance_id", record.ID), zap.Error(err))
			continue
		}
		closed++
	}
	return closed, nil
}
