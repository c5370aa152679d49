package domain

import "time"

// Attendance records a single working day for a user. At most one open
// (un-punched-out) record exists per user per day.
type Attendance struct {
	ID           string
	UserID       string
	Day          time.Time
	PunchIn      time.Time
	PunchOut     *time.Time
	AutoPunchOut bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open reports whether the record still awaits a punch-out.
func (a *Attendance) Open() bool {
	return a.PunchOut == nil
}
