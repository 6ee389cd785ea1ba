package schedule

import "time"

type ShiftType string

const (
	ShiftTypeRegular    ShiftType = "regular"
	ShiftTypeUtility24h ShiftType = "utility_24h" // round-the-clock utility crew
)

// Schedule is one employee's authoritative work schedule. TimeIn and
// TimeOut are time-of-day values: only the hour and minute are
// meaningful, the date part is ignored everywhere.
type Schedule struct {
	ID                 string
	EmployeeID         string
	TimeIn             time.Time
	TimeOut            time.Time
	GracePeriodMinutes int
	WorkDays           [7]bool // indexed by time.Weekday
	IsActive           bool
	SiteID             *string
	ShiftType          ShiftType
	EffectiveFrom      *time.Time
	EffectiveUntil     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Topology classifies how a shift's scheduled window relates to its shift
// date. Computed once per schedule; every downstream decision branches on
// this closed set instead of re-deriving it from raw clock times.
type Topology int

const (
	// SameDay shifts start and end on the shift date itself.
	SameDay Topology = iota
	// NextDay shifts start on the shift date and end past midnight.
	NextDay
	// Graveyard shifts start shortly after midnight; both clock events
	// happen on the calendar day after the shift date.
	Graveyard
)

func (t Topology) String() string {
	switch t {
	case NextDay:
		return "next_day"
	case Graveyard:
		return "graveyard"
	default:
		return "same_day"
	}
}

// MinuteOfDay converts a time-of-day value to minutes since midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Topology derives the shift topology from the scheduled clock times.
// A start hour before 05:00 with an end later the same morning is a
// graveyard shift; any other wrap past midnight is a general next-day
// shift; everything else is same-day.
func (s Schedule) Topology() Topology {
	inHour := s.TimeIn.Hour()
	outHour := s.TimeOut.Hour()
	if inHour < 5 && outHour > inHour {
		return Graveyard
	}
	if MinuteOfDay(s.TimeOut) <= MinuteOfDay(s.TimeIn) {
		return NextDay
	}
	return SameDay
}

// WorksOn reports whether the schedule covers the given weekday.
func (s Schedule) WorksOn(d time.Weekday) bool {
	return s.WorkDays[d]
}

// At pins a time-of-day value onto a calendar date.
func At(date time.Time, timeOfDay time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		date.Location(),
	)
}

// Window returns the absolute scheduled clock-in and clock-out instants
// for a shift date, accounting for topology.
func (s Schedule) Window(shiftDate time.Time) (in time.Time, out time.Time) {
	switch s.Topology() {
	case Graveyard:
		nextDay := shiftDate.AddDate(0, 0, 1)
		return At(nextDay, s.TimeIn), At(nextDay, s.TimeOut)
	case NextDay:
		return At(shiftDate, s.TimeIn), At(shiftDate.AddDate(0, 0, 1), s.TimeOut)
	default:
		return At(shiftDate, s.TimeIn), At(shiftDate, s.TimeOut)
	}
}
