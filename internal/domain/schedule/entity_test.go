package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hour, min int) time.Time {
	return time.Date(2000, time.January, 1, hour, min, 0, 0, time.UTC)
}

func TestTopology(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   time.Time
		out  time.Time
		want Topology
	}{
		{"office hours", clock(8, 0), clock(17, 0), SameDay},
		{"evening into morning", clock(22, 0), clock(7, 0), NextDay},
		{"noon into midnight", clock(15, 0), clock(0, 0), NextDay},
		{"just past midnight start", clock(0, 0), clock(9, 0), Graveyard},
		{"4am start", clock(4, 0), clock(13, 0), Graveyard},
		{"5am start is not graveyard", clock(5, 0), clock(14, 0), SameDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Schedule{TimeIn: tt.in, TimeOut: tt.out}
			assert.Equal(t, tt.want, s.Topology())
		})
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()
	shiftDate := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	s := Schedule{TimeIn: clock(8, 0), TimeOut: clock(17, 0)}
	in, out := s.Window(shiftDate)
	assert.Equal(t, time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC), in)
	assert.Equal(t, time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC), out)

	s = Schedule{TimeIn: clock(22, 0), TimeOut: clock(7, 0)}
	in, out = s.Window(shiftDate)
	assert.Equal(t, time.Date(2026, time.March, 2, 22, 0, 0, 0, time.UTC), in)
	assert.Equal(t, time.Date(2026, time.March, 3, 7, 0, 0, 0, time.UTC), out)

	// Graveyard: both clock events happen on the day after the shift date.
	s = Schedule{TimeIn: clock(0, 0), TimeOut: clock(9, 0)}
	in, out = s.Window(shiftDate)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), in)
	assert.Equal(t, time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC), out)
}

func TestWorksOn(t *testing.T) {
	t.Parallel()
	var s Schedule
	s.WorkDays[time.Monday] = true

	assert.True(t, s.WorksOn(time.Monday))
	assert.False(t, s.WorksOn(time.Sunday))
}
