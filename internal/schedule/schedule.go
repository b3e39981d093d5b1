// Package schedule decides whether a candidate course meeting time
// collides with a student's existing enrollments.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Slot is one parsed weekly meeting: a weekday plus a minute-of-day
// interval, half-open at the end.
type Slot struct {
	Weekday time.Weekday
	Start   int
	End     int
}

// Enrollment is the view of an existing enrollment the checker needs:
// the course name (for the conflict reason) and its free-text schedule.
type Enrollment struct {
	CourseName string
	ClassTime  string
}

var slotPattern = regexp.MustCompile(`^\s*([A-Za-z]+)\s+(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s*$`)

var weekdays = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// Parse reads a schedule string of the form "Mon 10:00-11:40". The
// second value is false when the text carries no parsable schedule;
// such courses never participate in conflicts.
func Parse(text string) (Slot, bool) {
	m := slotPattern.FindStringSubmatch(text)
	if m == nil {
		return Slot{}, false
	}
	day, ok := weekdays[strings.ToLower(m[1])]
	if !ok {
		return Slot{}, false
	}
	startH, _ := strconv.Atoi(m[2])
	startM, _ := strconv.Atoi(m[3])
	endH, _ := strconv.Atoi(m[4])
	endM, _ := strconv.Atoi(m[5])
	if startH > 23 || endH > 23 || startM > 59 || endM > 59 {
		return Slot{}, false
	}
	slot := Slot{
		Weekday: day,
		Start:   startH*60 + startM,
		End:     endH*60 + endM,
	}
	if slot.Start >= slot.End {
		return Slot{}, false
	}
	return slot, true
}

// Overlaps reports whether two slots collide: same weekday and
// overlapping minute intervals. Touching endpoints do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Weekday == o.Weekday && s.Start < o.End && o.Start < s.End
}

// HasConflict checks a candidate schedule against existing enrollments
// and stops at the first collision. The reason names the conflicting
// course and its schedule text. Unparsable schedules on either side are
// skipped, never reported as conflicts.
func HasConflict(candidate string, existing []Enrollment) (bool, string) {
	slot, ok := Parse(candidate)
	if !ok {
		return false, ""
	}
	for _, e := range existing {
		other, ok := Parse(e.ClassTime)
		if !ok {
			continue
		}
		if slot.Overlaps(other) {
			return true, fmt.Sprintf("time conflict with %s (%s)", e.CourseName, e.ClassTime)
		}
	}
	return false, ""
}
