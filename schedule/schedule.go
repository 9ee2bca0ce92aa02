// Package schedule derives a plant's watering status from its frequency and
// its most recent watering. Everything here is pure and safe for concurrent
// use.
package schedule

import (
	"math"
	"time"

	"github.com/ZamarianPatrick/lazypig-care/model"
)

const day = 24 * time.Hour

type Classification string

const (
	Unscheduled Classification = "unscheduled"
	Overdue     Classification = "overdue"
	DueToday    Classification = "due_today"
	DueSoon     Classification = "due_soon"
	OK          Classification = "ok"
)

// Compute returns the schedule status at now. A plant that was never watered
// has no next date and is not overdue.
//
// Days until watering is the ceiling of the remaining time in days, so a
// plant due in a few hours still reads as 1 day and one that is a few hours
// late reads as 0 (due today).
func Compute(frequencyDays int, lastWateredAt *time.Time, now time.Time) model.ScheduleStatus {
	if lastWateredAt == nil {
		return model.ScheduleStatus{}
	}

	last := *lastWateredAt
	next := last.Add(time.Duration(frequencyDays) * day)
	days := DaysBetween(now, next)

	return model.ScheduleStatus{
		NextWateringDate:  &next,
		LastWateredDate:   &last,
		DaysUntilWatering: &days,
		IsOverdue:         days < 0,
	}
}

// DaysBetween is ceil((to - from) / 24h).
func DaysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// ForPlant computes the status of p given its latest event, which may be nil.
func ForPlant(p model.Plant, latest *model.WateringEvent, now time.Time) model.ScheduleStatus {
	if latest == nil {
		return Compute(p.WateringFrequencyDays, nil, now)
	}
	at := latest.WateredAt
	return Compute(p.WateringFrequencyDays, &at, now)
}

// IsDue reports whether watering is due today or overdue.
func IsDue(s model.ScheduleStatus) bool {
	return IsDueWithin(s, 0)
}

// IsDueWithin reports whether the plant needs water within threshold days.
// Unscheduled plants never do.
func IsDueWithin(s model.ScheduleStatus, threshold int) bool {
	return s.DaysUntilWatering != nil && *s.DaysUntilWatering <= threshold
}

// Classify buckets a status for dashboards. overdueThreshold is usually -1 and
// dueSoonThreshold 2.
func Classify(s model.ScheduleStatus, dueSoonThreshold, overdueThreshold int) Classification {
	if s.DaysUntilWatering == nil {
		return Unscheduled
	}

	days := *s.DaysUntilWatering
	switch {
	case days <= overdueThreshold:
		return Overdue
	case days <= 0:
		return DueToday
	case days <= dueSoonThreshold:
		return DueSoon
	default:
		return OK
	}
}
