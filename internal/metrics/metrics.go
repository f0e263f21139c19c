// Package metrics derives values from stored records: sleep duration,
// progress through the configured day, net balance and daily completion.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

const minutesPerDay = 24 * 60

// SleepDuration returns the hours slept between bed and wake (HH:MM). A wake
// time earlier than the bed time is on the following day.
func SleepDuration(bed, wake string) (float64, error) {
	bedMin, err := utils.ParseTimeToMinutes(bed)
	if err != nil {
		return 0, errors.Invalid("bed_time", "must be an HH:MM time, got %q", bed)
	}
	wakeMin, err := utils.ParseTimeToMinutes(wake)
	if err != nil {
		return 0, errors.Invalid("wake_time", "must be an HH:MM time, got %q", wake)
	}
	if wakeMin < bedMin {
		wakeMin += minutesPerDay
	}
	return utils.RoundTo(float64(wakeMin-bedMin)/60, 2), nil
}

// NetBalance is income minus everything owed or spent.
func NetBalance(income, expense, debt decimal.Decimal) decimal.Decimal {
	return income.Sub(expense.Add(debt))
}

// HourMinute is a whole-minute duration split for display.
type HourMinute struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func hourMinute(d time.Duration) HourMinute {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return HourMinute{Hours: total / 60, Minutes: total % 60}
}

func (hm HourMinute) String() string {
	return fmt.Sprintf("%dh %02dm", hm.Hours, hm.Minutes)
}

// Phase buckets day progress for reminder copy.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseEarly      Phase = "early"
	PhaseSteady     Phase = "steady"
	PhaseEnding     Phase = "ending"
	PhaseLate       Phase = "late"
)

func phaseFor(percent float64) Phase {
	switch {
	case percent > 90:
		return PhaseLate
	case percent > 60:
		return PhaseEnding
	case percent < 25:
		return PhaseEarly
	default:
		return PhaseSteady
	}
}

// Message is a short reminder line for the phase.
func (p Phase) Message() string {
	switch p {
	case PhaseNotStarted:
		return "The day has not started yet."
	case PhaseEarly:
		return "Early in the day. Plenty of time to get things logged."
	case PhaseEnding:
		return "The day is winding down. Check what is still missing."
	case PhaseLate:
		return "Almost over. Log anything left before the day ends."
	default:
		return "Keep going."
	}
}

// Window is the local-time span a day is measured against.
type Window struct {
	Start    string
	End      string
	Location *time.Location
}

// DefaultWindow returns the 08:00-23:59 window in loc.
func DefaultWindow(loc *time.Location) Window {
	return Window{Start: constants.DefaultDayStart, End: constants.DefaultDayEnd, Location: loc}
}

// WindowFromSettings builds the window configured by the user.
func WindowFromSettings(s models.Settings) (Window, error) {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return Window{}, errors.Invalid("timezone", "unknown timezone %q", s.Timezone)
	}
	return Window{Start: s.DayStart, End: s.DayEnd, Location: loc}, nil
}

// Progress describes how far now is through the window.
type Progress struct {
	Started   bool       `json:"started"`
	Percent   float64    `json:"percent"`
	Elapsed   HourMinute `json:"elapsed"`
	Remaining HourMinute `json:"remaining"`
	Phase     Phase      `json:"phase"`
}

// DayProgress places now inside the window. Before the window opens Started
// is false and Percent is 0; past its end Percent is clamped to 100.
func DayProgress(now time.Time, w Window) (Progress, error) {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	start, err := utils.AtClock(now, w.Start)
	if err != nil {
		return Progress{}, errors.Invalid("day_start", "must be an HH:MM time, got %q", w.Start)
	}
	end, err := utils.AtClock(now, w.End)
	if err != nil {
		return Progress{}, errors.Invalid("day_end", "must be an HH:MM time, got %q", w.End)
	}
	total := end.Sub(start)
	if total <= 0 {
		return Progress{}, errors.Invalid("day_end", "must be after day_start (%s)", w.Start)
	}

	if now.Before(start) {
		return Progress{
			Started:   false,
			Remaining: hourMinute(total),
			Phase:     PhaseNotStarted,
		}, nil
	}

	elapsed := now.Sub(start)
	if elapsed > total {
		elapsed = total
	}
	percent := utils.RoundTo(100*float64(elapsed)/float64(total), 1)
	percent = min(max(percent, 0), 100)

	return Progress{
		Started:   true,
		Percent:   percent,
		Elapsed:   hourMinute(elapsed),
		Remaining: hourMinute(total - elapsed),
		Phase:     phaseFor(percent),
	}, nil
}

// EntryChecker reports whether a category has a record on a date.
type EntryChecker interface {
	ExistsForDate(ctx context.Context, category models.Category, date string) (bool, error)
}

// CompletionConfig controls which categories are expected at now.
type CompletionConfig struct {
	SleepCheckHour int
	Location       *time.Location
}

// Completion is the per-category logged state for one date.
type Completion struct {
	Date   string                   `json:"date"`
	Logged map[models.Category]bool `json:"logged"`
}

// tracked lists the categories with a daily reminder, in display order.
var tracked = []models.Category{
	models.CategoryStudy,
	models.CategoryFinance,
	models.CategoryDiary,
	models.CategorySleep,
}

// Tracked returns the categories with a daily reminder, in display order.
func Tracked() []models.Category {
	return append([]models.Category(nil), tracked...)
}

// Pending returns the checked categories that have no record yet.
func (c Completion) Pending() []models.Category {
	var pending []models.Category
	for _, cat := range tracked {
		if logged, ok := c.Logged[cat]; ok && !logged {
			pending = append(pending, cat)
		}
	}
	return pending
}

// Done reports whether every checked category has been logged.
func (c Completion) Done() bool {
	return len(c.Pending()) == 0
}

// CompletionStatus checks study, finance and diary for date. Sleep is only
// checked once the local hour at now reaches cfg.SleepCheckHour.
func CompletionStatus(ctx context.Context, checker EntryChecker, date string, now time.Time, cfg CompletionConfig) (Completion, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	status := Completion{Date: date, Logged: make(map[models.Category]bool, len(tracked))}
	for _, cat := range tracked {
		if cat == models.CategorySleep && now.In(loc).Hour() < cfg.SleepCheckHour {
			continue
		}
		ok, err := checker.ExistsForDate(ctx, cat, date)
		if err != nil {
			return Completion{}, fmt.Errorf("checking %s for %s: %w", cat, date, err)
		}
		status.Logged[cat] = ok
	}
	return status, nil
}
