package validation

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

// Sleep quality bounds.
const (
	MinSleepQuality = 1
	MaxSleepQuality = 5
)

// Record checks rec against the invariants of its category. The returned
// error is a *errors.ValidationError for the first rejected field.
func Record(rec models.Record) error {
	switch r := rec.(type) {
	case models.StudyLog:
		return StudyLog(r)
	case models.FinanceLog:
		return FinanceLog(r)
	case models.Debt:
		return Debt(r)
	case models.SleepLog:
		return SleepLog(r)
	case models.DiaryLog:
		return DiaryLog(r)
	case models.JobApplication:
		return JobApplication(r)
	case models.LearnItem:
		return LearnItem(r)
	case nil:
		return errors.Invalid("record", "is missing")
	default:
		return errors.Invalid("record", "has unsupported type %T", rec)
	}
}

func StudyLog(l models.StudyLog) error {
	if err := Date("date", l.Date); err != nil {
		return err
	}
	if err := Required("topic", l.Topic); err != nil {
		return err
	}
	if l.Duration < 0 {
		return errors.Invalid("duration", "must not be negative, got %v", l.Duration)
	}
	return nil
}

func FinanceLog(l models.FinanceLog) error {
	if err := Date("date", l.Date); err != nil {
		return err
	}
	if err := NonNegative("income", l.Income); err != nil {
		return err
	}
	return NonNegative("expense", l.Expense)
}

func Debt(d models.Debt) error {
	if !slices.Contains(models.DebtCategories, d.Kind) {
		return errors.Invalid("category", "must be one of %s, got %q", strings.Join(models.DebtCategories, ", "), d.Kind)
	}
	if err := Required("name", d.Name); err != nil {
		return err
	}
	return NonNegative("amount", d.Amount)
}

func SleepLog(l models.SleepLog) error {
	if err := Date("date", l.Date); err != nil {
		return err
	}
	if err := Clock("bed_time", l.BedTime); err != nil {
		return err
	}
	if err := Clock("wake_time", l.WakeTime); err != nil {
		return err
	}
	if l.Quality < MinSleepQuality || l.Quality > MaxSleepQuality {
		return errors.Invalid("quality", "must be between %d and %d, got %d", MinSleepQuality, MaxSleepQuality, l.Quality)
	}
	return nil
}

func DiaryLog(l models.DiaryLog) error {
	if err := Date("date", l.Date); err != nil {
		return err
	}
	return Required("entry", l.Entry)
}

func JobApplication(a models.JobApplication) error {
	if err := Date("date", a.Date); err != nil {
		return err
	}
	return Required("company", a.Company)
}

func LearnItem(i models.LearnItem) error {
	if err := Date("date", i.Date); err != nil {
		return err
	}
	return Required("topic", i.Topic)
}

// Settings checks user settings before they are persisted.
func Settings(s models.Settings) error {
	if err := Clock("day_start", s.DayStart); err != nil {
		return err
	}
	if err := Clock("day_end", s.DayEnd); err != nil {
		return err
	}
	start, _ := utils.ParseTimeToMinutes(s.DayStart)
	end, _ := utils.ParseTimeToMinutes(s.DayEnd)
	if end <= start {
		return errors.Invalid("day_end", "must be after day_start (%s)", s.DayStart)
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return errors.Invalid("timezone", "unknown timezone %q", s.Timezone)
	}
	// Zero reads back as unset and is replaced by the default.
	if s.SleepCheckHour < 1 || s.SleepCheckHour > 23 {
		return errors.Invalid("sleep_check_hour", "must be between 1 and 23, got %d", s.SleepCheckHour)
	}
	return nil
}

// Date rejects anything that is not a real YYYY-MM-DD calendar date.
func Date(field, value string) error {
	if !utils.ValidateDateFormat(value) {
		return errors.Invalid(field, "must be a YYYY-MM-DD date, got %q", value)
	}
	return nil
}

// Clock rejects anything that is not an HH:MM time of day.
func Clock(field, value string) error {
	if !utils.ValidateTimeFormat(value) {
		return errors.Invalid(field, "must be an HH:MM time, got %q", value)
	}
	return nil
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Invalid(field, "is required")
	}
	return nil
}

func NonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return errors.Invalid(field, "must not be negative, got %s", value)
	}
	return nil
}
