package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifelog/internal/errors"
)

// Category identifies one kind of log. The set is closed; storage maps each
// value to its table at definition time.
type Category string

// WriteMode describes how a category accepts new records.
type WriteMode int

const (
	CategoryStudy   Category = "study"
	CategoryFinance Category = "finance"
	CategoryDebt    Category = "debt"
	CategorySleep   Category = "sleep"
	CategoryDiary   Category = "diary"
	CategoryJob     Category = "job"
	CategoryLearn   Category = "learn"
)

const (
	// ModeAppend always inserts a new row.
	ModeAppend WriteMode = iota
	// ModeUpsert keeps exactly one row per date; a new submission replaces it.
	ModeUpsert
)

// Categories lists every log category in display order.
var Categories = []Category{
	CategoryStudy,
	CategoryFinance,
	CategoryDebt,
	CategorySleep,
	CategoryDiary,
	CategoryJob,
	CategoryLearn,
}

// ParseCategory converts a user-supplied name into a Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "jobs", "job-application", "job_application":
		name = string(CategoryJob)
	case "learning", "learn-list":
		name = string(CategoryLearn)
	case "debts":
		name = string(CategoryDebt)
	}
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownCategory, s)
}

// Mode returns the write mode used for the category.
func (c Category) Mode() WriteMode {
	switch c {
	case CategorySleep, CategoryDiary:
		return ModeUpsert
	default:
		return ModeAppend
	}
}

// DateScoped reports whether records in the category carry a log date.
func (c Category) DateScoped() bool {
	return c != CategoryDebt
}

func (c Category) String() string {
	return string(c)
}

// Title returns a human-readable label for the category.
func (c Category) Title() string {
	switch c {
	case CategoryStudy:
		return "Study Log"
	case CategoryFinance:
		return "Finance Log"
	case CategoryDebt:
		return "Debts"
	case CategorySleep:
		return "Sleep Log"
	case CategoryDiary:
		return "Diary Entry"
	case CategoryJob:
		return "Job Applications"
	case CategoryLearn:
		return "Learning List"
	default:
		return string(c)
	}
}

// ListQuery selects records from a single category.
//
// When Date is set only that day's rows are returned, in insertion order.
// Otherwise Newest orders by date (then id) descending and Limit caps the
// result; without Newest the full history is returned oldest first.
type ListQuery struct {
	Date   string
	Limit  int
	Newest bool
}

// ForDate returns a query for all rows of a single day.
func ForDate(date string) ListQuery {
	return ListQuery{Date: date}
}

// Recent returns a query for the newest limit rows.
func Recent(limit int) ListQuery {
	return ListQuery{Limit: limit, Newest: true}
}

// History returns a query for every row, oldest first.
func History() ListQuery {
	return ListQuery{}
}
