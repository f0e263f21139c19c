package sqldb

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
)

// table describes how a category is laid out in SQL. Table and column names
// come only from this registry, never from user input.
type table struct {
	name    string
	columns string
	// keyed tables hold one row per log_date and have no surrogate id.
	keyed bool
}

var tables = map[models.Category]table{
	models.CategoryStudy: {
		name:    "study_logs",
		columns: "id, log_date, topic, summary, duration, interview_notes, book_notes, next_plan",
	},
	models.CategoryFinance: {
		name:    "finance_logs",
		columns: "id, log_date, income, expense",
	},
	models.CategoryDebt: {
		name:    "debts",
		columns: "id, category, name, amount, created_at",
	},
	models.CategorySleep: {
		name:    "sleep_logs",
		columns: "log_date, bed_time, wake_time, sleep_quality, core_sleep, duration",
		keyed:   true,
	},
	models.CategoryDiary: {
		name:    "diary_logs",
		columns: "log_date, entry",
		keyed:   true,
	},
	models.CategoryJob: {
		name:    "job_applications",
		columns: "id, log_date, company, role, status",
	},
	models.CategoryLearn: {
		name:    "learn_items",
		columns: "id, log_date, topic",
	},
}

func lookup(c models.Category) (table, error) {
	t, ok := tables[c]
	if !ok {
		return table{}, fmt.Errorf("%w: %q", errors.ErrUnknownCategory, string(c))
	}
	return t, nil
}

// selectQuery builds the SELECT for a category and list query.
func selectQuery(c models.Category, q models.ListQuery) (string, []any, error) {
	t, err := lookup(c)
	if err != nil {
		return "", nil, err
	}

	query := "SELECT " + t.columns + " FROM " + t.name
	var args []any

	switch {
	case q.Date != "":
		if !c.DateScoped() {
			return "", nil, errors.Invalid("date", "%s records are not tied to a date", c)
		}
		query += " WHERE log_date = ?"
		args = append(args, q.Date)
		if !t.keyed {
			query += " ORDER BY id ASC"
		}
	case q.Newest:
		switch {
		case !c.DateScoped():
			query += " ORDER BY id DESC"
		case t.keyed:
			query += " ORDER BY log_date DESC"
		default:
			query += " ORDER BY log_date DESC, id DESC"
		}
		if q.Limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", q.Limit)
		}
	default:
		switch {
		case !c.DateScoped():
			query += " ORDER BY id ASC"
		case t.keyed:
			query += " ORDER BY log_date ASC"
		default:
			query += " ORDER BY log_date ASC, id ASC"
		}
	}
	return query, args, nil
}
