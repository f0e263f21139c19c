// Package trends aggregates stored records into totals, groupings and
// per-record series. Aggregations over no records yield zero values.
package trends

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/metrics"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage"
)

// Field names a numeric value of one category.
type Field string

const (
	StudyDuration  Field = "study.duration"
	FinanceIncome  Field = "finance.income"
	FinanceExpense Field = "finance.expense"
	FinanceNet     Field = "finance.net"
	SleepDuration  Field = "sleep.duration"
	SleepQuality   Field = "sleep.quality"
	DebtAmount     Field = "debt.amount"
)

// Fields lists every known field.
var Fields = []Field{StudyDuration, FinanceIncome, FinanceExpense, FinanceNet, SleepDuration, SleepQuality, DebtAmount}

// ParseField accepts "category.name", or a bare name when category is given.
func ParseField(category models.Category, s string) (Field, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(name, ".") && category != "" {
		name = string(category) + "." + name
	}
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.Invalid("field", "unknown field %q", s)
}

// Category returns the category the field belongs to.
func (f Field) Category() models.Category {
	head, _, _ := strings.Cut(string(f), ".")
	return models.Category(head)
}

// Name is the field name without its category.
func (f Field) Name() string {
	_, tail, _ := strings.Cut(string(f), ".")
	return tail
}

// Engine reads through a provider and aggregates.
type Engine struct {
	store storage.Provider
}

func New(store storage.Provider) *Engine {
	return &Engine{store: store}
}

// GroupedSum sums value(item) per key(item).
func GroupedSum[T any](items []T, key func(T) string, value func(T) decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, item := range items {
		k := key(item)
		out[k] = out[k].Add(value(item))
	}
	return out
}

// Sum totals value over items.
func Sum[T any](items []T, value func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(value(item))
	}
	return total
}

// values loads the category of f with q and extracts f from each row.
func (e *Engine) values(ctx context.Context, f Field, q models.ListQuery) ([]decimal.Decimal, error) {
	switch f.Category() {
	case models.CategoryStudy:
		logs, err := e.store.ListStudyLogs(ctx, q)
		return extract(logs, err, func(l models.StudyLog) decimal.Decimal { return decimal.NewFromFloat(l.Duration) })
	case models.CategoryFinance:
		logs, err := e.store.ListFinanceLogs(ctx, q)
		return extract(logs, err, func(l models.FinanceLog) decimal.Decimal { return financeValue(f, l) })
	case models.CategorySleep:
		logs, err := e.store.ListSleepLogs(ctx, q)
		return extract(logs, err, func(l models.SleepLog) decimal.Decimal {
			if f == SleepQuality {
				return decimal.NewFromInt(int64(l.Quality))
			}
			return decimal.NewFromFloat(l.Duration)
		})
	case models.CategoryDebt:
		debts, err := e.store.ListDebts(ctx, q)
		return extract(debts, err, func(d models.Debt) decimal.Decimal { return d.Amount })
	default:
		return nil, errors.Invalid("field", "unknown field %q", string(f))
	}
}

func financeValue(f Field, l models.FinanceLog) decimal.Decimal {
	switch f {
	case FinanceIncome:
		return l.Income
	case FinanceExpense:
		return l.Expense
	default:
		return l.Net()
	}
}

func extract[T any](items []T, err error, value func(T) decimal.Decimal) ([]decimal.Decimal, error) {
	if err != nil {
		return nil, err
	}
	out := make([]decimal.Decimal, len(items))
	for i, item := range items {
		out[i] = value(item)
	}
	return out, nil
}

// WeeklyTotal sums f over the seven most recent records of its category.
func (e *Engine) WeeklyTotal(ctx context.Context, f Field) (decimal.Decimal, error) {
	vals, err := e.values(ctx, f, models.Recent(constants.WeeklyWindow))
	if err != nil {
		return decimal.Zero, err
	}
	return Sum(vals, identity), nil
}

// WeeklyAverage averages f over the seven most recent records. It is zero
// when there are none.
func (e *Engine) WeeklyAverage(ctx context.Context, f Field) (decimal.Decimal, error) {
	vals, err := e.values(ctx, f, models.Recent(constants.WeeklyWindow))
	if err != nil || len(vals) == 0 {
		return decimal.Zero, err
	}
	return Sum(vals, identity).Div(decimal.NewFromInt(int64(len(vals)))).Round(2), nil
}

// Total sums f over every record of its category.
func (e *Engine) Total(ctx context.Context, f Field) (decimal.Decimal, error) {
	vals, err := e.values(ctx, f, models.History())
	if err != nil {
		return decimal.Zero, err
	}
	return Sum(vals, identity), nil
}

func identity(d decimal.Decimal) decimal.Decimal { return d }

// DebtsByCategory sums outstanding debt per debt kind.
func (e *Engine) DebtsByCategory(ctx context.Context) (map[string]decimal.Decimal, error) {
	debts, err := e.store.ListDebts(ctx, models.History())
	if err != nil {
		return nil, err
	}
	return GroupedSum(debts,
		func(d models.Debt) string { return d.Kind },
		func(d models.Debt) decimal.Decimal { return d.Amount }), nil
}

// StudyByTopic sums study hours per topic.
func (e *Engine) StudyByTopic(ctx context.Context) (map[string]decimal.Decimal, error) {
	logs, err := e.store.ListStudyLogs(ctx, models.History())
	if err != nil {
		return nil, err
	}
	return GroupedSum(logs,
		func(l models.StudyLog) string { return l.Topic },
		func(l models.StudyLog) decimal.Decimal { return decimal.NewFromFloat(l.Duration) }), nil
}

// Breakdown kinds accepted by Breakdown.
const (
	BreakdownDebts = "debts"
	BreakdownStudy = "study"
)

// Breakdown returns the grouping named by kind.
func (e *Engine) Breakdown(ctx context.Context, kind string) (map[string]decimal.Decimal, error) {
	switch strings.ToLower(kind) {
	case BreakdownDebts, "debt":
		return e.DebtsByCategory(ctx)
	case BreakdownStudy, "topics":
		return e.StudyByTopic(ctx)
	default:
		return nil, errors.Invalid("kind", "unknown breakdown %q (want %s or %s)", kind, BreakdownDebts, BreakdownStudy)
	}
}

// Point is one record's values in a series.
type Point struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// TimeSeries returns one point per record of category, oldest first, with
// the requested fields. With no fields every field of the category is used.
func (e *Engine) TimeSeries(ctx context.Context, category models.Category, fields ...Field) ([]Point, error) {
	if len(fields) == 0 {
		for _, f := range Fields {
			if f.Category() == category {
				fields = append(fields, f)
			}
		}
	}
	if len(fields) == 0 {
		return nil, errors.Invalid("category", "%s has no numeric fields", category)
	}
	for _, f := range fields {
		if f.Category() != category {
			return nil, errors.Invalid("field", "%s does not belong to %s", f, category)
		}
	}

	points := []Point{}
	add := func(date string, value func(Field) decimal.Decimal) {
		p := Point{Date: date, Values: make(map[string]float64, len(fields))}
		for _, f := range fields {
			p.Values[f.Name()] = value(f).InexactFloat64()
		}
		points = append(points, p)
	}

	q := models.History()
	switch category {
	case models.CategoryStudy:
		logs, err := e.store.ListStudyLogs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			add(l.Date, func(Field) decimal.Decimal { return decimal.NewFromFloat(l.Duration) })
		}
	case models.CategoryFinance:
		logs, err := e.store.ListFinanceLogs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			add(l.Date, func(f Field) decimal.Decimal { return financeValue(f, l) })
		}
	case models.CategorySleep:
		logs, err := e.store.ListSleepLogs(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			add(l.Date, func(f Field) decimal.Decimal {
				if f == SleepQuality {
					return decimal.NewFromInt(int64(l.Quality))
				}
				return decimal.NewFromFloat(l.Duration)
			})
		}
	case models.CategoryDebt:
		debts, err := e.store.ListDebts(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, d := range debts {
			add(d.CreatedAt.Format(constants.DateFormat), func(Field) decimal.Decimal { return d.Amount })
		}
	}
	return points, nil
}

// Overview holds all-time totals for the home summary.
type Overview struct {
	StudyHours  decimal.Decimal `json:"study_hours"`
	Income      decimal.Decimal `json:"income"`
	SleepHours  decimal.Decimal `json:"sleep_hours"`
	DiaryCount  int             `json:"diary_count"`
	StudyTopics int             `json:"study_topics"`
}

func (e *Engine) Overview(ctx context.Context) (Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.StudyHours, err = e.Total(ctx, StudyDuration); err != nil {
		return Overview{}, err
	}
	if o.Income, err = e.Total(ctx, FinanceIncome); err != nil {
		return Overview{}, err
	}
	if o.SleepHours, err = e.Total(ctx, SleepDuration); err != nil {
		return Overview{}, err
	}
	diary, err := e.store.ListDiaryLogs(ctx, models.History())
	if err != nil {
		return Overview{}, err
	}
	o.DiaryCount = len(diary)
	topics, err := e.StudyByTopic(ctx)
	if err != nil {
		return Overview{}, err
	}
	o.StudyTopics = len(topics)
	return o, nil
}

// Highlights are the rolling seven-record figures.
type Highlights struct {
	StudyHours   decimal.Decimal `json:"study_hours"`
	Income       decimal.Decimal `json:"income"`
	AverageSleep decimal.Decimal `json:"average_sleep"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
}

func (e *Engine) Highlights(ctx context.Context) (Highlights, error) {
	var (
		h   Highlights
		err error
	)
	if h.StudyHours, err = e.WeeklyTotal(ctx, StudyDuration); err != nil {
		return Highlights{}, err
	}
	if h.Income, err = e.WeeklyTotal(ctx, FinanceIncome); err != nil {
		return Highlights{}, err
	}
	if h.AverageSleep, err = e.WeeklyAverage(ctx, SleepDuration); err != nil {
		return Highlights{}, err
	}
	if h.TotalDebt, err = e.Total(ctx, DebtAmount); err != nil {
		return Highlights{}, err
	}
	return h, nil
}

// Balance is the all-time money position.
type Balance struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Debt    decimal.Decimal `json:"debt"`
	Net     decimal.Decimal `json:"net"`
}

func (e *Engine) Balance(ctx context.Context) (Balance, error) {
	logs, err := e.store.ListFinanceLogs(ctx, models.History())
	if err != nil {
		return Balance{}, err
	}
	debt, err := e.Total(ctx, DebtAmount)
	if err != nil {
		return Balance{}, err
	}
	b := Balance{
		Income:  Sum(logs, func(l models.FinanceLog) decimal.Decimal { return l.Income }),
		Expense: Sum(logs, func(l models.FinanceLog) decimal.Decimal { return l.Expense }),
		Debt:    debt,
	}
	b.Net = metrics.NetBalance(b.Income, b.Expense, b.Debt)
	return b, nil
}

// SortedKeys returns the keys of a grouping, largest value first.
func SortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := m[keys[i]].Cmp(m[keys[j]]); c != 0 {
			return c > 0
		}
		return keys[i] < keys[j]
	})
	return keys
}

func (f Field) String() string {
	return string(f)
}

// ParseFields parses a comma separated field list for category.
func ParseFields(category models.Category, list string) ([]Field, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var out []Field
	for _, part := range strings.Split(list, ",") {
		f, err := ParseField(category, part)
		if err != nil {
			return nil, err
		}
		if f.Category() != category {
			return nil, fmt.Errorf("%w: field %s does not belong to %s", errors.ErrInvalidRecord, f, category)
		}
		out = append(out, f)
	}
	return out, nil
}
