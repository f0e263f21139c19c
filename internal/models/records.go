package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is implemented by every log type. Fields exposes the record as a
// plain field-name to value mapping for presentation layers.
type Record interface {
	Category() Category
	LogDate() string
	Fields() map[string]any
}

// StudyLog is one study session. Many may be logged on the same date.
type StudyLog struct {
	ID             int64   `json:"id"`
	Date           string  `json:"date"` // YYYY-MM-DD format
	Topic          string  `json:"topic"`
	Summary        string  `json:"summary"`
	Duration       float64 `json:"duration"` // hours
	InterviewNotes string  `json:"interview_notes,omitempty"`
	BookNotes      string  `json:"book_notes,omitempty"`
	NextPlan       string  `json:"next_plan,omitempty"`
}

func (StudyLog) Category() Category { return CategoryStudy }
func (l StudyLog) LogDate() string  { return l.Date }
func (l StudyLog) Fields() map[string]any {
	return map[string]any{
		"id":              l.ID,
		"date":            l.Date,
		"topic":           l.Topic,
		"summary":         l.Summary,
		"duration":        l.Duration,
		"interview_notes": l.InterviewNotes,
		"book_notes":      l.BookNotes,
		"next_plan":       l.NextPlan,
	}
}

// FinanceLog is one additive income/expense transaction.
type FinanceLog struct {
	ID      int64           `json:"id"`
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Net is income minus expense for this transaction.
func (l FinanceLog) Net() decimal.Decimal {
	return l.Income.Sub(l.Expense)
}

func (FinanceLog) Category() Category { return CategoryFinance }
func (l FinanceLog) LogDate() string  { return l.Date }
func (l FinanceLog) Fields() map[string]any {
	return map[string]any{
		"id":      l.ID,
		"date":    l.Date,
		"income":  l.Income,
		"expense": l.Expense,
		"net":     l.Net(),
	}
}

// Debt kinds accepted by the ledger.
const (
	DebtCard     = "Card"
	DebtLoan     = "Loan"
	DebtHandLoan = "Hand Loan"
)

// DebtCategories lists the accepted debt kinds.
var DebtCategories = []string{DebtCard, DebtLoan, DebtHandLoan}

// Debt is a running-ledger entry. Debts are not tied to a log date.
type Debt struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"category"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Debt) Category() Category { return CategoryDebt }
func (Debt) LogDate() string    { return "" }
func (d Debt) Fields() map[string]any {
	return map[string]any{
		"id":         d.ID,
		"category":   d.Kind,
		"name":       d.Name,
		"amount":     d.Amount,
		"created_at": d.CreatedAt,
	}
}

// SleepLog is the single sleep record for a date. Duration is always derived
// from BedTime and WakeTime.
type SleepLog struct {
	Date      string  `json:"date"`
	BedTime   string  `json:"bed_time"`  // HH:MM
	WakeTime  string  `json:"wake_time"` // HH:MM
	Quality   int     `json:"quality"`   // 1..5
	CoreSleep string  `json:"core_sleep,omitempty"`
	Duration  float64 `json:"duration"` // hours
}

func (SleepLog) Category() Category { return CategorySleep }
func (l SleepLog) LogDate() string  { return l.Date }
func (l SleepLog) Fields() map[string]any {
	return map[string]any{
		"date":       l.Date,
		"bed_time":   l.BedTime,
		"wake_time":  l.WakeTime,
		"quality":    l.Quality,
		"core_sleep": l.CoreSleep,
		"duration":   l.Duration,
	}
}

// DiaryLog is the single diary entry for a date.
type DiaryLog struct {
	Date  string `json:"date"`
	Entry string `json:"entry"`
}

func (DiaryLog) Category() Category { return CategoryDiary }
func (l DiaryLog) LogDate() string  { return l.Date }
func (l DiaryLog) Fields() map[string]any {
	return map[string]any{
		"date":  l.Date,
		"entry": l.Entry,
	}
}

// JobApplication records one application sent on a date.
type JobApplication struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Company string `json:"company"`
	Role    string `json:"role"`
	Status  string `json:"status"`
}

func (JobApplication) Category() Category { return CategoryJob }
func (a JobApplication) LogDate() string  { return a.Date }
func (a JobApplication) Fields() map[string]any {
	return map[string]any{
		"id":      a.ID,
		"date":    a.Date,
		"company": a.Company,
		"role":    a.Role,
		"status":  a.Status,
	}
}

// LearnItem is a topic added to the learning list on a date.
type LearnItem struct {
	ID    int64  `json:"id"`
	Date  string `json:"date"`
	Topic string `json:"topic"`
}

func (LearnItem) Category() Category { return CategoryLearn }
func (i LearnItem) LogDate() string  { return i.Date }
func (i LearnItem) Fields() map[string]any {
	return map[string]any{
		"id":    i.ID,
		"date":  i.Date,
		"topic": i.Topic,
	}
}
