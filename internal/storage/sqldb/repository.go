package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/migration"
	"github.com/julianstephens/lifelog/internal/models"
)

// Dialect selects placeholder syntax. It is shared with the migration runner.
type Dialect = migration.Dialect

var (
	// ErrSettingsNotFound is returned by GetSettings before defaults are written.
	ErrSettingsNotFound = stderrors.New("settings not found")

	errNotOpen = stderrors.New("database is not open")
)

// Repository implements the record operations shared by every SQL backend.
// Writes are serialized through mu; reads go straight to the pool.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	mu      sync.Mutex
}

// New wraps an open pool.
func New(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

// DB returns the underlying pool, or nil if the repository is not open.
func (r *Repository) DB() *sql.DB {
	if r == nil {
		return nil
	}
	return r.db
}

func (r *Repository) conn(op string) (*sql.DB, error) {
	if r == nil || r.db == nil {
		return nil, errors.Storage(op, errNotOpen)
	}
	return r.db, nil
}

// rebind rewrites "?" placeholders for the dialect.
func (r *Repository) rebind(query string) string {
	if r.dialect != migration.Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// insertReturningID runs an INSERT ... RETURNING id under the write lock.
func (r *Repository) insertReturningID(ctx context.Context, op, query string, args ...any) (int64, error) {
	db, err := r.conn(op)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var id int64
	if err := db.QueryRowContext(ctx, r.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, errors.Storage(op, err)
	}
	return id, nil
}

func (r *Repository) exec(ctx context.Context, op, query string, args ...any) error {
	db, err := r.conn(op)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := db.ExecContext(ctx, r.rebind(query), args...); err != nil {
		return errors.Storage(op, err)
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, c models.Category, q models.ListQuery) (*sql.Rows, error) {
	db, err := r.conn(op)
	if err != nil {
		return nil, err
	}
	query, args, err := selectQuery(c, q)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, errors.Storage(op, err)
	}
	return rows, nil
}

func (r *Repository) GetSettings(ctx context.Context) (models.Settings, error) {
	db, err := r.conn("get settings")
	if err != nil {
		return models.Settings{}, err
	}
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, errors.Storage("get settings", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, errors.Storage("get settings", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, errors.Storage("get settings", err)
	}
	if len(data) == 0 {
		return models.Settings{}, ErrSettingsNotFound
	}
	return models.MapToSettings(data)
}

func (r *Repository) SaveSettings(ctx context.Context, settings models.Settings) error {
	db, err := r.conn("save settings")
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("save settings", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, r.rebind(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"))
	if err != nil {
		return errors.Storage("save settings", err)
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return errors.Storage("save settings", fmt.Errorf("%s: %w", key, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Storage("save settings", err)
	}
	return nil
}

func (r *Repository) AddStudyLog(ctx context.Context, l models.StudyLog) (models.StudyLog, error) {
	id, err := r.insertReturningID(ctx, "insert study log",
		`INSERT INTO study_logs (log_date, topic, summary, duration, interview_notes, book_notes, next_plan)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.Date, l.Topic, l.Summary, l.Duration, l.InterviewNotes, l.BookNotes, l.NextPlan)
	if err != nil {
		return models.StudyLog{}, err
	}
	l.ID = id
	return l, nil
}

func (r *Repository) AddFinanceLog(ctx context.Context, l models.FinanceLog) (models.FinanceLog, error) {
	id, err := r.insertReturningID(ctx, "insert finance log",
		"INSERT INTO finance_logs (log_date, income, expense) VALUES (?, ?, ?)",
		l.Date, l.Income, l.Expense)
	if err != nil {
		return models.FinanceLog{}, err
	}
	l.ID = id
	return l, nil
}

func (r *Repository) AddDebt(ctx context.Context, d models.Debt) (models.Debt, error) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	id, err := r.insertReturningID(ctx, "insert debt",
		"INSERT INTO debts (category, name, amount, created_at) VALUES (?, ?, ?, ?)",
		d.Kind, d.Name, d.Amount, d.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return models.Debt{}, err
	}
	d.ID = id
	return d, nil
}

func (r *Repository) AddJobApplication(ctx context.Context, a models.JobApplication) (models.JobApplication, error) {
	id, err := r.insertReturningID(ctx, "insert job application",
		"INSERT INTO job_applications (log_date, company, role, status) VALUES (?, ?, ?, ?)",
		a.Date, a.Company, a.Role, a.Status)
	if err != nil {
		return models.JobApplication{}, err
	}
	a.ID = id
	return a, nil
}

func (r *Repository) AddLearnItem(ctx context.Context, i models.LearnItem) (models.LearnItem, error) {
	id, err := r.insertReturningID(ctx, "insert learn item",
		"INSERT INTO learn_items (log_date, topic) VALUES (?, ?)",
		i.Date, i.Topic)
	if err != nil {
		return models.LearnItem{}, err
	}
	i.ID = id
	return i, nil
}

func (r *Repository) SaveSleepLog(ctx context.Context, l models.SleepLog) error {
	return r.exec(ctx, "save sleep log",
		`INSERT INTO sleep_logs (log_date, bed_time, wake_time, sleep_quality, core_sleep, duration)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(log_date) DO UPDATE SET
			bed_time = excluded.bed_time,
			wake_time = excluded.wake_time,
			sleep_quality = excluded.sleep_quality,
			core_sleep = excluded.core_sleep,
			duration = excluded.duration`,
		l.Date, l.BedTime, l.WakeTime, l.Quality, l.CoreSleep, l.Duration)
}

func (r *Repository) SaveDiaryLog(ctx context.Context, l models.DiaryLog) error {
	return r.exec(ctx, "save diary entry",
		`INSERT INTO diary_logs (log_date, entry) VALUES (?, ?)
		ON CONFLICT(log_date) DO UPDATE SET entry = excluded.entry`,
		l.Date, l.Entry)
}

func (r *Repository) ListStudyLogs(ctx context.Context, q models.ListQuery) ([]models.StudyLog, error) {
	const op = "list study logs"
	rows, err := r.query(ctx, op, models.CategoryStudy, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.StudyLog{}
	for rows.Next() {
		var l models.StudyLog
		if err := rows.Scan(&l.ID, &l.Date, &l.Topic, &l.Summary, &l.Duration, &l.InterviewNotes, &l.BookNotes, &l.NextPlan); err != nil {
			return nil, errors.Storage(op, err)
		}
		logs = append(logs, l)
	}
	return logs, rowsErr(op, rows)
}

func (r *Repository) ListFinanceLogs(ctx context.Context, q models.ListQuery) ([]models.FinanceLog, error) {
	const op = "list finance logs"
	rows, err := r.query(ctx, op, models.CategoryFinance, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.FinanceLog{}
	for rows.Next() {
		var l models.FinanceLog
		if err := rows.Scan(&l.ID, &l.Date, &l.Income, &l.Expense); err != nil {
			return nil, errors.Storage(op, err)
		}
		logs = append(logs, l)
	}
	return logs, rowsErr(op, rows)
}

func (r *Repository) ListDebts(ctx context.Context, q models.ListQuery) ([]models.Debt, error) {
	const op = "list debts"
	rows, err := r.query(ctx, op, models.CategoryDebt, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		var (
			d         models.Debt
			createdAt string
		)
		if err := rows.Scan(&d.ID, &d.Kind, &d.Name, &d.Amount, &createdAt); err != nil {
			return nil, errors.Storage(op, err)
		}
		if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, errors.Storage(op, fmt.Errorf("debt %d created_at: %w", d.ID, err))
		}
		debts = append(debts, d)
	}
	return debts, rowsErr(op, rows)
}

func (r *Repository) ListSleepLogs(ctx context.Context, q models.ListQuery) ([]models.SleepLog, error) {
	const op = "list sleep logs"
	rows, err := r.query(ctx, op, models.CategorySleep, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.SleepLog{}
	for rows.Next() {
		var l models.SleepLog
		if err := rows.Scan(&l.Date, &l.BedTime, &l.WakeTime, &l.Quality, &l.CoreSleep, &l.Duration); err != nil {
			return nil, errors.Storage(op, err)
		}
		logs = append(logs, l)
	}
	return logs, rowsErr(op, rows)
}

func (r *Repository) ListDiaryLogs(ctx context.Context, q models.ListQuery) ([]models.DiaryLog, error) {
	const op = "list diary entries"
	rows, err := r.query(ctx, op, models.CategoryDiary, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.DiaryLog{}
	for rows.Next() {
		var l models.DiaryLog
		if err := rows.Scan(&l.Date, &l.Entry); err != nil {
			return nil, errors.Storage(op, err)
		}
		logs = append(logs, l)
	}
	return logs, rowsErr(op, rows)
}

func (r *Repository) ListJobApplications(ctx context.Context, q models.ListQuery) ([]models.JobApplication, error) {
	const op = "list job applications"
	rows, err := r.query(ctx, op, models.CategoryJob, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.JobApplication{}
	for rows.Next() {
		var a models.JobApplication
		if err := rows.Scan(&a.ID, &a.Date, &a.Company, &a.Role, &a.Status); err != nil {
			return nil, errors.Storage(op, err)
		}
		apps = append(apps, a)
	}
	return apps, rowsErr(op, rows)
}

func (r *Repository) ListLearnItems(ctx context.Context, q models.ListQuery) ([]models.LearnItem, error) {
	const op = "list learn items"
	rows, err := r.query(ctx, op, models.CategoryLearn, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.LearnItem{}
	for rows.Next() {
		var i models.LearnItem
		if err := rows.Scan(&i.ID, &i.Date, &i.Topic); err != nil {
			return nil, errors.Storage(op, err)
		}
		items = append(items, i)
	}
	return items, rowsErr(op, rows)
}

func (r *Repository) ListStudyDates(ctx context.Context) ([]string, error) {
	const op = "list study dates"
	db, err := r.conn(op)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT DISTINCT log_date FROM study_logs ORDER BY log_date DESC")
	if err != nil {
		return nil, errors.Storage(op, err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, errors.Storage(op, err)
		}
		dates = append(dates, d)
	}
	return dates, rowsErr(op, rows)
}

func (r *Repository) HasEntryForDate(ctx context.Context, c models.Category, date string) (bool, error) {
	const op = "check entry"
	t, err := lookup(c)
	if err != nil {
		return false, err
	}
	if !c.DateScoped() {
		return false, errors.Invalid("date", "%s records are not tied to a date", c)
	}
	db, err := r.conn(op)
	if err != nil {
		return false, err
	}

	var one int
	err = db.QueryRowContext(ctx, r.rebind("SELECT 1 FROM "+t.name+" WHERE log_date = ? LIMIT 1"), date).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Storage(op, err)
	}
	return true, nil
}

func rowsErr(op string, rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return errors.Storage(op, err)
	}
	return nil
}
