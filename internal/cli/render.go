package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders headers and rows as a bordered terminal table.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// ProgressBar renders percent (0..100) as a gradient bar of the given width.
func ProgressBar(percent float64, width int) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width))
	return bar.ViewAs(percent / 100)
}

// columns fixes the display order of each category's fields.
var columns = map[models.Category][]string{
	models.CategoryStudy:   {"id", "date", "topic", "duration", "summary", "next_plan"},
	models.CategoryFinance: {"id", "date", "income", "expense", "net"},
	models.CategoryDebt:    {"id", "category", "name", "amount", "created_at"},
	models.CategorySleep:   {"date", "bed_time", "wake_time", "duration", "quality", "core_sleep"},
	models.CategoryDiary:   {"date", "entry"},
	models.CategoryJob:     {"id", "date", "company", "role", "status"},
	models.CategoryLearn:   {"id", "date", "topic"},
}

// Columns returns the field names shown for category.
func Columns(category models.Category) []string {
	if cols, ok := columns[category]; ok {
		return cols
	}
	return nil
}

// RecordRows flattens records into table rows in Columns order.
func RecordRows(category models.Category, records []models.Record) [][]string {
	cols := Columns(category)
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		fields := rec.Fields()
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = FormatValue(fields[col])
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatValue renders a record field for the terminal.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return truncate(val, 48)
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", val), "0"), ".")
	case decimal.Decimal:
		return val.StringFixed(2)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(constants.DateFormat)
	default:
		return fmt.Sprint(val)
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
