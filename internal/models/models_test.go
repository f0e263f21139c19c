package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "github.com/julianstephens/lifelog/internal/errors"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"study", CategoryStudy, false},
		{" Finance ", CategoryFinance, false},
		{"debts", CategoryDebt, false},
		{"SLEEP", CategorySleep, false},
		{"diary", CategoryDiary, false},
		{"jobs", CategoryJob, false},
		{"learning", CategoryLearn, false},
		{"study_logs", "", true},
		{"", "", true},
		{"sleep_logs; DROP TABLE debts", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrUnknownCategory) {
					t.Fatalf("ParseCategory(%q) error = %v, want ErrUnknownCategory", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoryModes(t *testing.T) {
	upsert := map[Category]bool{CategorySleep: true, CategoryDiary: true}
	for _, c := range Categories {
		want := ModeAppend
		if upsert[c] {
			want = ModeUpsert
		}
		if got := c.Mode(); got != want {
			t.Errorf("%s.Mode() = %v, want %v", c, got, want)
		}
		if got, want := c.DateScoped(), c != CategoryDebt; got != want {
			t.Errorf("%s.DateScoped() = %v, want %v", c, got, want)
		}
	}
}

func TestFinanceLogNet(t *testing.T) {
	l := FinanceLog{Income: decimal.RequireFromString("120.50"), Expense: decimal.RequireFromString("20.25")}
	if !l.Net().Equal(decimal.RequireFromString("100.25")) {
		t.Errorf("Net() = %s, want 100.25", l.Net())
	}
	if !l.Fields()["net"].(decimal.Decimal).Equal(l.Net()) {
		t.Error("Fields()[\"net\"] should match Net()")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	in := Settings{DayStart: "07:30", DayEnd: "22:00", Timezone: "America/Chicago", SleepCheckHour: 6}
	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings() error: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	if _, err := MapToSettings(map[string]string{"sleep_check_hour": "five"}); err == nil {
		t.Error("expected error for non-numeric sleep_check_hour")
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	s := Settings{DayStart: "09:00"}
	ApplyDefaultSettings(&s)
	want := Settings{DayStart: "09:00", DayEnd: "23:59", Timezone: "Local", SleepCheckHour: 5}
	if s != want {
		t.Errorf("ApplyDefaultSettings() = %+v, want %+v", s, want)
	}
}
