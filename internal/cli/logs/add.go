package logs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

// AddCmd groups one subcommand per log category.
type AddCmd struct {
	Study   AddStudyCmd   `cmd:"" help:"Log a study session."`
	Finance AddFinanceCmd `cmd:"" help:"Log income and expense."`
	Debt    AddDebtCmd    `cmd:"" help:"Record a debt."`
	Sleep   AddSleepCmd   `cmd:"" help:"Log last night's sleep (replaces the day's entry)."`
	Diary   AddDiaryCmd   `cmd:"" help:"Write the diary entry for a day (replaces the day's entry)."`
	Job     AddJobCmd     `cmd:"" help:"Record a job application."`
	Learn   AddLearnCmd   `cmd:"" help:"Add a topic to the learning list."`
}

func save(ctx *cli.Context, rec models.Record) (models.Record, error) {
	saved, err := ctx.Repo().Save(ctx.Background(), rec)
	if err != nil {
		return nil, err
	}
	report(ctx, saved)
	return saved, nil
}

func report(ctx *cli.Context, rec models.Record) {
	verb := "Added"
	if rec.Category().Mode() == models.ModeUpsert {
		verb = "Saved"
	}
	msg := fmt.Sprintf("✓ %s %s", verb, strings.ToLower(rec.Category().Title()))
	if date := rec.LogDate(); date != "" {
		msg += " for " + date
	}
	if id, ok := rec.Fields()["id"]; ok {
		msg += fmt.Sprintf(" (id %v)", id)
	}
	ctx.Println(cli.SuccessStyle.Render(msg))
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, errors.Invalid(field, "must be a number, got %q", value)
	}
	return d, nil
}

type AddStudyCmd struct {
	Topic          string  `arg:"" help:"What you studied."`
	Duration       float64 `help:"Hours spent." short:"d"`
	Summary        string  `help:"What you covered."`
	InterviewNotes string  `help:"Interview preparation notes."`
	BookNotes      string  `help:"Reading notes."`
	NextPlan       string  `help:"What to study next."`
	Date           string  `help:"Log date (YYYY-MM-DD). Defaults to today."`
}

func (c *AddStudyCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	_, err = save(ctx, models.StudyLog{
		Date:           date,
		Topic:          c.Topic,
		Summary:        c.Summary,
		Duration:       c.Duration,
		InterviewNotes: c.InterviewNotes,
		BookNotes:      c.BookNotes,
		NextPlan:       c.NextPlan,
	})
	return err
}

type AddFinanceCmd struct {
	Income  string `help:"Money received." default:"0"`
	Expense string `help:"Money spent." default:"0"`
	Date    string `help:"Log date (YYYY-MM-DD). Defaults to today."`
}

func (c *AddFinanceCmd) Run(ctx *cli.Context) error {
	income, err := parseMoney("income", c.Income)
	if err != nil {
		return err
	}
	expense, err := parseMoney("expense", c.Expense)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	_, err = save(ctx, models.FinanceLog{Date: date, Income: income, Expense: expense})
	return err
}

type AddDebtCmd struct {
	Name     string `arg:"" help:"Who or what the debt is owed to."`
	Amount   string `arg:"" help:"Outstanding amount."`
	Category string `help:"Debt category." enum:"Card,Loan,Hand Loan" default:"Card" short:"c"`
}

func (c *AddDebtCmd) Run(ctx *cli.Context) error {
	amount, err := parseMoney("amount", c.Amount)
	if err != nil {
		return err
	}
	_, err = save(ctx, models.Debt{Kind: c.Category, Name: c.Name, Amount: amount})
	return err
}

type AddSleepCmd struct {
	Bed     string `help:"Bed time (HH:MM)."`
	Wake    string `help:"Wake time (HH:MM)."`
	Quality int    `help:"Sleep quality from 1 to 5." default:"3"`
	Core    string `help:"Core sleep notes."`
	Date    string `help:"Log date (YYYY-MM-DD). Defaults to today."`
}

func (c *AddSleepCmd) Run(ctx *cli.Context) error {
	if c.Bed == "" || c.Wake == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	_, err = save(ctx, models.SleepLog{
		Date:      date,
		BedTime:   c.Bed,
		WakeTime:  c.Wake,
		Quality:   c.Quality,
		CoreSleep: c.Core,
	})
	return err
}

func (c *AddSleepCmd) prompt() error {
	validTime := func(s string) error {
		if !utils.ValidateTimeFormat(s) {
			return fmt.Errorf("use HH:MM")
		}
		return nil
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bed time (HH:MM)").
				Value(&c.Bed).
				Validate(validTime),
			huh.NewInput().
				Title("Wake time (HH:MM)").
				Value(&c.Wake).
				Validate(validTime),
			huh.NewSelect[int]().
				Title("Quality").
				Options(
					huh.NewOption("1 - Poor", 1),
					huh.NewOption("2", 2),
					huh.NewOption("3 - Okay", 3),
					huh.NewOption("4", 4),
					huh.NewOption("5 - Great", 5),
				).
				Value(&c.Quality),
			huh.NewInput().
				Title("Core sleep").
				Description("Optional").
				Value(&c.Core),
		),
	).Run()
}

type AddDiaryCmd struct {
	Entry string `arg:"" optional:"" help:"Diary text. Opens an editor prompt when omitted."`
	Date  string `help:"Log date (YYYY-MM-DD). Defaults to today."`
}

func (c *AddDiaryCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Entry) == "" {
		err := huh.NewText().
			Title("Diary for " + date).
			Value(&c.Entry).
			Run()
		if err != nil {
			return err
		}
	}
	_, err = save(ctx, models.DiaryLog{Date: date, Entry: c.Entry})
	return err
}

type AddJobCmd struct {
	Company string `arg:"" help:"Company applied to."`
	Role    string `help:"Role applied for." short:"r"`
	Status  string `help:"Application status." default:"Applied"`
	Date    string `help:"Application date (YYYY-MM-DD). Defaults to today."`
}

func (c *AddJobCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	_, err = save(ctx, models.JobApplication{Date: date, Company: c.Company, Role: c.Role, Status: c.Status})
	return err
}

type AddLearnCmd struct {
	Topic string `arg:"" help:"Topic to learn."`
	Date  string `help:"Date added (YYYY-MM-DD). Defaults to today."`
}

func (c *AddLearnCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	_, err = save(ctx, models.LearnItem{Date: date, Topic: c.Topic})
	return err
}
