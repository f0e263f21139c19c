package logs

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/models"
)

type ListCmd struct {
	Category string `arg:"" help:"Category to list (study, finance, debt, sleep, diary, job, learn)."`
	Date     string `help:"Only show records for this date (YYYY-MM-DD)."`
	Limit    int    `help:"Number of recent records to show, newest first. 0 shows the full history, oldest first." default:"10"`
	Dates    bool   `help:"For study, list the dates that have logs instead."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}
	repo := ctx.Repo()

	if c.Dates {
		if category != models.CategoryStudy {
			return fmt.Errorf("--dates is only supported for study logs")
		}
		dates, err := repo.StudyDates(ctx.Background())
		if err != nil {
			return err
		}
		rows := make([][]string, len(dates))
		for i, d := range dates {
			rows[i] = []string{d}
		}
		ctx.Println(cli.TitleStyle.Render("Study dates"))
		ctx.Println(cli.Table([]string{"date"}, rows))
		return nil
	}

	var records []models.Record
	switch {
	case c.Date != "":
		records, err = repo.ListByDate(ctx.Background(), category, c.Date)
	case c.Limit <= 0:
		records, err = repo.ListHistory(ctx.Background(), category)
	default:
		records, err = repo.ListRecent(ctx.Background(), category, c.Limit)
	}
	if err != nil {
		return err
	}

	title := category.Title()
	if c.Date != "" {
		title += " · " + c.Date
	}
	ctx.Println(cli.TitleStyle.Render(title))
	if len(records) == 0 {
		ctx.Println(cli.MutedStyle.Render("No records found."))
		return nil
	}
	ctx.Println(cli.Table(cli.Columns(category), cli.RecordRows(category, records)))
	return nil
}
