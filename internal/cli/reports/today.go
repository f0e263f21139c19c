package reports

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/metrics"
)

// TodayCmd shows the day-progress bar, what is still missing today and the
// rolling highlights.
type TodayCmd struct {
	Width int `help:"Width of the progress bar." default:"40"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	settings, now, err := ctx.Settings()
	if err != nil {
		return err
	}
	window, err := metrics.WindowFromSettings(settings)
	if err != nil {
		return err
	}
	progress, err := metrics.DayProgress(now, window)
	if err != nil {
		return err
	}

	date := now.Format(constants.DateFormat)
	ctx.Println(cli.TitleStyle.Render(now.Format("Monday, January 2")))
	ctx.Println(cli.ProgressBar(progress.Percent, c.Width))
	if progress.Started {
		ctx.Printf("%s elapsed, %s left (%s-%s)\n", progress.Elapsed, progress.Remaining, window.Start, window.End)
	} else {
		ctx.Printf("Day starts at %s\n", window.Start)
	}
	ctx.Println(cli.MutedStyle.Render(progress.Phase.Message()))
	ctx.Println()

	completion, err := metrics.CompletionStatus(ctx.Background(), ctx.Repo(), date, now, metrics.CompletionConfig{
		SleepCheckHour: settings.SleepCheckHour,
		Location:       now.Location(),
	})
	if err != nil {
		return err
	}
	ctx.Println(cli.TitleStyle.Render("Today's logs"))
	for _, category := range metrics.Tracked() {
		logged, checked := completion.Logged[category]
		switch {
		case !checked:
			ctx.Printf("  %s %s\n", cli.MutedStyle.Render("·"), cli.MutedStyle.Render(category.Title()+" (later)"))
		case logged:
			ctx.Printf("  %s %s\n", cli.SuccessStyle.Render("✓"), category.Title())
		default:
			ctx.Printf("  %s %s\n", cli.DangerStyle.Render("✗"), category.Title())
		}
	}
	if completion.Done() {
		ctx.Println(cli.SuccessStyle.Render("All caught up."))
	} else {
		ctx.Println(cli.WarningStyle.Render(fmt.Sprintf("%d still to log.", len(completion.Pending()))))
	}
	ctx.Println()

	engine := ctx.Trends()
	highlights, err := engine.Highlights(ctx.Background())
	if err != nil {
		return err
	}
	balance, err := engine.Balance(ctx.Background())
	if err != nil {
		return err
	}
	ctx.Println(cli.TitleStyle.Render("Last 7 records"))
	ctx.Println(cli.Table(
		[]string{"study hours", "income", "avg sleep", "total debt", "net balance"},
		[][]string{{
			highlights.StudyHours.String(),
			highlights.Income.StringFixed(2),
			highlights.AverageSleep.String(),
			highlights.TotalDebt.StringFixed(2),
			balance.Net.StringFixed(2),
		}},
	))
	return nil
}
