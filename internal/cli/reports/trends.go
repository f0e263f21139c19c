package reports

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/trends"
)

type TrendsCmd struct {
	Category string   `arg:"" help:"Category to chart (study, finance, sleep, debt)."`
	Fields   []string `help:"Fields to include, e.g. income,net. Defaults to every numeric field." sep:","`
	Last     int      `help:"Only show the most recent N points. 0 shows everything." default:"0"`
}

func (c *TrendsCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}
	fields := make([]trends.Field, 0, len(c.Fields))
	for _, name := range c.Fields {
		f, err := trends.ParseField(category, name)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}

	engine := ctx.Trends()
	points, err := engine.TimeSeries(ctx.Background(), category, fields...)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		for _, f := range trends.Fields {
			if f.Category() == category {
				fields = append(fields, f)
			}
		}
	}
	if c.Last > 0 && len(points) > c.Last {
		points = points[len(points)-c.Last:]
	}

	ctx.Println(cli.TitleStyle.Render(category.Title() + " trend"))
	if len(points) == 0 {
		ctx.Println(cli.MutedStyle.Render("No records found."))
		return nil
	}

	headers := []string{"date"}
	for _, f := range fields {
		headers = append(headers, f.Name())
	}
	rows := make([][]string, 0, len(points)+1)
	for _, p := range points {
		row := []string{p.Date}
		for _, f := range fields {
			row = append(row, strconv.FormatFloat(p.Values[f.Name()], 'f', -1, 64))
		}
		rows = append(rows, row)
	}

	weekly := []string{"last 7"}
	for _, f := range fields {
		total, err := engine.WeeklyTotal(ctx.Background(), f)
		if err != nil {
			return err
		}
		weekly = append(weekly, total.String())
	}
	rows = append(rows, weekly)

	ctx.Println(cli.Table(headers, rows))
	return nil
}

type BreakdownCmd struct {
	Kind string `arg:"" help:"What to group: debts (by category) or study (by topic)." enum:"debts,study" default:"debts" optional:""`
}

func (c *BreakdownCmd) Run(ctx *cli.Context) error {
	groups, err := ctx.Trends().Breakdown(ctx.Background(), c.Kind)
	if err != nil {
		return err
	}

	title := "Debts by category"
	if c.Kind == trends.BreakdownStudy {
		title = "Study hours by topic"
	}
	ctx.Println(cli.TitleStyle.Render(title))
	if len(groups) == 0 {
		ctx.Println(cli.MutedStyle.Render("No records found."))
		return nil
	}

	total := trends.Sum(trends.SortedKeys(groups), func(k string) decimal.Decimal { return groups[k] })
	rows := make([][]string, 0, len(groups))
	for _, k := range trends.SortedKeys(groups) {
		rows = append(rows, []string{k, groups[k].String(), share(groups[k], total)})
	}
	ctx.Println(cli.Table([]string{"group", "total", "share"}, rows))
	return nil
}

// share is part as a percentage of total.
func share(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "-"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
