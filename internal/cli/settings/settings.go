package settings

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DayStart       *string `help:"Start of the day-progress window (HH:MM)."`
	DayEnd         *string `help:"End of the day-progress window (HH:MM)."`
	Timezone       *string `help:"IANA timezone name, or Local for the system timezone."`
	SleepCheckHour *int    `help:"Local hour after which a missing sleep log counts as pending."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, _, err := ctx.Settings()
	if err != nil {
		return err
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Day Start:        %s\n", settings.DayStart)
		ctx.Printf("  Day End:          %s\n", settings.DayEnd)
		ctx.Printf("  Timezone:         %s\n", settings.Timezone)
		ctx.Printf("  Sleep Check Hour: %d:00\n", settings.SleepCheckHour)
		return nil
	}

	updated := false
	if c.DayStart != nil {
		settings.DayStart = *c.DayStart
		updated = true
	}
	if c.DayEnd != nil {
		settings.DayEnd = *c.DayEnd
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.SleepCheckHour != nil {
		settings.SleepCheckHour = *c.SleepCheckHour
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := validation.Settings(settings); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(ctx.Background(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
