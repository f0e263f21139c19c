package system

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	current, latest, err := ctx.Store.SchemaVersion(ctx.Background())
	if err != nil {
		return err
	}
	if current < latest {
		ctx.PerformAutomaticBackup()
	}

	count, err := ctx.Store.Migrate(ctx.Background(), func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
