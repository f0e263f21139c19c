package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifelog/internal/backup"
	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/storage"
)

var errNotSQLite = errors.New("backups are only supported for SQLite databases")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !storage.IsSQLite(ctx.Store) {
		return nil, errNotSQLite
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup(ctx.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Println(cli.SuccessStyle.Render("✓ Backup created: " + filepath.Base(backupPath)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n", len(backups), constants.MaxBackups)
	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, []string{
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0),
		})
	}
	ctx.Println(cli.Table([]string{"created", "file", "size"}, rows))
	ctx.Printf("Backup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Restore without asking for confirmation." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(mgr.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.Println(cli.WarningStyle.Render("This will replace your current database with the backup."))
		ctx.Println("A backup of your current database will be created before restoring.")
		confirmed := false
		err := huh.NewConfirm().
			Title("Restore from " + filepath.Base(backupPath) + "?").
			Affirmative("Restore").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	// The database file is swapped underneath the connection.
	if err := ctx.Store.Close(); err != nil {
		ctx.Printf("Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.RestoreBackup(ctx.Background(), backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println(cli.SuccessStyle.Render("✓ Database restored successfully!"))
	if previous != "" {
		ctx.Printf("Previous database saved as: %s\n", filepath.Base(previous))
	}
	ctx.Println("Restart any running lifelog processes to use the restored database.")
	return ctx.Store.Load()
}
