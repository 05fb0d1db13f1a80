package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"waterx/internal/backup"
	apperrors "waterx/internal/errors"
	"waterx/internal/fs"
)

var restoreConfirm bool

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore all backend data from a backup file",
	Long: `Restore the backend from a file previously written by 'backup export'.

The file must be a JSON object containing at least the customers, products
and orders collections. ALL current data is replaced.

Dry-run by default: without --confirm the file is checked and nothing is sent.

Examples:
  # Check a file
  waterx-admin restore ~/waterx_backups/waterx-backup-2024-05-01.json

  # Restore it
  waterx-admin restore ~/waterx_backups/waterx-backup-2024-05-01.json --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreConfirm, "confirm", false, "Confirm and execute restore (required)")
}

func runRestore(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !restoreConfirm && !cfg.TUIAutoConfirm {
		return restoreDryRun(path)
	}

	a, err := consoleApplication()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.backup.SelectFile(path); err != nil {
		return err
	}
	if !a.backup.RequestRestore() {
		return fmt.Errorf("restore could not be started")
	}
	return a.backup.Confirm(cmd.Context())
}

// restoreDryRun checks the file the same way a real restore would and
// reports what would happen
func restoreDryRun(path string) error {
	content, err := fs.ReadText(fs.OS(), path)
	if err != nil {
		return apperrors.NewDataError(apperrors.ErrCodeFileRead, "Failed to read the backup file.", err)
	}
	if err := backup.Validate([]byte(content)); err != nil {
		return err
	}

	fmt.Println("\n[DRY-RUN] DRY-RUN MODE - No changes will be made")
	fmt.Printf("\nWould restore:\n")
	fmt.Printf("  File: %s\n", path)
	fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(len(content))))
	fmt.Printf("  API:  %s\n", cfg.APIURL)
	fmt.Println("\nALL current data will be replaced.")
	fmt.Println("To execute this restore, add --confirm flag")
	return nil
}
