package cmd

import (
	"github.com/spf13/cobra"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export backend data to a local backup file",
	Long: `Export the backend's full data snapshot (customers, products, orders, ...)
to a pretty-printed JSON file named <app>-backup-YYYY-MM-DD.json.

Examples:
  # Export to the default backup directory
  waterx-admin backup export

  # Export somewhere else
  waterx-admin backup export --backup-dir /mnt/backups`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a full backup and save it as JSON",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	a, err := consoleApplication()
	if err != nil {
		return err
	}
	defer a.Close()

	path, err := a.backup.Export(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("Backup saved", "file", path)
	return nil
}
