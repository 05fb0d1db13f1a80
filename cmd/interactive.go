package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"waterx/internal/fs"
	"waterx/internal/logger"
	"waterx/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"ui", "menu"},
	Short:   "Open the interactive settings screen",
	Long: `Open the interactive settings screen: edit your profile and the logo,
export a backup, pick a backup file and restore it after confirmation.

Set TUI_AUTO_CONFIRM=true to confirm the restore dialog automatically, and
TUI_LOG_FILE to keep a log of the session (the screen itself shows no logs).`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	// log lines would corrupt the alt screen
	tuiLog := logger.NewSilent()
	if cfg.TUILogFile != "" {
		tuiLog = logger.NewWithOptions(logger.Options{
			Level:  cfg.EffectiveLogLevel(),
			Format: cfg.LogFormat,
			Output: io.Discard,
			File:   cfg.TUILogFile,
		})
	}

	toasts := tui.NewToasts()
	a, err := newApplication(tuiLog, toasts)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(cmd.Context(), cfg, tuiLog, tui.Deps{
		Page:     a.page,
		Store:    a.store,
		Backup:   a.backup,
		Identity: a.session,
		Toasts:   toasts,
		Files:    fs.OS(),
	})
}
