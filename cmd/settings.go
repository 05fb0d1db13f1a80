package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"waterx/internal/page"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change application settings",
}

var logoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Manage the application logo shown in the header",
	Long: `Manage the application logo.

Examples:
  waterx-admin settings logo get
  waterx-admin settings logo set https://cdn.example.com/logo.png
  waterx-admin settings logo clear`,
}

var logoGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured logo URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := consoleApplication()
		if err != nil {
			return err
		}
		defer a.Close()

		a.store.FetchLogoURL(cmd.Context())
		if url := a.store.LogoURL(); url != "" {
			fmt.Println(url)
		} else {
			fmt.Println("(no logo configured)")
		}
		return nil
	},
}

var logoSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Set the logo URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogoUpdate(cmd, args[0])
	},
}

var logoClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the logo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogoUpdate(cmd, "")
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(logoCmd)
	logoCmd.AddCommand(logoGetCmd, logoSetCmd, logoClearCmd)
}

func runLogoUpdate(cmd *cobra.Command, url string) error {
	a, err := consoleApplication()
	if err != nil {
		return err
	}
	defer a.Close()

	a.page.SetBrandingForm(page.BrandingForm{LogoURL: url})
	return a.page.SubmitBranding(cmd.Context())
}
