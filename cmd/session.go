package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "waterx/internal/errors"
	"waterx/internal/fs"
	"waterx/internal/logger"
	"waterx/internal/nav"
	"waterx/internal/session"
)

var (
	loginID   string
	loginName string
	loginRole string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Record the signed-in employee",
	Long: `Record the identity the backend assigned to you. Profile updates are
sent for this employee, and the role decides which sections are listed.

Example:
  waterx-admin login --id emp-1 --name "Ada Lovelace" --role Admin`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in employee",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.Open(fs.OS(), cfg.SessionFile)
		if err != nil {
			return err
		}
		if err := sess.Logout(); err != nil {
			return err
		}
		logger.Fsuccess(cmdOut(cmd), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the shell header and the sections you can open",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginID, "id", "", "Employee ID (required)")
	loginCmd.Flags().StringVar(&loginName, "name", "", "Display name")
	loginCmd.Flags().StringVar(&loginRole, "role", nav.RoleStaff, "Role (Admin, Manager, Staff)")
	_ = loginCmd.MarkFlagRequired("id")
}

func runLogin(cmd *cobra.Command, args []string) error {
	switch loginRole {
	case nav.RoleAdmin, nav.RoleManager, nav.RoleStaff:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("Unknown role %q.", loginRole)).
			WithDetails("expected Admin, Manager or Staff")
	}

	sess, err := session.Open(fs.OS(), cfg.SessionFile)
	if err != nil {
		return err
	}
	if err := sess.Login(loginID, loginName, loginRole); err != nil {
		return err
	}
	logger.Fsuccess(cmdOut(cmd), "Signed in as %s (%s)", displayName(loginName, loginID), loginRole)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := consoleApplication()
	if err != nil {
		return err
	}
	defer a.Close()

	a.store.FetchLogoURL(cmd.Context())

	h := nav.Header{AppName: nav.AppName, LogoURL: a.store.LogoURL()}
	u := a.session.Current()
	if u != nil {
		h.User = displayName(u.Name, u.ID)
		h.Role = u.Role
	}

	out := cmdOut(cmd)
	fmt.Fprintln(out, logger.Bold(h.String()))
	if u == nil {
		logger.Fwarning(out, "Not signed in. Use 'waterx-admin login'.")
		return nil
	}

	labels := make([]string, 0, len(nav.DefaultLinks))
	for _, l := range nav.Visible(nav.DefaultLinks, u.Role) {
		labels = append(labels, l.Label)
	}
	fmt.Fprintf(out, "Sections: %s\n", strings.Join(labels, ", "))
	return nil
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
