package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"waterx/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and update your own employee profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile as the backend has it",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name, email or password",
	Long: `Change your name, email or password.

Fields not given keep their current value. The password is only changed
when --password or --password-stdin is used.

Examples:
  waterx-admin profile update --name "Ada Lovelace"
  waterx-admin profile update --email ada@example.com
  echo 's3cret!' | waterx-admin profile update --password-stdin`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var (
	profileName          string
	profileEmail         string
	profilePassword      string
	profilePasswordStdin bool
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "Full name (at least 2 characters)")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "Email address")
	profileUpdateCmd.Flags().StringVar(&profilePassword, "password", "", "New password (at least 6 characters)")
	profileUpdateCmd.Flags().BoolVar(&profilePasswordStdin, "password-stdin", false, "Read the new password from stdin")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := consoleApplication()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.signedIn()
	if err != nil {
		return err
	}
	form, err := a.profiles.Prefill(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("ID:    %s\n", user.ID)
	fmt.Printf("Role:  %s\n", user.Role)
	if form == nil {
		fmt.Printf("Name:  %s\n", user.Name)
		fmt.Println("Email: (not in employee list)")
		return nil
	}
	fmt.Printf("Name:  %s\n", form.Name)
	fmt.Printf("Email: %s\n", form.Email)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	a, err := consoleApplication()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.page.Load(cmd.Context()); err != nil {
		log.Debug("Prefill failed", "error", err)
	}

	form := a.page.ProfileForm()
	flags := cmd.Flags()
	if flags.Changed("name") {
		form.Name = profileName
	}
	if flags.Changed("email") {
		form.Email = profileEmail
	}
	if flags.Changed("password") {
		form.Password = profilePassword
	}
	if profilePasswordStdin {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		form.Password = pw
	}

	a.page.SetProfileForm(form)
	err = a.page.SubmitProfile(cmd.Context())
	if fe, ok := asFieldErrors(err); ok {
		for _, msg := range fe.Messages() {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
	}
	return err
}

func readPassword() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func asFieldErrors(err error) (profile.FieldErrors, bool) {
	var fe profile.FieldErrors
	if err == nil || !errors.As(err, &fe) {
		return nil, false
	}
	return fe, true
}
