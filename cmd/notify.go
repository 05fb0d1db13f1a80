package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"waterx/internal/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Test notification integrations",
	Long: `Test notification integrations (webhook, Slack).

Every toast the admin panel shows (export finished, restore failed, logo
updated, ...) can be mirrored to a webhook or a Slack channel. This command
sends a test event to the configured endpoints.

Examples:
  waterx-admin notify test --notify-webhook-url https://hooks.example.com/waterx
  waterx-admin notify test --message "Hello from waterx"`,
}

var testNotifyCmd = &cobra.Command{
	Use:   "test",
	Short: "Send test notification",
	Args:  cobra.NoArgs,
	RunE:  runNotifyTest,
}

var (
	notifyMessage string
	notifyVerbose bool
)

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(testNotifyCmd)

	testNotifyCmd.Flags().StringVar(&notifyMessage, "message", "", "Custom test message")
	testNotifyCmd.Flags().BoolVar(&notifyVerbose, "verbose", false, "Verbose output")
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	manager := notify.NewManager(notifyConfig(), log)

	if !manager.HasEnabledNotifiers() {
		fmt.Println("[WARN] No notification endpoints configured")
		fmt.Println()
		fmt.Println("Configure at least one:")
		fmt.Println("  --notify-webhook-url URL         # Generic webhook")
		fmt.Println("  --notify-slack-url URL           # Slack incoming webhook")
		fmt.Println()
		fmt.Println("or in .waterx.conf:")
		fmt.Println("  [notify]")
		fmt.Println("  webhook_url = https://your-webhook-url")
		return nil
	}

	message := notifyMessage
	if message == "" {
		message = fmt.Sprintf("Test notification from waterx-admin at %s", time.Now().Format(time.RFC3339))
	}

	fmt.Println("[TEST] Testing notification configuration...")
	fmt.Println()
	for _, name := range manager.EnabledNotifiers() {
		fmt.Printf("[INFO] %s configured\n", name)
	}
	fmt.Println()

	event := notify.NewEvent(notify.EventNotificationCheck, notify.SeverityInfo, message).
		WithDetail("test", "true").
		WithDetail("command", "waterx-admin notify test")

	if notifyVerbose {
		fmt.Printf("[DEBUG] Sending event: %+v\n", event)
	}

	fmt.Println("[SEND] Sending test notification...")
	if err := manager.NotifySync(cmd.Context(), event); err != nil {
		fmt.Printf("[FAIL] Notification failed: %v\n", err)
		return err
	}

	fmt.Println("[OK] Notification sent successfully")
	fmt.Println()
	fmt.Println("Check your notification endpoint to confirm delivery.")
	return nil
}
