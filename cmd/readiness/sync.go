// ABOUTME: CLI commands for Charm-based cloud mirroring.
// ABOUTME: Supports link, unlink, status, push, pull, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/charm"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Mirror data across devices",
	Long: `Mirror readiness data across devices using Charm Cloud.

Your data is E2E encrypted with your SSH key before upload.
The server never sees your unencrypted physiological data.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     readiness sync link

  2. On other devices, link with the same Charm account:
     readiness sync link

  3. Push your local data:
     readiness sync push

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show mirror status and account info
  push        Mirror local data to the cloud
  pull        Merge cloud data into the local store
  wipe        Delete cloud mirror data (destructive)`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mirror status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.InitClient()
		if err != nil {
			color.Red("✗ Not connected to Charm: %v", err)
			fmt.Println("\nRun 'readiness sync link' to get started.")
			return nil
		}
		defer client.Close()

		id, err := client.ID()
		if err != nil {
			return fmt.Errorf("failed to read Charm ID: %w", err)
		}

		color.Green("✓ Connected to Charm")
		fmt.Printf("  Account ID: %s\n", id)
		if client.IsReadOnly() {
			color.Yellow("  ⚠ Read-only mode (another process holds the mirror)")
		}
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Mirror local data to the cloud",
	Long: `Mirror all local samples, activities, and active alerts to Charm Cloud.

Pushes are additive: records on other devices that this device never
saw are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to connect to Charm: %w", err)
		}
		defer client.Close()

		summary, err := client.Push(repo)
		if err != nil {
			return fmt.Errorf("push failed: %w", err)
		}

		color.Green("✓ Pushed %d sample(s), %d activity(ies), %d alert(s)",
			summary.Samples, summary.Activities, summary.Alerts)
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge cloud data into the local store",
	Long: `Merge mirrored records from Charm Cloud into the local store.

Records merge by identity (sample date, activity ID, alert slot);
nothing local is deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to connect to Charm: %w", err)
		}
		defer client.Close()

		summary, err := client.Pull(repo)
		if err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		svc.ClearCache()

		color.Green("✓ Pulled %d sample(s), %d activity(ies), %d alert(s)",
			summary.Samples, summary.Activities, summary.Alerts)
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Run 'readiness sync push' to mirror your data.")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local data.
You can link again later with 'readiness sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "unlink")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete cloud mirror data",
	Long: `Delete all mirrored data from Charm Cloud.

Local data is untouched. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("This deletes all cloud mirror data. Type 'wipe' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Aborted.")
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to connect to Charm: %w", err)
		}
		defer client.Close()

		if err := client.Reset(); err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Cloud mirror wiped")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
