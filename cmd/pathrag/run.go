package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akilivoice/pathrag/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive troubleshooting session",
	Long:  `Starts a diagnostic conversation on the terminal, typing answers instead of speaking them.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")
		vendorID, _ := cmd.Flags().GetString("vendor")
		plain, _ := cmd.Flags().GetBool("plain")

		opts := cli.RunOptions{
			ServiceOptions: serviceOptions(cmd),
			SessionID:      sessionID,
			VendorID:       vendorID,
			Plain:          plain,
		}

		if err := cli.RunSession(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("session", "", "Resume an existing session id")
	runCmd.Flags().String("vendor", "", "Pin the router vendor (tplink, netgear, dlink, asus)")
	runCmd.Flags().Bool("plain", false, "Disable banner and markdown rendering")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}
