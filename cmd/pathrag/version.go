package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akilivoice/pathrag"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pathrag",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pathrag version %s\n", pathrag.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
