package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akilivoice/pathrag/pkg/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph.yaml]",
	Short: "Check a diagnostic script for consistency",
	Long:  `Loads the script and reports dangling answer destinations, duplicate answer keys, and unreachable nodes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Graph is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("graph")
	if !cmd.Flags().Changed("graph") && len(args) > 0 {
		path = args[0]
	}

	g := graph.Default()
	if path != "" {
		loaded, err := graph.LoadYAMLFile(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		g = loaded
	}

	return g.Validate()
}
