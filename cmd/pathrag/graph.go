package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	presentation "github.com/akilivoice/pathrag/internal/presentation/graph"
	"github.com/akilivoice/pathrag/pkg/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph.yaml]",
	Short: "Export the diagnostic graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the troubleshooting flow.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("graph")
		if !cmd.Flags().Changed("graph") && len(args) > 0 {
			path = args[0]
		}

		g := graph.Default()
		if path != "" {
			loaded, err := graph.LoadYAMLFile(path)
			if err != nil {
				fmt.Printf("Error loading graph: %v\n", err)
				os.Exit(1)
			}
			g = loaded
		}

		fmt.Print(presentation.GenerateMermaid(g.List(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
