package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akilivoice/pathrag/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "pathrag",
	Short: "PathRAG is a voice-guided router troubleshooting engine",
	Long: `PathRAG walks a caller through a deterministic diagnostic script for
home router problems, resolving spoken answers against each step and
escalating to a human agent with a structured hand-off when needed.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("graph", "", "Path to a YAML diagnostic script (default: built-in)")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for session persistence (default: in-memory)")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
	rootCmd.PersistentFlags().String("session-key", "", "Hex-encoded 32-byte key to encrypt sessions at rest")
	rootCmd.PersistentFlags().Bool("redact-pii", false, "Scrub MAC addresses, serials and emails from persisted transcripts")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func serviceOptions(cmd *cobra.Command) cli.ServiceOptions {
	graphPath, _ := cmd.Flags().GetString("graph")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	redisPassword, _ := cmd.Flags().GetString("redis-password")
	redisDB, _ := cmd.Flags().GetInt("redis-db")
	sessionKey, _ := cmd.Flags().GetString("session-key")
	redactPII, _ := cmd.Flags().GetBool("redact-pii")
	debug, _ := cmd.Flags().GetBool("debug")

	return cli.ServiceOptions{
		GraphPath:     graphPath,
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,
		SessionKey:    sessionKey,
		RedactPII:     redactPII,
		Debug:         debug,
	}
}
