// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linkboard",
	Short: "linkboard is a personal board for links, videos and PDF documents",
	Long: `linkboard serves a small REST API and websocket feed for a personal board
of links, YouTube videos and PDF documents. The owner posts, everyone else reads.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
