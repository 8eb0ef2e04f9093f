package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apexwis/AudioSplitterFaaS/server"
)

var rootCmd = &cobra.Command{
	Use:   "audiosplitter",
	Short: "AudioSplitter splits uploaded audio into four stored segments.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
