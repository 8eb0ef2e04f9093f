package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apexwis/AudioSplitterFaaS/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the AudioSplitter HTTP server",
	Long:  `Start the HTTP server accepting audio uploads on /split-audio and publishing segments to the object store.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
