package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursechat/internal/config"
)

var (
	cfgFile string

	cfg *config.Config
)

// Execute is the entry point for the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd wires the cobra tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coursechat",
		Short:         "RAG chatbot over course materials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the YAML config file")
	root.AddCommand(newServeCmd(), newIngestCmd(), newChatCmd())
	return root
}
