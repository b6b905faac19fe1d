package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursechat/internal/provider"
	"coursechat/internal/rag"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [path]",
		Short: "Index a course document or folder without starting the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.DocsDir
			if len(args) == 1 {
				path = args[0]
			}

			system, err := rag.New(cfg, provider.NewAnthropicClient(), provider.Model(cfg.Model))
			if err != nil {
				return err
			}
			defer system.Close()

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.IsDir() {
				courses, chunks, err := system.AddFolder(path)
				if err != nil {
					return err
				}
				fmt.Printf("Indexed %d courses (%d chunks)\n", courses, chunks)
				return nil
			}

			course, chunks, err := system.AddDocument(path)
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %q (%d chunks)\n", course.Title, chunks)
			return nil
		},
	}
}
