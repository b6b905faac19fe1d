package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coursechat/internal/provider"
	"coursechat/internal/rag"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the course assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Basic env check (SDK also reads API key)
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				return errors.New("missing ANTHROPIC_API_KEY; export it before running")
			}

			system, err := rag.New(cfg, provider.NewAnthropicClient(), provider.Model(cfg.Model))
			if err != nil {
				return err
			}
			defer system.Close()

			if _, err := os.Stat(cfg.DocsDir); err == nil {
				if _, _, err := system.AddFolder(cfg.DocsDir); err != nil {
					return err
				}
			}

			// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigch := make(chan os.Signal, 1)
			signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigch)
			go func() {
				<-sigch
				fmt.Println("\nExiting...")
				cancel()
			}()

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Println("Ask about the course materials (Ctrl-C to quit)")

			// stdin reader goroutine -> lines into channel
			inputCh := make(chan string)
			go func() {
				for scanner.Scan() {
					inputCh <- scanner.Text()
				}
				close(inputCh)
			}()

			sessionID := ""
		outer:
			for {
				fmt.Print("\u001b[94mYou\u001b[0m: ")
				var (
					line string
					ok   bool
				)
				select {
				case <-ctx.Done():
					break outer
				case line, ok = <-inputCh:
					if !ok {
						break outer
					}
				}
				if line == "" {
					continue
				}

				answer, sources, sid, err := system.Query(ctx, line, sessionID)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				sessionID = sid

				fmt.Printf("\u001b[93mAssistant\u001b[0m: %s\n", answer)
				for _, src := range sources {
					if src.URL != "" {
						fmt.Printf("  [%s] %s\n", src.Text, src.URL)
					} else {
						fmt.Printf("  [%s]\n", src.Text)
					}
				}
			}
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
			}
			return nil
		},
	}
}
