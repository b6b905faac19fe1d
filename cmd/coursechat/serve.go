package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"coursechat/internal/httpapi"
	"coursechat/internal/ingest"
	"coursechat/internal/provider"
	"coursechat/internal/rag"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Ingest the docs folder and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				return errors.New("missing ANTHROPIC_API_KEY; export it before running")
			}

			client := provider.NewAnthropicClient()
			system, err := rag.New(cfg, client, provider.Model(cfg.Model))
			if err != nil {
				return err
			}
			defer system.Close()

			if _, err := os.Stat(cfg.DocsDir); err == nil {
				courses, chunks, err := system.AddFolder(cfg.DocsDir)
				if err != nil {
					return fmt.Errorf("ingest %s: %w", cfg.DocsDir, err)
				}
				slog.Info("startup ingestion complete", "courses", courses, "chunks", chunks)
			} else {
				slog.Warn("docs folder not found; starting with existing index", "dir", cfg.DocsDir)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigch := make(chan os.Signal, 1)
			signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigch)
			go func() {
				<-sigch
				cancel()
			}()

			if cfg.WatchDocs {
				changes := ingest.WatchFolder(ctx, cfg.DocsDir)
				go func() {
					for range changes {
						courses, chunks, err := system.AddFolder(cfg.DocsDir)
						if err != nil {
							slog.Error("re-ingestion failed", "error", err)
							continue
						}
						if courses > 0 {
							slog.Info("ingested new courses", "courses", courses, "chunks", chunks)
						}
					}
				}()
			}

			srv := &http.Server{Addr: cfg.ListenAddr, Handler: httpapi.NewServer(system).Handler()}
			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			slog.Info("serving", "addr", cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
