package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-tagger/internal/devreload"
)

const shutdownGrace = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tagging page over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	flags.String("base-path", "", "path prefix the tagger is mounted under")
	flags.String("templates-dir", "", "load page templates from this directory")
	flags.Bool("dev-reload", false, "reload templates when files in --templates-dir change")
	flags.Duration("session-ttl", 0, "idle time before a browser session is dropped")
	a.bind(flags, map[string]string{
		"addr":          "addr",
		"base_path":     "base-path",
		"templates_dir": "templates-dir",
		"dev_reload":    "dev-reload",
		"session_ttl":   "session-ttl",
	})
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := a.build(ctx)
	if err != nil {
		return err
	}
	renderer, err := a.renderer(rt.registry)
	if err != nil {
		return err
	}
	handler, err := a.handler(rt, renderer)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var watcher *devreload.Watcher
	if a.cfg.DevReload {
		if a.cfg.TemplatesDir == "" {
			a.logger.Warn("dev_reload ignored without templates_dir")
		} else if watcher, err = devreload.New(a.cfg.TemplatesDir, renderer, devreload.WithLogger(a.logger.Named("devreload"))); err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if watcher != nil {
		group.Go(func() error { return watcher.Run(groupCtx) })
	}
	group.Go(func() error {
		a.logger.Info("listening",
			zap.String("addr", a.cfg.Addr),
			zap.String("base_path", a.cfg.BasePath),
			zap.String("log_path", rt.journal.Path()),
			zap.Int("cards", rt.catalog.Len()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		a.logger.Info("server stopped")
		return nil
	})
	return group.Wait()
}
