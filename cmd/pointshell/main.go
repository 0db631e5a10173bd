// Command pointshell is an interactive shell for generating, connecting,
// pruning and relaxing 3D point clouds. The cloud is published to
// WebSocket viewers while the shell runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soypat/pointmesh"
	"github.com/soypat/pointmesh/internal/config"
	"github.com/soypat/pointmesh/internal/logger"
	"github.com/soypat/pointmesh/internal/server"
	"github.com/soypat/pointmesh/internal/shell"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mesh := pointmesh.NewShared(nil)
	g, ctx := errgroup.WithContext(ctx)
	// Leaving the shell stops the server.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Server {
		srv := server.New(log.Named("server"), mesh, server.Options{
			Interval:   cfg.BroadcastInterval,
			StaticDir:  cfg.StaticDir,
			Production: cfg.IsProduction(),
		})
		g.Go(func() error {
			return srv.Run(ctx, cfg.Addr)
		})
	}
	g.Go(func() error {
		defer cancel()
		sh := shell.New(log.Named("shell"), mesh, cfg.PointsFile, os.Stdout)
		return sh.Run(ctx, os.Stdin)
	})
	err = g.Wait()
	if err != nil {
		log.Error("pointshell stopped", zap.Error(err))
	}
	return err
}
