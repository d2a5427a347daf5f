package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mungbai/rangecat/pkg/rangecat/dashboard"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
)

func newServeCmd(configPath *string, workers *int) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis dashboard",
		Long: `Serve starts a local web dashboard for running analyses from a browser.
Completed analyses are pushed to every connected client over WebSocket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, *configPath, *workers)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address for the dashboard")
	return cmd
}

func runServe(addr, configPath string, workers int) error {
	logger := logging.GetLogger("cmd.serve")

	engine, _, err := buildEngine(configPath, workers)
	if err != nil {
		return err
	}

	server := dashboard.NewServer(addr, engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("Dashboard listening on %s\n", formatBold("http://"+addr))

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, errors.ErrInternal, "dashboard server failed")
		}
		return nil
	case <-ctx.Done():
		logger.Info().Msg("Shutting down dashboard")
		return server.Stop()
	}
}
