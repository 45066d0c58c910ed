package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/dataglance/internal/render"
	"github.com/KaramelBytes/dataglance/internal/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv, err := web.NewServer(web.Config{
			Addr:           addr,
			SessionSecret:  cfg.SessionSecret,
			SessionTTL:     cfg.SessionTTL(),
			MaxUploadBytes: cfg.MaxUploadBytes(),
			PreviewRows:    cfg.PreviewRows,
			Chart:          render.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
			Version:        version,
			Logger:         logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving dataglance on %s (Ctrl+C to stop)\n", addr)
		return srv.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
}
