package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demo-data/internal/redisclient"
	"demo-data/internal/render"
	"demo-data/internal/server"
	"demo-data/internal/source"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP loader service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		fetchTimeout, err := time.ParseDuration(cfg.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("invalid fetch.timeout: %w", err)
		}
		sendTimeout, err := time.ParseDuration(cfg.Send.Timeout)
		if err != nil {
			return fmt.Errorf("invalid send.timeout: %w", err)
		}
		delay, err := time.ParseDuration(cfg.Send.Delay)
		if err != nil {
			return fmt.Errorf("invalid send.delay: %w", err)
		}

		loader := source.NewLoader(fetchTimeout)
		if cfg.Fetch.CacheEnabled {
			ttl, err := time.ParseDuration(cfg.Fetch.CacheTTL)
			if err != nil {
				return fmt.Errorf("invalid fetch.cache_ttl: %w", err)
			}
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			loader = loader.WithCache(source.NewCache(rdb, ttl))
			slog.Info("template cache enabled", "ttl", ttl)
		}

		mat := render.NewMaterializer(cfg.Window.Days)
		srv := server.New(loader, mat, sendTimeout, delay)

		httpSrv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv.Router(),
		}

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(ctx); err != nil {
				slog.Error("shutdown error", "err", err)
			}
		}()

		slog.Info("listening", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
