package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyloom/keyloom"
	httpAdapter "github.com/keyloom/keyloom/internal/adapters/http"
	"github.com/keyloom/keyloom/internal/adapters/memory"
	redisAdapter "github.com/keyloom/keyloom/internal/adapters/redis"
	"github.com/keyloom/keyloom/internal/config"
	"github.com/keyloom/keyloom/internal/logging"
	"github.com/keyloom/keyloom/pkg/ports"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the Keyloom engine in server mode, exposing generation, entropy
scoring, replay sessions and a live event stream over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)

		var store ports.StepStore
		if cfg.RedisAddr != "" {
			store = redisAdapter.New(cfg.RedisAddr, "", cfg.RedisDB,
				redisAdapter.WithTTL(cfg.SessionTTL))
			logger.Info("session store ready", "backend", "redis", "addr", cfg.RedisAddr)
		} else {
			store = memory.NewStore()
			logger.Info("session store ready", "backend", "memory")
		}

		server := httpAdapter.NewServer(store, logger)

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting keyloom server", "addr", srv.Addr, "version", keyloom.Version)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("keyloom server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML config file")
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (overrides config)")
}
