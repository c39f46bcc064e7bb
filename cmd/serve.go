package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/supportbot/internal/analytics"
	"github.com/ziadkadry99/supportbot/internal/db"
	"github.com/ziadkadry99/supportbot/internal/pipeline"
	"github.com/ziadkadry99/supportbot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP support server",
	Long:  `Starts the HTTP server exposing session, message, and analytics endpoints, plus a WebSocket chat endpoint per session.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	classifier, err := createClassifier(cfg)
	if err != nil {
		return fmt.Errorf("creating classifier: %w", err)
	}

	// The server does not start without a usable index.
	ix, err := loadOrBuildIndex(ctx, cfg, embedder)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DataDir + "/supportbot.db")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := analytics.NewStore(database)
	engine := pipeline.New(ix, classifier, store, log)
	sessions := pipeline.NewSessions(cfg.MaxHistory)

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		AllowAll: cfg.Server.AllowAll,
	}, engine, sessions, store, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
