package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/api"
	"github.com/rtfdocs/rtfd/internal/overlay"
	"github.com/rtfdocs/rtfd/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rtfd server",
	Long: `Serves the describe API, build badges, the overlay assets and the built
documentation under /docs/<name>/, mounting the overlay on every HTML page.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "interface to listen on (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := setupLogger(cfg)

	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	database, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.New(server.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		AllowAll: cfg.Server.AllowAllOrigins,
		API: api.Options{
			DocsDir:  cfg.DocsDir(),
			CacheTTL: cfg.Overlay.CacheTTL,
			Mount:    overlay.MountMode(cfg.Overlay.Mount),
			Popover:  popoverOptions(cfg),
			Logger:   log.WithName("api"),
		},
	}, database, log.WithName("server"))

	// Graceful shutdown.
	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "shutting down server")
		}
	}()

	fmt.Fprintf(os.Stderr, "rtfd server %s starting on %s\n", Version, srv.Addr())
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	fmt.Fprintf(os.Stderr, "  Docs: %s\n", cfg.DocsDir())

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
