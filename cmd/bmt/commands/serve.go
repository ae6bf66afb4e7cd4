package commands

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/config"
	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/logger"
	"github.com/patrickkwang/bmt-lite/server"
	"github.com/patrickkwang/bmt-lite/sym"
)

// ServeCmd starts the HTTP/WebSocket query server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   sym.Serve + " Start the HTTP/WebSocket query server",
	Long: sym.Serve + ` serve — Start the HTTP/WebSocket query server

Serves the loaded model over a JSON API with a WebSocket event stream.
Connected clients are notified when the model is reloaded. With --watch
(or server.watch in config) the index is rebuilt whenever the model
file changes on disk.

Press Ctrl+C to drain connections and stop; press it again to force
exit.`,
	RunE: runServe,
}

var (
	servePort  int
	serveWatch bool
)

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (0 uses config or the default)")
	ServeCmd.Flags().BoolVar(&serveWatch, "watch", false, "Rebuild the index when the model file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Default to Info verbosity for the server
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = 1
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Reinitialize so log.json from config takes effect
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if serveWatch {
		cfg.Server.Watch = true
	}

	lm, err := loadToolkitWithConfig(cmd, cfg)
	if err != nil {
		return err
	}

	if cfg.Server.Watch && lm.Path == "" {
		pterm.Warning.Println("Model watching disabled: the model was not loaded from a local file")
	}

	port := servePort
	if port == 0 {
		port = cfg.GetServerPort()
	}

	srv, err := server.New(server.Options{
		Config:      cfg,
		Toolkit:     lm.Toolkit,
		Fingerprint: lm.Fingerprint,
		ModelPath:   lm.Path,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	pterm.Printf("%s Serving %d elements (fingerprint %s)\n",
		sym.Serve, lm.Toolkit.Len(), shortFingerprint(lm.Fingerprint))
	pterm.Printf("  Model: %s\n", pterm.Gray(lm.Source))

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	// Wait for shutdown signal (Ctrl+C)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		// First Ctrl+C - graceful shutdown
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		// Wait for either shutdown completion or second Ctrl+C
		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			// Second Ctrl+C - force immediate exit
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil // unreachable
		}
	}
}
