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

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/als-astro/als/internal/api"
	"github.com/als-astro/als/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (foreground)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve settings tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show settings and web server status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd)
	},
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func runServer(cmd *cobra.Command) error {
	settings, err := openSettings(cmd)
	if err != nil {
		return err
	}
	log := logging.Named("als.server")

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", settings.WWWServerPort())
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewHandler(api.Deps{Settings: settings}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		printStep("als %s listening on http://%s", version, addr)
		log.Info("web server started", "addr", addr, "work_folder", settings.WorkFolderPath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runMCP(cmd *cobra.Command) error {
	settings, err := openSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	stdio := server.NewStdioServer(api.NewMCPServer(api.MCPDeps{
		Settings: settings,
		Version:  version,
	}))
	stdio.SetErrorLogger(slog.NewLogLogger(logging.Named("mcp.transport").Handler(), slog.LevelError))

	logging.Named("als.mcp").Info("MCP server started (stdio transport)")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

func showStatus(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	settings, err := openSettings(cmd)
	if err != nil {
		// Still report where the file is.
		printStatus("Settings file", "%s (%v)", configPath, err)
		return err
	}

	if _, err := os.Stat(settings.Path()); err != nil {
		printStatus("Settings file", "%s (not created yet, defaults in use)", settings.Path())
	} else {
		printStatus("Settings file", "%s", settings.Path())
	}

	port := settings.WWWServerPort()
	client := newAPIClient(port)
	resp, err := client.get(ctx, "/api/settings")
	if err != nil {
		printStatus("Web server", "stopped")
	} else {
		var remote struct {
			Path string `json:"path"`
		}
		if err := decodeJSON(resp, &remote); err != nil {
			printStatus("Web server", "error (%v)", err)
		} else {
			printStatus("Web server", "running on port %d", port)
			if remote.Path != settings.Path() {
				printWarning("Web server uses a different settings file: %s", remote.Path)
			}
		}
	}

	printStatus("Scan folder", "%s", settings.ScanFolderPath())
	printStatus("Work folder", "%s", settings.WorkFolderPath())
	printStatus("Log level", "%s", settings.LogLevel())
	printStatus("Window", "%s", settings.WindowGeometry())
	return nil
}
