package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ricochet/internal/network"
	"github.com/vovakirdan/ricochet/internal/platform/tui"
	"github.com/vovakirdan/ricochet/internal/room"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and websocket servers",
	Long: `Start an SSH server for terminal play and an HTTP server for
websocket clients.

Each SSH connection gets its own session with a map picker and plays
against bots. Websocket clients create shared rooms over HTTP and take
seats in them:

  GET  /rooms            - list running rooms
  POST /rooms            - create a room (?layout=duel&humans=2)
  GET  /rooms/{id}/ws    - join a room (?watch=1 to spectate)
  GET  /health           - liveness check

Results from both servers go to the same database.

Examples:
  ricochet serve                          # SSH on :23235, HTTP on :8080
  ricochet serve --ssh :2222 --http ""    # SSH only
  ricochet serve --host-key ./host_key    # Use specific host key

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (empty disables)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (empty disables)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to serve, both --ssh and --http are empty")
		os.Exit(1)
	}

	cfg, err := matchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ricochet",
	})

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	var manager *room.Manager
	if flagHTTPAddr != "" {
		manager = room.NewManager(room.ManagerConfig{Match: cfg, TPS: flagTPS, Seed: flagSeed}, logger.WithPrefix("ricochet-rooms"))
		if store != nil {
			manager.SetResultSaver(store)
		}
		httpServer := &http.Server{
			Addr:              flagHTTPAddr,
			Handler:           network.NewServer(ctx, manager, logger.WithPrefix("ricochet-http")).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("starting HTTP server", "address", flagHTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http: %w", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx) //nolint:errcheck // best-effort on exit
		}()
	}

	if flagSSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = flagSSHAddr
		sshCfg.HostKeyPath = flagHostKey
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
		sshCfg.Match = cfg
		sshCfg.TickRate = flagTPS

		server, err := tui.NewSSHServer(sshCfg, store, logger.WithPrefix("ricochet-ssh"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
			os.Exit(1)
		}
		go func() {
			if err := server.Serve(ctx); err != nil {
				errCh <- fmt.Errorf("ssh: %w", err)
			}
		}()
		fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(flagSSHAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		stop()
	}

	if manager != nil {
		manager.Wait()
	}
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
