package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcus/darktalk/internal/config"
	"github.com/marcus/darktalk/internal/serve"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dialog preview server",
	Long: `Start an HTTP server that hosts dialogs in memory.

Clients create dialogs with POST /v1/dialogs, open GET /v1/dialogs/{id}/page
in a browser to see the sanitized markup, and drive them with key, click,
input and progress events. It supports optional bearer token authentication
and CORS for browser-based clients.

Defaults come from the [serve] section of the config file. If --port is 0 a
random available port is assigned. The running instance is recorded in the
state directory for discovery by "darktalk serve status".`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running preview server, if any",
	Args:  cobra.NoArgs,
	RunE:  runServeStatus,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(serveStatusCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (0 = auto-assign; default from config)")
	serveCmd.Flags().StringP("addr", "a", "", "Address to bind to (default from config)")
	serveCmd.Flags().String("token", "", "Bearer token for authentication (optional)")
	serveCmd.Flags().String("cors", "", "Allowed CORS origin (optional, e.g. http://localhost:3000)")
}

// serveConfig merges explicitly set flags over the [serve] config section.
func serveConfig(cmd *cobra.Command) serve.ServeConfig {
	sc := serve.ServeConfig{
		Port:       cfg.Serve.Port,
		Addr:       cfg.Serve.Addr,
		Token:      cfg.Serve.Token,
		CORSOrigin: cfg.Serve.CORSOrigin,
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		sc.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("addr") {
		sc.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("token") {
		sc.Token, _ = flags.GetString("token")
	}
	if flags.Changed("cors") {
		sc.CORSOrigin, _ = flags.GetString("cors")
	}
	return sc
}

func runServe(cmd *cobra.Command, args []string) error {
	sc := serveConfig(cmd)
	srv := serve.NewServer(sc, managerOptions()...)

	ln, err := srv.Listen()
	if err != nil {
		return err
	}
	actualPort := ln.Addr().(*net.TCPAddr).Port

	stateDir, err := config.StateDir()
	if err != nil {
		ln.Close()
		return err
	}
	instance := serve.NewInstance(sc.Addr, actualPort)
	if err := serve.WriteInstance(stateDir, instance); err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := serve.DeleteInstance(stateDir); err != nil {
			logger.Error("remove instance file", "err", err)
		}
	}()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "darktalk serve listening on %s\n", instance.URL())
	fmt.Fprintf(stderr, "  instance:   %s\n", instance.ID)
	fmt.Fprintf(stderr, "  state dir:  %s\n", stateDir)
	if sc.Token != "" {
		fmt.Fprintf(stderr, "  auth:       bearer token\n")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(gctx, ln); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "instance", instance.ID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "darktalk serve stopped\n")
	return nil
}

func runServeStatus(cmd *cobra.Command, args []string) error {
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	info, err := serve.ReadInstance(stateDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &exitError{code: 1, err: errors.New("no preview server running")}
		}
		return err
	}
	if serve.IsStale(info) {
		return &exitError{code: 1, err: fmt.Errorf("preview server at %s (pid %d) is not responding", info.URL(), info.PID)}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", info.URL())
	fmt.Fprintf(out, "  instance:   %s\n", info.ID)
	fmt.Fprintf(out, "  pid:        %d\n", info.PID)
	fmt.Fprintf(out, "  started:    %s\n", info.StartedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}
