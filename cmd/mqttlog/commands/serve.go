package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mqttlog/mqttlog-go/cmd/mqttlog/interactive"
	"github.com/mqttlog/mqttlog-go/internal/config"
	"github.com/mqttlog/mqttlog-go/internal/logging"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	configPath  string
	interactive bool
	logLevel    string
}

func newServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MQTT broker and log intercepted packets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Start the interactive console")
	f.StringVar(&flags.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	return cmd
}

func runServe(ctx context.Context, flags *serveFlags, stdout, stderr io.Writer) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var console *interactive.Console
	if flags.interactive {
		console, err = interactive.New(nil)
		if err != nil {
			return err
		}
		stdout, stderr = console.Stdout(), console.Stderr()
	}

	closer, err := logging.Init(cfg.Log, stderr)
	if err != nil {
		if console != nil {
			_ = console.Close()
		}
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closer.Close()

	svc, err := StartService(ctx, cfg, stdout, stderr, slog.Default())
	if err != nil {
		if console != nil {
			_ = console.Close()
		}
		return err
	}

	if console != nil {
		console.Attach(svc)
		console.Run(ctx, cancel)
	} else {
		<-ctx.Done()
	}

	slog.Info("shutting down")
	return svc.Stop()
}
