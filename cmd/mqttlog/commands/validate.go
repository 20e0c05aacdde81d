package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mqttlog/mqttlog-go/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// validateReport is printed by the validate command.
type validateReport struct {
	ProfileSource string            `yaml:"profile_source"`
	Listeners     []listenerReport  `yaml:"listeners"`
	Sinks         []string          `yaml:"sinks"`
	Profile       map[string]bool   `yaml:"profile"`
	Users         int               `yaml:"users"`
	MDNS          bool              `yaml:"mdns"`
	Events        map[string]string `yaml:"events,omitempty"`
}

type listenerReport struct {
	ID      string `yaml:"id"`
	Type    string `yaml:"type"`
	Address string `yaml:"address"`
}

// RunValidate loads the configuration and the event profile and writes
// the resolved settings as YAML. It fails like serve would fail.
func RunValidate(configPath string, w io.Writer, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	profile, source := config.LoadProfile(cfg.Profile.Dir, cfg.EventValues(), logger)
	if err := config.CheckProfile(profile); err != nil {
		return err
	}

	report := validateReport{
		ProfileSource: source.String(),
		Sinks:         enabledSinks(cfg.Sinks),
		Profile:       profile.Map(),
		Users:         len(cfg.Broker.Users),
		MDNS:          cfg.Broker.MDNS.Enabled,
		Events:        cfg.EventValues(),
	}
	for _, l := range brokerListeners(cfg.Broker.Listeners) {
		report.Listeners = append(report.Listeners, listenerReport{ID: l.ID, Type: l.Type, Address: l.Address})
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func enabledSinks(s config.SinksConfig) []string {
	var names []string
	if s.Console.Enabled {
		names = append(names, "console:"+s.Console.Stream)
	}
	if s.File.Enabled {
		names = append(names, "file:"+s.File.Path)
	}
	if s.Record.Enabled {
		names = append(names, "record:"+s.Record.Path)
	}
	if s.MQTT.Enabled {
		names = append(names, "mqtt:"+s.MQTT.Broker)
	}
	if s.Slog.Enabled {
		names = append(names, "slog")
	}
	return names
}

func newValidateCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print the resolved event profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			return RunValidate(configPath, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	return cmd
}
