// Package commands implements the mqttlog CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

// NewRootCommand returns the mqttlog command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mqttlog",
		Short: "MQTT broker that logs every intercepted control packet",
		Long: `mqttlog runs an MQTT broker and writes one record per intercepted
control packet to the configured sinks. Record files written by the
record sink can be inspected with view, export, filter and stats.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newValidateCommand(),
		newViewCommand(),
		newExportCommand(),
		newFilterCommand(),
		newStatsCommand(),
		newDiscoverCommand(),
	)
	return root
}
