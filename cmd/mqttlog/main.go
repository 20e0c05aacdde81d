// Command mqttlog runs an MQTT broker that logs every intercepted control
// packet, and inspects the record files it writes.
//
// Usage:
//
//	mqttlog <command> [flags]
//
// Commands:
//
//	serve     Run the broker and log packets to the configured sinks
//	validate  Check the configuration and print the resolved event profile
//	view      View a record file in human-readable format
//	export    Export a record file to JSONL or CSV
//	filter    Filter a record file and write matches to a new file
//	stats     Show statistics about a record file
//	discover  Find MQTT brokers announced over mDNS
//
// Examples:
//
//	# Run with a configuration file and the interactive console
//	mqttlog serve -c mqttlog.yaml -i
//
//	# View only outbound PUBLISH records
//	mqttlog view --kind publish --direction out mqttlog.mlog
//
//	# Export to JSONL
//	mqttlog export --format jsonl mqttlog.mlog
//
//	# Keep one client's records
//	mqttlog filter --client-id sensor-1 -o sensor-1.mlog mqttlog.mlog
package main

import (
	"fmt"
	"os"

	"github.com/mqttlog/mqttlog-go/cmd/mqttlog/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
