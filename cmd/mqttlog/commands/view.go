package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/spf13/cobra"
)

// formatRecord writes one record as "<timestamp> <DIRECTION> <line>".
// With raw set only the line is written, exactly as the sinks wrote it.
func formatRecord(w io.Writer, rec log.Record, raw bool) {
	if raw {
		fmt.Fprintln(w, rec.Line)
		return
	}
	fmt.Fprintf(w, "%s %-8s %s\n", formatTimestamp(rec.Timestamp), rec.Direction, rec.Line)
}

// RunView prints the records of a capture file that match filter.
func RunView(path string, filter log.Filter, raw bool, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		formatRecord(w, rec, raw)
	}
}

func addFilterFlags(cmd *cobra.Command, opts *FilterOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.ClientID, "client-id", "", "Filter by client identifier")
	f.StringVar(&opts.Kind, "kind", "", "Filter by message type (connect, publish, pingreq, ...)")
	f.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	f.StringVar(&opts.Encoding, "encoding", "", "Filter by record encoding (text, json)")
	f.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	f.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	f.StringVar(&opts.Contains, "contains", "", "Filter by substring of the record line")
}

func newViewCommand() *cobra.Command {
	var opts FilterOptions
	var raw bool

	cmd := &cobra.Command{
		Use:   "view [flags] <file.mlog>",
		Short: "View a record file in human-readable format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := opts.Filter()
			if err != nil {
				return err
			}
			return RunView(args[0], filter, raw, cmd.OutOrStdout())
		},
	}
	addFilterFlags(cmd, &opts)
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the record lines")
	return cmd
}
