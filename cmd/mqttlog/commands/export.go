package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/spf13/cobra"
)

// exportRecord is the JSONL form of a record. JSON records are embedded
// as objects instead of escaped strings.
type exportRecord struct {
	Timestamp   string          `json:"timestamp"`
	ClientID    string          `json:"clientId"`
	MessageType string          `json:"messageType"`
	Direction   string          `json:"direction"`
	Encoding    string          `json:"encoding"`
	Line        string          `json:"line,omitempty"`
	Record      json.RawMessage `json:"record,omitempty"`
}

// RunExport writes the records of a capture file matching filter to w.
func RunExport(path, format string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		out := exportRecord{
			Timestamp:   formatTimestamp(rec.Timestamp),
			ClientID:    rec.ClientID,
			MessageType: rec.Kind.MessageType(),
			Direction:   rec.Direction.String(),
			Encoding:    rec.Encoding.String(),
		}
		if rec.Encoding == log.EncodingJSON && json.Valid([]byte(rec.Line)) {
			out.Record = json.RawMessage(rec.Line)
		} else {
			out.Line = rec.Line
		}
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "client_id", "message_type", "direction", "encoding", "line"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		row := []string{
			formatTimestamp(rec.Timestamp),
			rec.ClientID,
			rec.Kind.MessageType(),
			rec.Direction.String(),
			rec.Encoding.String(),
			rec.Line,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
}

func newExportCommand() *cobra.Command {
	var opts FilterOptions
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [flags] <file.mlog>",
		Short: "Export a record file to JSONL or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := opts.Filter()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return RunExport(args[0], format, filter, w)
		},
	}
	addFilterFlags(cmd, &opts)
	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
