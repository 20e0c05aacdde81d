package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/spf13/cobra"
)

// RunFilter copies the records of path matching filter into a new
// capture file at output and returns how many were copied.
func RunFilter(path, output string, filter log.Filter) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("failed to read record: %w", err)
		}

		logger.Log(rec)
		count++
	}
}

func newFilterCommand() *cobra.Command {
	var opts FilterOptions
	var output string

	cmd := &cobra.Command{
		Use:   "filter [flags] <file.mlog>",
		Short: "Filter a record file and write matches to a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := opts.Filter()
			if err != nil {
				return err
			}
			count, err := RunFilter(args[0], output, filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d records to %s\n", count, output)
			return nil
		},
	}
	addFilterFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (required)")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
	return cmd
}
