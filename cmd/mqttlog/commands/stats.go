package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
	"github.com/spf13/cobra"
)

// authFailedMarkers identify authentication failure disconnect records
// in both encodings.
var authFailedMarkers = []string{"because authentication failed", `"authenticationFailed":true`}

// Stats holds aggregate statistics about a record file.
type Stats struct {
	TotalRecords      int
	RecordsByKind     map[packet.Kind]int
	RecordsByDir      map[packet.Direction]int
	RecordsByEncoding map[log.Encoding]int
	Clients           map[string]*ClientStats
	AuthFailures      int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ClientStats holds statistics for a single client.
type ClientStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Records   int
	Inbound   int
	Outbound  int
	Publishes int
}

// CollectStats reads every record of path.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		RecordsByKind:     make(map[packet.Kind]int),
		RecordsByDir:      make(map[packet.Direction]int),
		RecordsByEncoding: make(map[log.Encoding]int),
		Clients:           make(map[string]*ClientStats),
	}

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		stats.add(rec)
	}
}

func (s *Stats) add(rec log.Record) {
	s.TotalRecords++
	s.RecordsByKind[rec.Kind]++
	s.RecordsByDir[rec.Direction]++
	s.RecordsByEncoding[rec.Encoding]++

	// Track time range
	if s.TimeRange.Start.IsZero() || rec.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = rec.Timestamp
	}
	if rec.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = rec.Timestamp
	}

	// Track client stats
	client, ok := s.Clients[rec.ClientID]
	if !ok {
		client = &ClientStats{
			FirstSeen: rec.Timestamp,
			LastSeen:  rec.Timestamp,
		}
		s.Clients[rec.ClientID] = client
	}
	client.Records++
	if rec.Timestamp.After(client.LastSeen) {
		client.LastSeen = rec.Timestamp
	}
	if rec.Direction == packet.Inbound {
		client.Inbound++
	} else {
		client.Outbound++
	}
	if rec.Kind == packet.KindPublish {
		client.Publishes++
	}

	if rec.Kind == packet.KindDisconnect {
		for _, marker := range authFailedMarkers {
			if strings.Contains(rec.Line, marker) {
				s.AuthFailures++
				break
			}
		}
	}
}

// RunStats analyzes the record file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== MQTT Packet Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalRecords > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Records: %d\n", stats.TotalRecords)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Records by Type:")
	for _, kind := range packet.Kinds() {
		if count := stats.RecordsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind.MessageType()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Records by Direction:")
	for _, dir := range []packet.Direction{packet.Inbound, packet.Outbound} {
		if count := stats.RecordsByDir[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Records by Encoding:")
	for _, enc := range []log.Encoding{log.EncodingText, log.EncodingJSON} {
		if count := stats.RecordsByEncoding[enc]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", enc.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Clients
	fmt.Fprintf(w, "Clients: %d\n", len(stats.Clients))
	if len(stats.Clients) > 0 {
		type clientInfo struct {
			id    string
			stats *ClientStats
		}
		clients := make([]clientInfo, 0, len(stats.Clients))
		for id, cs := range stats.Clients {
			clients = append(clients, clientInfo{id, cs})
		}
		sort.Slice(clients, func(i, j int) bool {
			if clients[i].stats.FirstSeen.Equal(clients[j].stats.FirstSeen) {
				return clients[i].id < clients[j].id
			}
			return clients[i].stats.FirstSeen.Before(clients[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range clients {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d records (%d in, %d out), duration %s\n",
				c.id, c.stats.Records, c.stats.Inbound, c.stats.Outbound, duration)
			if c.stats.Publishes > 0 {
				fmt.Fprintf(w, "           Publishes: %d\n", c.stats.Publishes)
			}
		}
	}

	if stats.AuthFailures > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Authentication Failures: %d\n", stats.AuthFailures)
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.mlog>",
		Short: "Show statistics about a record file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunStats(args[0], cmd.OutOrStdout())
		},
	}
}
