package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// FilterOptions holds the record selection flags shared by view, export,
// filter and stats. Empty fields select everything.
type FilterOptions struct {
	ClientID  string
	Kind      string
	Direction string
	Encoding  string
	TimeStart string
	TimeEnd   string
	Contains  string
}

// Filter converts the flag values into a log.Filter.
func (o FilterOptions) Filter() (log.Filter, error) {
	filter := log.Filter{
		ClientID: o.ClientID,
		Contains: o.Contains,
	}

	if o.Kind != "" {
		k, err := ParseKindFlag(o.Kind)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Kind = &k
	}

	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}

	if o.Encoding != "" {
		e, err := ParseEncodingFlag(o.Encoding)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Encoding = &e
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// ParseKindFlag parses a message type such as "publish" or "PINGREQ".
func ParseKindFlag(s string) (packet.Kind, error) {
	k, ok := packet.ParseKind(s)
	if !ok {
		return 0, fmt.Errorf("invalid kind: %s (e.g. connect, publish, pingreq)", s)
	}
	return k, nil
}

// ParseDirectionFlag parses a direction string (case-insensitive).
func ParseDirectionFlag(s string) (packet.Direction, error) {
	switch strings.ToLower(s) {
	case "in", "inbound":
		return packet.Inbound, nil
	case "out", "outbound":
		return packet.Outbound, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseEncodingFlag parses a record encoding string (case-insensitive).
func ParseEncodingFlag(s string) (log.Encoding, error) {
	switch strings.ToLower(s) {
	case "text":
		return log.EncodingText, nil
	case "json":
		return log.EncodingJSON, nil
	default:
		return 0, fmt.Errorf("invalid encoding: %s (must be text or json)", s)
	}
}

// timestampLayout is used for record timestamps in every command output.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
