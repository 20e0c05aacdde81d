package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mqttlog/mqttlog-go/pkg/feature"
	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// Formatter errors.
var (
	ErrNilEvent    = errors.New("nil event")
	ErrUnknownKind = errors.New("unknown packet kind")
)

// Func is the signature of Format, used for injection.
type Func func(ev *packet.Event, p feature.Profile) (log.Record, error)

// Format renders ev into a record according to p.
// A missing body renders every body field as the null sentinel.
func Format(ev *packet.Event, p feature.Profile) (log.Record, error) {
	if ev == nil {
		return log.Record{}, ErrNilEvent
	}
	entry, ok := kinds[ev.Kind]
	if !ok {
		return log.Record{}, fmt.Errorf("%w: %d", ErrUnknownKind, ev.Kind)
	}

	fields := entry.build(ev, p)
	if entry.hasBody != nil && !entry.hasBody(ev) {
		for i := range fields {
			fields[i] = fields[i].nulled()
		}
	}

	rec := log.Record{
		Timestamp: ev.Timestamp,
		ClientID:  ev.ClientID,
		Kind:      ev.Kind,
		Direction: ev.Direction,
	}

	if p.JSON() {
		line, err := encodeJSON(ev, fields)
		if err != nil {
			return log.Record{}, fmt.Errorf("encode %s: %w", ev.Kind.MessageType(), err)
		}
		rec.Encoding = log.EncodingJSON
		rec.Line = line
		return rec, nil
	}

	rec.Encoding = log.EncodingText
	rec.Line = encodeText(ev, fields)
	return rec, nil
}

// encodeText renders "<head>: <fields>". The authentication failure head
// ends in a period and keeps the separator, giving "failed.: Reason Code".
func encodeText(ev *packet.Event, fields object) string {
	head := textHead(ev)
	body := fields.text()
	if body == "" {
		return head
	}
	return head + ": " + body
}

func textHead(ev *packet.Event) string {
	in := ev.Direction == packet.Inbound

	if ev.Kind == packet.KindPublish {
		topic := Null
		if ev.Publish != nil {
			topic = ev.Publish.Topic
		}
		if in {
			return fmt.Sprintf("Received PUBLISH from client '%s' for topic '%s'", ev.ClientID, topic)
		}
		return fmt.Sprintf("Sent PUBLISH to client '%s' on topic '%s'", ev.ClientID, topic)
	}

	if ev.Kind == packet.KindDisconnect && ev.Disconnect != nil && ev.Disconnect.AuthenticationFailed {
		return fmt.Sprintf("Sent DISCONNECT to client '%s' because authentication failed.", ev.ClientID)
	}

	if in {
		return fmt.Sprintf("Received %s from client '%s'", ev.Kind, ev.ClientID)
	}
	return fmt.Sprintf("Sent %s to client '%s'", ev.Kind, ev.ClientID)
}

func encodeJSON(ev *packet.Event, fields object) (string, error) {
	env := make(object, 0, len(fields)+4)
	env = append(env,
		jsonOnly("timestamp", ev.Timestamp.UnixMilli()),
		jsonOnly("messageType", ev.Kind.MessageType()),
		jsonOnly("direction", ev.Direction.String()),
		jsonOnly("clientId", ev.ClientID),
	)
	env = append(env, fields...)

	var buf bytes.Buffer
	if err := writeJSON(&buf, env); err != nil {
		return "", err
	}
	return buf.String(), nil
}
