package log

import (
	"testing"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

func testRecord(clientID string, kind packet.Kind, dir packet.Direction) Record {
	return Record{
		Timestamp: time.Now(),
		ClientID:  clientID,
		Kind:      kind,
		Direction: dir,
		Encoding:  EncodingText,
		Line:      "Received " + kind.String() + " from client '" + clientID + "'",
	}
}

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}
	for _, kind := range packet.Kinds() {
		logger.Log(testRecord("c", kind, packet.Inbound))
	}
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Record{})
}

func TestEncodingString(t *testing.T) {
	tests := []struct {
		enc  Encoding
		want string
	}{
		{EncodingText, "text"},
		{EncodingJSON, "json"},
		{Encoding(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.enc.String(); got != tt.want {
			t.Errorf("Encoding(%d).String() = %q, want %q", tt.enc, got, tt.want)
		}
	}
}
