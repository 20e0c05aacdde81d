package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// sampleRecords is a short session of two clients, the last record of
// "bad" being an authentication failure in JSON.
func sampleRecords() []log.Record {
	return []log.Record{
		{
			Timestamp: baseTime,
			ClientID:  "sensor-1",
			Kind:      packet.KindConnect,
			Direction: packet.Inbound,
			Line:      "Received CONNECT from client 'sensor-1': Protocol version: 'V_5', Clean Start: 'true'",
		},
		{
			Timestamp: baseTime.Add(10 * time.Millisecond),
			ClientID:  "sensor-1",
			Kind:      packet.KindConnack,
			Direction: packet.Outbound,
			Line:      "Sent CONNACK to client 'sensor-1': Reason Code: 'SUCCESS', Session Present: 'false'",
		},
		{
			Timestamp: baseTime.Add(time.Second),
			ClientID:  "sensor-1",
			Kind:      packet.KindPublish,
			Direction: packet.Inbound,
			Line:      "Received PUBLISH from client 'sensor-1' for topic 'temp': Payload: '21.5', QoS: '0', Retained: 'false'",
		},
		{
			Timestamp: baseTime.Add(2 * time.Second),
			ClientID:  "bad",
			Kind:      packet.KindDisconnect,
			Direction: packet.Outbound,
			Encoding:  log.EncodingJSON,
			Line:      `{"timestamp":1709294402000,"messageType":"DISCONNECT","direction":"OUTBOUND","clientId":"bad","reasonCode":"BAD_USER_NAME_OR_PASSWORD","authenticationFailed":true}`,
		},
	}
}

// writeRecordFile writes recs to a new capture file and returns its path.
func writeRecordFile(t *testing.T, recs []log.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.mlog")
	fl, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, rec := range recs {
		fl.Log(rec)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func readRecordFile(t *testing.T, path string) []log.Record {
	t.Helper()
	r, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var recs []log.Record
	for {
		rec, err := r.Next()
		if err != nil {
			return recs
		}
		recs = append(recs, rec)
	}
}

func kindPtr(k packet.Kind) *packet.Kind { return &k }

func dirPtr(d packet.Direction) *packet.Direction { return &d }
