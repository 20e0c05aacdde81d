package commands

import (
	"path/filepath"
	"testing"

	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

func TestRunFilter(t *testing.T) {
	in := writeRecordFile(t, sampleRecords())
	out := filepath.Join(t.TempDir(), "out.mlog")

	count, err := RunFilter(in, out, log.Filter{Direction: dirPtr(packet.Outbound)})
	if err != nil {
		t.Fatalf("RunFilter: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	got := readRecordFile(t, out)
	if len(got) != 2 {
		t.Fatalf("output has %d records, want 2", len(got))
	}
	for _, rec := range got {
		if rec.Direction != packet.Outbound {
			t.Errorf("record %q has direction %v", rec.Line, rec.Direction)
		}
	}
	if got[1].Encoding != log.EncodingJSON {
		t.Errorf("encoding not preserved: %v", got[1].Encoding)
	}
	if !got[0].Timestamp.Equal(baseTime.Add(10_000_000)) {
		t.Errorf("timestamp not preserved: %v", got[0].Timestamp)
	}
}

func TestRunFilterNoMatch(t *testing.T) {
	in := writeRecordFile(t, sampleRecords())
	out := filepath.Join(t.TempDir(), "empty.mlog")

	count, err := RunFilter(in, out, log.Filter{ClientID: "nobody"})
	if err != nil {
		t.Fatalf("RunFilter: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if got := readRecordFile(t, out); len(got) != 0 {
		t.Errorf("output has %d records, want 0", len(got))
	}
}

func TestRunFilterBadOutput(t *testing.T) {
	in := writeRecordFile(t, sampleRecords())
	out := filepath.Join(t.TempDir(), "missing-dir", "out.mlog")

	if _, err := RunFilter(in, out, log.Filter{}); err == nil {
		t.Error("expected error for unwritable output")
	}
}
