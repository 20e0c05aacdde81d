package discovery

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeBrokerTXT(t *testing.T) {
	tests := []struct {
		name string
		info BrokerInfo
		want []string
	}{
		{
			name: "tcp minimal",
			info: BrokerInfo{Listener: "tcp1"},
			want: []string{"listener=tcp1", "txtvers=1"},
		},
		{
			name: "tcp with version",
			info: BrokerInfo{Listener: "tcp1", Version: "1.2.0"},
			want: []string{"listener=tcp1", "txtvers=1", "version=1.2.0"},
		},
		{
			name: "websocket default path",
			info: BrokerInfo{Listener: "ws1", Websocket: true},
			want: []string{"listener=ws1", "path=/", "txtvers=1"},
		},
		{
			name: "websocket custom path",
			info: BrokerInfo{Listener: "ws1", Websocket: true, Path: "/mqtt"},
			want: []string{"listener=ws1", "path=/mqtt", "txtvers=1"},
		},
		{
			name: "path ignored for tcp",
			info: BrokerInfo{Listener: "tcp1", Path: "/mqtt"},
			want: []string{"listener=tcp1", "txtvers=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TXTRecordsToStrings(EncodeBrokerTXT(&tt.info))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeBrokerTXT(t *testing.T) {
	info, err := DecodeBrokerTXT(TXTRecordMap{
		TXTKeyVersionTXT: "1",
		TXTKeyListener:   "ws1",
		TXTKeyVersion:    "dev",
		TXTKeyPath:       "/mqtt",
	})
	if err != nil {
		t.Fatalf("DecodeBrokerTXT: %v", err)
	}
	if info.Listener != "ws1" || info.Version != "dev" || info.Path != "/mqtt" || !info.Websocket {
		t.Errorf("unexpected info %+v", info)
	}

	info, err = DecodeBrokerTXT(TXTRecordMap{TXTKeyVersionTXT: "1", TXTKeyListener: "tcp1"})
	if err != nil {
		t.Fatalf("DecodeBrokerTXT: %v", err)
	}
	if info.Websocket || info.Path != "" {
		t.Errorf("tcp record decoded as websocket: %+v", info)
	}
}

func TestDecodeBrokerTXTErrors(t *testing.T) {
	tests := []struct {
		name string
		txt  TXTRecordMap
		want error
	}{
		{"missing txtvers", TXTRecordMap{TXTKeyListener: "tcp1"}, ErrMissingRequired},
		{"unknown txtvers", TXTRecordMap{TXTKeyVersionTXT: "2", TXTKeyListener: "tcp1"}, ErrUnsupportedVersion},
		{"missing listener", TXTRecordMap{TXTKeyVersionTXT: "1"}, ErrMissingRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBrokerTXT(tt.txt)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := StringsToTXTRecords([]string{"a=1", "b=x=y", "flag", ""})
	if txt["a"] != "1" {
		t.Errorf("a = %q", txt["a"])
	}
	if txt["b"] != "x=y" {
		t.Errorf("b = %q", txt["b"])
	}
	if v, ok := txt["flag"]; !ok || v != "" {
		t.Errorf("flag = %q, %v", v, ok)
	}
	if len(txt) != 3 {
		t.Errorf("len = %d, want 3", len(txt))
	}
}

func TestValidateTXTSize(t *testing.T) {
	if err := ValidateTXTSize([]string{"txtvers=1", "listener=tcp1"}); err != nil {
		t.Errorf("small record: %v", err)
	}
	big := []string{"version=" + strings.Repeat("x", MaxTXTRecordSize)}
	if err := ValidateTXTSize(big); !errors.Is(err, ErrTXTRecordTooLarge) {
		t.Errorf("big record: err = %v", err)
	}
}

func TestInstanceName(t *testing.T) {
	if got := InstanceName("pi"); got != "mqttlog-pi" {
		t.Errorf("got %q", got)
	}
	if got := InstanceName(""); got != "mqttlog" {
		t.Errorf("got %q", got)
	}
	if got := InstanceName(strings.Repeat("h", 100)); len(got) != MaxInstanceNameLen {
		t.Errorf("len = %d, want %d", len(got), MaxInstanceNameLen)
	}
	if err := ValidateInstanceName(""); err == nil {
		t.Error("empty name accepted")
	}
	if err := ValidateInstanceName(strings.Repeat("h", 64)); !errors.Is(err, ErrInstanceNameTooLong) {
		t.Errorf("long name: err = %v", err)
	}
}
