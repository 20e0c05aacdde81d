package log

import (
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// Record is one formatted packet log entry.
// CBOR encoding uses integer keys for compactness.
type Record struct {
	// Timestamp when the packet was intercepted (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ClientID of the connection the packet belongs to.
	ClientID string `cbor:"2,keyasint"`

	// Kind of control packet.
	Kind packet.Kind `cbor:"3,keyasint"`

	// Direction relative to the broker.
	Direction packet.Direction `cbor:"4,keyasint"`

	// Encoding of Line.
	Encoding Encoding `cbor:"5,keyasint"`

	// Line is the rendered record.
	Line string `cbor:"6,keyasint"`
}

// Encoding identifies how a record line was rendered.
type Encoding uint8

const (
	// EncodingText is the human readable single line form.
	EncodingText Encoding = 0
	// EncodingJSON is a single JSON object.
	EncodingJSON Encoding = 1
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingText:
		return "text"
	case EncodingJSON:
		return "json"
	default:
		return "unknown"
	}
}
