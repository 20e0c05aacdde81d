package log

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// Filter specifies criteria for selecting records.
// Empty or nil fields match every record.
type Filter struct {
	// ClientID filters by exact client identifier.
	ClientID string

	// Kind filters by control packet kind.
	Kind *packet.Kind

	// Direction filters by packet direction.
	Direction *packet.Direction

	// Encoding filters by line encoding.
	Encoding *Encoding

	// TimeStart filters records at or after this time.
	TimeStart *time.Time

	// TimeEnd filters records before this time.
	TimeEnd *time.Time

	// Contains filters records whose line contains this substring.
	Contains string
}

// Matches reports whether rec satisfies all filter criteria.
func (f *Filter) Matches(rec Record) bool {
	if f.ClientID != "" && rec.ClientID != f.ClientID {
		return false
	}
	if f.Kind != nil && rec.Kind != *f.Kind {
		return false
	}
	if f.Direction != nil && rec.Direction != *f.Direction {
		return false
	}
	if f.Encoding != nil && rec.Encoding != *f.Encoding {
		return false
	}
	if f.TimeStart != nil && rec.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !rec.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.Contains != "" && !strings.Contains(rec.Line, f.Contains) {
		return false
	}
	return true
}

// Reader reads records from a CBOR capture file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that yields every record in path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that yields records matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next matching record, or io.EOF at the end of the file.
func (r *Reader) Next() (Record, error) {
	for {
		var rec Record
		if err := r.decoder.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			return Record{}, err
		}

		if r.filter.Matches(rec) {
			return rec, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
