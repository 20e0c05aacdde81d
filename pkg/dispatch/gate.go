// Package dispatch decides per packet whether a record is produced and
// isolates the broker from failures while producing it.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/feature"
	"github.com/mqttlog/mqttlog-go/pkg/format"
	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// ErrNoEvent is reported when an event builder returns nil.
var ErrNoEvent = errors.New("event builder returned nil")

// Stats are the gate counters since construction.
type Stats struct {
	// Formatted records handed to the sink.
	Formatted uint64
	// Skipped packets whose kind and direction are disabled.
	Skipped uint64
	// Failed packets dropped because building, formatting or writing failed.
	Failed uint64
}

// Gate checks enablement, builds events lazily, formats them and writes
// the records to a sink. It is safe for concurrent use.
type Gate struct {
	profile feature.Profile
	sink    log.Logger
	format  format.Func
	logger  *slog.Logger

	formatted atomic.Uint64
	skipped   atomic.Uint64
	failed    atomic.Uint64
}

// Option configures a Gate.
type Option func(*Gate)

// WithFormatter replaces format.Format.
func WithFormatter(f format.Func) Option {
	return func(g *Gate) {
		if f != nil {
			g.format = f
		}
	}
}

// WithLogger sets the logger used to report dropped records.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a gate writing to sink. A nil sink discards records.
func New(profile feature.Profile, sink log.Logger, opts ...Option) *Gate {
	if sink == nil {
		sink = log.NoopLogger{}
	}
	g := &Gate{
		profile: profile,
		sink:    sink,
		format:  format.Format,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Profile returns the profile the gate was built with.
func (g *Gate) Profile() feature.Profile {
	return g.profile
}

// Enabled reports whether packets of kind in direction dir are logged.
func (g *Gate) Enabled(kind packet.Kind, dir packet.Direction) bool {
	return g.profile.Enabled(kind, dir)
}

// Dispatch logs one packet. When the kind is disabled build is never
// called. Errors and panics from build, the formatter or the sink are
// logged at debug level and the record is dropped; Dispatch never panics.
func (g *Gate) Dispatch(kind packet.Kind, dir packet.Direction, build func() *packet.Event) {
	if !g.profile.Enabled(kind, dir) {
		g.skipped.Add(1)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			g.drop(kind, dir, err)
		}
	}()

	ev := build()
	if ev == nil {
		g.drop(kind, dir, ErrNoEvent)
		return
	}
	if ev.Timestamp.IsZero() {
		stamped := *ev
		stamped.Timestamp = time.Now()
		ev = &stamped
	}

	rec, err := g.format(ev, g.profile)
	if err != nil {
		g.drop(kind, dir, err)
		return
	}

	g.sink.Log(rec)
	g.formatted.Add(1)
}

func (g *Gate) drop(kind packet.Kind, dir packet.Direction, err error) {
	g.failed.Add(1)
	g.logger.Debug("exception during packet logging",
		slog.String("kind", kind.MessageType()),
		slog.String("direction", dir.String()),
		slog.Any("error", err))
}

// Stats returns a snapshot of the counters.
func (g *Gate) Stats() Stats {
	return Stats{
		Formatted: g.formatted.Load(),
		Skipped:   g.skipped.Load(),
		Failed:    g.failed.Load(),
	}
}
