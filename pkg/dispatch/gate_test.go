package dispatch

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/feature"
	"github.com/mqttlog/mqttlog-go/pkg/log"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubSink struct{ mock.Mock }

func (s *stubSink) Log(rec log.Record) { s.Called(rec) }

func pingEvent() *packet.Event {
	return &packet.Event{Kind: packet.KindPingReq, Direction: packet.Inbound, ClientID: "c"}
}

func allDisabled() feature.Profile {
	values := map[string]string{}
	for _, key := range feature.EventKeys() {
		values[key] = "false"
	}
	return feature.FromMap(values)
}

func TestDispatchWritesRecord(t *testing.T) {
	sink := &stubSink{}
	sink.On("Log", mock.MatchedBy(func(rec log.Record) bool {
		return rec.Line == "Received PING REQUEST from client 'c'" && rec.Kind == packet.KindPingReq
	})).Once()

	g := New(feature.Default(), sink)
	g.Dispatch(packet.KindPingReq, packet.Inbound, pingEvent)

	sink.AssertExpectations(t)
	assert.Equal(t, Stats{Formatted: 1}, g.Stats())
}

func TestDispatchDisabledSkipsEverything(t *testing.T) {
	sink := &stubSink{}
	var built, formatted atomic.Int32

	g := New(allDisabled(), sink, WithFormatter(func(ev *packet.Event, p feature.Profile) (log.Record, error) {
		formatted.Add(1)
		return log.Record{}, nil
	}))

	for _, kind := range packet.Kinds() {
		for _, dir := range []packet.Direction{packet.Inbound, packet.Outbound} {
			g.Dispatch(kind, dir, func() *packet.Event {
				built.Add(1)
				return &packet.Event{Kind: kind, Direction: dir}
			})
		}
	}

	assert.Zero(t, built.Load(), "builder invocations")
	assert.Zero(t, formatted.Load(), "formatter invocations")
	sink.AssertNotCalled(t, "Log", mock.Anything)
	assert.Equal(t, uint64(len(packet.Kinds())*2), g.Stats().Skipped)
}

func TestDispatchPerKindToggle(t *testing.T) {
	for _, kind := range packet.Kinds() {
		for _, dir := range []packet.Direction{packet.Inbound, packet.Outbound} {
			key, ok := feature.KeyFor(kind, dir)
			if !ok {
				continue
			}
			var calls int
			g := New(feature.FromMap(map[string]string{key: "false"}), log.NoopLogger{},
				WithFormatter(func(*packet.Event, feature.Profile) (log.Record, error) {
					calls++
					return log.Record{}, nil
				}))
			g.Dispatch(kind, dir, func() *packet.Event { return &packet.Event{Kind: kind, Direction: dir} })
			if calls != 0 {
				t.Errorf("%s %s with %s=false: formatter called %d times", kind, dir, key, calls)
			}
		}
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name   string
		build  func() *packet.Event
		format func(*packet.Event, feature.Profile) (log.Record, error)
		sink   log.Logger
		want   string
	}{
		{
			name:  "builder panics",
			build: func() *packet.Event { panic("boom") },
			sink:  log.NoopLogger{},
			want:  "boom",
		},
		{
			name:  "builder returns nil",
			build: func() *packet.Event { return nil },
			sink:  log.NoopLogger{},
			want:  ErrNoEvent.Error(),
		},
		{
			name:  "formatter fails",
			build: pingEvent,
			format: func(*packet.Event, feature.Profile) (log.Record, error) {
				return log.Record{}, errors.New("encode failed")
			},
			sink: log.NoopLogger{},
			want: "encode failed",
		},
		{
			name:  "sink panics",
			build: pingEvent,
			sink:  panicSink{},
			want:  "sink exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			g := New(feature.Default(), tt.sink, WithLogger(logger), WithFormatter(tt.format))

			require.NotPanics(t, func() {
				g.Dispatch(packet.KindPingReq, packet.Inbound, tt.build)
			})

			assert.Equal(t, Stats{Failed: 1}, g.Stats())
			out := buf.String()
			assert.Contains(t, out, "level=DEBUG")
			assert.Contains(t, out, "exception during packet logging")
			assert.Contains(t, out, tt.want)
		})
	}
}

type panicSink struct{}

func (panicSink) Log(log.Record) { panic(errors.New("sink exploded")) }

func TestDispatchStampsMissingTimestamp(t *testing.T) {
	var got time.Time
	g := New(feature.Default(), nil, WithFormatter(func(ev *packet.Event, _ feature.Profile) (log.Record, error) {
		got = ev.Timestamp
		return log.Record{}, nil
	}))

	before := time.Now()
	g.Dispatch(packet.KindPingReq, packet.Inbound, pingEvent)
	assert.False(t, got.Before(before), "timestamp %v earlier than %v", got, before)

	fixed := time.UnixMilli(42)
	g.Dispatch(packet.KindPingReq, packet.Inbound, func() *packet.Event {
		ev := pingEvent()
		ev.Timestamp = fixed
		return ev
	})
	assert.True(t, got.Equal(fixed))
}

func TestDispatchLeavesEventUnchanged(t *testing.T) {
	var formatted time.Time
	g := New(feature.Default(), nil, WithFormatter(func(ev *packet.Event, _ feature.Profile) (log.Record, error) {
		formatted = ev.Timestamp
		return log.Record{Timestamp: ev.Timestamp}, nil
	}))

	ev := pingEvent()
	g.Dispatch(packet.KindPingReq, packet.Inbound, func() *packet.Event { return ev })

	assert.False(t, formatted.IsZero())
	assert.True(t, ev.Timestamp.IsZero(), "event timestamp was overwritten with %v", ev.Timestamp)
	assert.Equal(t, "c", ev.ClientID)
}

func TestDispatchConcurrent(t *testing.T) {
	var mu sync.Mutex
	var lines []string
	sink := sinkFunc(func(rec log.Record) {
		mu.Lock()
		lines = append(lines, rec.Line)
		mu.Unlock()
	})

	g := New(feature.Default(), sink)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Dispatch(packet.KindPingReq, packet.Inbound, pingEvent)
		}()
	}
	wg.Wait()

	assert.Len(t, lines, 50)
	assert.Equal(t, uint64(50), g.Stats().Formatted)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "Received PING REQUEST"))
	}
}

type sinkFunc func(log.Record)

func (f sinkFunc) Log(rec log.Record) { f(rec) }

func TestGateProfile(t *testing.T) {
	p := feature.FromMap(map[string]string{feature.JSON: "true"})
	g := New(p, nil)
	assert.Equal(t, p, g.Profile())
	assert.True(t, g.Enabled(packet.KindPublish, packet.Outbound))
}
