package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
)

// Server errors.
var (
	// ErrNoListeners is returned when a server is configured without listeners.
	ErrNoListeners = errors.New("broker: no listeners")

	// ErrNoGate is returned when a server is configured without a gate.
	ErrNoGate = errors.New("broker: gate is required")

	// ErrAlreadyRunning is returned by Start on a running server.
	ErrAlreadyRunning = errors.New("broker: server already running")
)

// Listener types.
const (
	ListenerTCP       = "tcp"
	ListenerWebsocket = "ws"
)

// ListenerConfig is one network listener.
type ListenerConfig struct {
	ID      string
	Type    string
	Address string
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// Listeners to serve. At least one is required.
	Listeners []ListenerConfig

	// Gate receives every intercepted packet.
	Gate *dispatch.Gate

	// Users maps usernames to bcrypt hashes. Empty allows every client.
	Users map[string]string

	// IgnoreClients are client IDs whose packets are not logged.
	IgnoreClients []string

	// InlineClient enables Publish.
	InlineClient bool

	// Logger for broker operation. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server is an embedded MQTT broker with packet logging.
type Server struct {
	config  ServerConfig
	mqtt    *mqtt.Server
	running atomic.Bool

	stopOnce sync.Once
	stopped  chan struct{}
	// watched is closed when the context watcher started by Start returns.
	watched chan struct{}
}

// NewServer creates a server with its hooks and listeners registered.
func NewServer(config ServerConfig) (*Server, error) {
	if len(config.Listeners) == 0 {
		return nil, ErrNoListeners
	}
	if config.Gate == nil {
		return nil, ErrNoGate
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	caps := mqtt.NewDefaultServerCapabilities()
	srv := mqtt.New(&mqtt.Options{
		InlineClient: config.InlineClient,
		Logger:       config.Logger,
		Capabilities: caps,
	})

	if len(config.Users) > 0 {
		if err := srv.AddHook(new(AuthHook), &AuthOptions{Users: config.Users, Gate: config.Gate}); err != nil {
			return nil, fmt.Errorf("failed to add auth hook: %w", err)
		}
	} else {
		if err := srv.AddHook(new(auth.AllowHook), nil); err != nil {
			return nil, fmt.Errorf("failed to add allow hook: %w", err)
		}
	}

	err := srv.AddHook(new(Hook), &HookOptions{
		Gate:          config.Gate,
		IgnoreClients: config.IgnoreClients,
		Converter:     Converter{RetainAvailable: caps.RetainAvailable == 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add packet hook: %w", err)
	}

	for _, lc := range config.Listeners {
		l, err := newListener(lc)
		if err != nil {
			return nil, err
		}
		if err := srv.AddListener(l); err != nil {
			return nil, fmt.Errorf("failed to add listener %s: %w", lc.ID, err)
		}
	}

	return &Server{
		config:  config,
		mqtt:    srv,
		stopped: make(chan struct{}),
		watched: make(chan struct{}),
	}, nil
}

func newListener(lc ListenerConfig) (listeners.Listener, error) {
	cfg := listeners.Config{ID: lc.ID, Address: lc.Address}
	switch lc.Type {
	case "", ListenerTCP:
		return listeners.NewTCP(cfg), nil
	case ListenerWebsocket:
		return listeners.NewWebsocket(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported listener type %q", lc.Type)
	}
}

// Start serves the listeners until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if err := s.mqtt.Serve(); err != nil {
		s.running.Store(false)
		return fmt.Errorf("failed to serve: %w", err)
	}
	go func() {
		defer close(s.watched)
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-s.stopped:
		}
	}()
	return nil
}

// Stop closes the listeners and disconnects all clients.
// A stopped server cannot be started again.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.stopOnce.Do(func() { close(s.stopped) })
	return s.mqtt.Close()
}

// Address returns the bound address of a listener, or "" if unknown.
func (s *Server) Address(id string) string {
	l, ok := s.mqtt.Listeners.Get(id)
	if !ok {
		return ""
	}
	return l.Address()
}

// Listeners returns the bound address of every configured listener.
func (s *Server) Listeners() map[string]string {
	out := make(map[string]string, len(s.config.Listeners))
	for _, lc := range s.config.Listeners {
		out[lc.ID] = s.Address(lc.ID)
	}
	return out
}

// Clients returns the number of known client sessions.
func (s *Server) Clients() int {
	return s.mqtt.Clients.Len()
}

// Publish publishes a message from the inline client.
func (s *Server) Publish(topic string, payload []byte, retain bool, qos byte) error {
	return s.mqtt.Publish(topic, payload, retain, qos)
}
