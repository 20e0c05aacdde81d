package log

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	defaultMQTTQueueSize      = 1024
	defaultMQTTPublishTimeout = 5 * time.Second
	defaultMQTTConnectTimeout = 10 * time.Second
	defaultMQTTDrainTimeout   = 5 * time.Second
	mqttDisconnectQuiesce     = 1000
)

// MQTTConfig configures an MQTTLogger.
type MQTTConfig struct {
	// Broker URL, e.g. "tcp://localhost:1883".
	Broker string
	// ClientID used when connecting. Defaults to "mqttlog-<uuid>".
	ClientID string
	// Username and Password are optional credentials.
	Username string
	Password string
	// Topic prefix. Records are published to <Topic>/<MESSAGETYPE>.
	Topic string
	// QoS for published records, 0 to 2.
	QoS byte
	// Retained marks published records as retained.
	Retained bool
	// QueueSize bounds the number of records waiting to be published.
	QueueSize int
	// PublishTimeout bounds how long the worker waits for one publish.
	PublishTimeout time.Duration
	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration
	// DrainTimeout bounds how long Close keeps publishing queued records.
	// Records still queued afterwards are dropped.
	DrainTimeout time.Duration
}

func (c *MQTTConfig) applyDefaults() {
	if c.ClientID == "" {
		c.ClientID = "mqttlog-" + uuid.NewString()
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultMQTTQueueSize
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultMQTTPublishTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultMQTTConnectTimeout
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = defaultMQTTDrainTimeout
	}
	c.Topic = strings.TrimRight(c.Topic, "/")
}

// Validate checks the configuration.
func (c MQTTConfig) Validate() error {
	if c.Broker == "" {
		return ErrInvalidBroker
	}
	if strings.Trim(c.Topic, "/") == "" {
		return ErrInvalidTopic
	}
	if strings.ContainsAny(c.Topic, "+#") {
		return fmt.Errorf("%w: wildcards not allowed in %q", ErrInvalidTopic, c.Topic)
	}
	if c.QoS > 2 {
		return fmt.Errorf("%w: %d", ErrInvalidQoS, c.QoS)
	}
	return nil
}

// mqttClient is the subset of pahomqtt.Client the logger uses.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// MQTTLogger publishes records to an MQTT broker from a background worker.
// Log never blocks; records that do not fit in the queue are dropped.
type MQTTLogger struct {
	cfg    MQTTConfig
	client mqttClient
	logger *slog.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan Record
	done    chan struct{}
	abandon atomic.Bool

	published atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// NewMQTTLogger connects to the broker and starts the publish worker.
func NewMQTTLogger(cfg MQTTConfig) (*MQTTLogger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.ConnectTimeout)

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, cfg.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return newMQTTLogger(cfg, client), nil
}

func newMQTTLogger(cfg MQTTConfig, client mqttClient) *MQTTLogger {
	cfg.applyDefaults()
	l := &MQTTLogger{
		cfg:    cfg,
		client: client,
		logger: slog.Default(),
		queue:  make(chan Record, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// ClientID returns the identifier the logger connects with. Brokers that
// feed this logger should not log packets from this client.
func (l *MQTTLogger) ClientID() string {
	return l.cfg.ClientID
}

// Topic returns the topic rec is published to.
func (l *MQTTLogger) Topic(rec Record) string {
	return l.cfg.Topic + "/" + rec.Kind.MessageType()
}

// Log queues the record for publishing.
func (l *MQTTLogger) Log(rec Record) {
	if err := l.Enqueue(rec); err != nil {
		l.dropped.Add(1)
	}
}

// Enqueue queues the record without blocking.
// It returns ErrSinkClosed after Close and ErrQueueFull when the queue is full.
func (l *MQTTLogger) Enqueue(rec Record) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrSinkClosed
	}
	select {
	case l.queue <- rec:
		return nil
	default:
		return ErrQueueFull
	}
}

func (l *MQTTLogger) run() {
	defer close(l.done)
	for rec := range l.queue {
		if l.abandon.Load() {
			l.dropped.Add(1)
			continue
		}
		if err := l.publish(rec); err != nil {
			l.failed.Add(1)
			l.logger.Debug("mqtt record publish failed",
				slog.String("topic", l.Topic(rec)),
				slog.Any("error", err))
			continue
		}
		l.published.Add(1)
	}
}

func (l *MQTTLogger) publish(rec Record) error {
	token := l.client.Publish(l.Topic(rec), l.cfg.QoS, l.cfg.Retained, []byte(rec.Line))
	if !token.WaitTimeout(l.cfg.PublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, l.cfg.PublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Published returns the number of records delivered to the broker.
func (l *MQTTLogger) Published() uint64 { return l.published.Load() }

// Dropped returns the number of records rejected by Log or left queued
// when Close gave up draining.
func (l *MQTTLogger) Dropped() uint64 { return l.dropped.Load() }

// Failed returns the number of records whose publish failed.
func (l *MQTTLogger) Failed() uint64 { return l.failed.Load() }

// Close stops accepting records, publishes the queued ones for at most
// DrainTimeout and disconnects. It is safe to call Close multiple times.
func (l *MQTTLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	drain := time.NewTimer(l.cfg.DrainTimeout)
	defer drain.Stop()
	select {
	case <-l.done:
	case <-drain.C:
		l.abandon.Store(true)
		<-l.done
	}
	l.client.Disconnect(mqttDisconnectQuiesce)
	return nil
}

// Compile-time interface satisfaction check.
var _ Logger = (*MQTTLogger)(nil)
