// Package config loads the mqttlog service configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mqttlog/mqttlog-go/pkg/log"
)

// Configuration errors.
var (
	// ErrNoListeners is returned when the broker has no listener configured.
	ErrNoListeners = errors.New("config: no broker listeners")

	// ErrNoSinks is returned when every record sink is disabled.
	ErrNoSinks = errors.New("config: no sinks enabled")

	// ErrAllDisabled is returned when the profile disables every event.
	ErrAllDisabled = errors.New("config: all events disabled")
)

// EnvPrefix prefixes environment overrides, e.g. MQTTLOG_LOG_LEVEL.
const EnvPrefix = "MQTTLOG"

// Config is the service configuration.
type Config struct {
	Broker  BrokerConfig   `mapstructure:"broker"`
	Profile ProfileConfig  `mapstructure:"profile"`
	Events  map[string]any `mapstructure:"events"`
	Sinks   SinksConfig    `mapstructure:"sinks"`
	Log     LogConfig      `mapstructure:"log"`
}

// BrokerConfig configures the embedded broker.
type BrokerConfig struct {
	Listeners []ListenerConfig `mapstructure:"listeners"`
	// Users enables password authentication. With no users every client is accepted.
	Users []UserConfig `mapstructure:"users"`
	// InlineClient enables the broker's in-process client.
	InlineClient bool       `mapstructure:"inline_client"`
	MDNS         MDNSConfig `mapstructure:"mdns"`
}

// ListenerConfig is one broker listener.
type ListenerConfig struct {
	ID      string `mapstructure:"id"`
	Type    string `mapstructure:"type"` // tcp | ws
	Address string `mapstructure:"address"`
}

// UserConfig is one user allowed to connect.
type UserConfig struct {
	Username string `mapstructure:"username"`
	// PasswordHash is a bcrypt hash.
	PasswordHash string `mapstructure:"password_hash"`
}

// MDNSConfig configures DNS-SD advertisement of the broker.
type MDNSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Instance string `mapstructure:"instance"`
	// Interface restricts announcements to one network interface.
	Interface string `mapstructure:"interface"`
}

// ProfileConfig locates the event profile files.
type ProfileConfig struct {
	// Dir holds conf/config.xml or the legacy properties file.
	Dir string `mapstructure:"dir"`
}

// SinksConfig selects where records go.
type SinksConfig struct {
	Console ConsoleSinkConfig `mapstructure:"console"`
	File    FileSinkConfig    `mapstructure:"file"`
	Record  RecordSinkConfig  `mapstructure:"record"`
	MQTT    MQTTSinkConfig    `mapstructure:"mqtt"`
	Slog    SlogSinkConfig    `mapstructure:"slog"`
}

// ConsoleSinkConfig writes record lines to stdout or stderr.
type ConsoleSinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Stream  string `mapstructure:"stream"`
}

// FileSinkConfig writes record lines to a rotated file.
type FileSinkConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// RecordSinkConfig writes CBOR records for the view and export commands.
type RecordSinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MQTTSinkConfig publishes records to a broker.
type MQTTSinkConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Broker         string        `mapstructure:"broker"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Topic          string        `mapstructure:"topic"`
	QoS            int           `mapstructure:"qos"`
	Retained       bool          `mapstructure:"retained"`
	QueueSize      int           `mapstructure:"queue_size"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
	DrainTimeout   time.Duration `mapstructure:"drain_timeout"`
}

// SlogSinkConfig routes records through the operational logger.
type SlogSinkConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig adds a rotated file to operational logging.
type LogFileConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// Load reads the configuration file at path. An empty path loads the
// defaults. Environment variables prefixed with MQTTLOG override file
// values, e.g. MQTTLOG_LOG_LEVEL=debug.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Broker.Listeners) == 0 {
		cfg.Broker.Listeners = []ListenerConfig{{ID: "tcp1", Type: "tcp", Address: ":1883"}}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("broker.inline_client", false)
	v.SetDefault("broker.mdns.enabled", false)
	v.SetDefault("broker.mdns.instance", "")
	v.SetDefault("broker.mdns.interface", "")

	v.SetDefault("profile.dir", ".")

	v.SetDefault("sinks.console.enabled", true)
	v.SetDefault("sinks.console.stream", "stdout")
	v.SetDefault("sinks.file.enabled", false)
	v.SetDefault("sinks.file.path", "mqttlog.log")
	v.SetDefault("sinks.file.rotation.max_size_mb", 100)
	v.SetDefault("sinks.file.rotation.max_backups", 5)
	v.SetDefault("sinks.file.rotation.max_age_days", 30)
	v.SetDefault("sinks.file.rotation.compress", true)
	v.SetDefault("sinks.record.enabled", false)
	v.SetDefault("sinks.record.path", "mqttlog.mlog")
	v.SetDefault("sinks.mqtt.enabled", false)
	v.SetDefault("sinks.mqtt.topic", "mqttlog")
	v.SetDefault("sinks.mqtt.qos", 0)
	v.SetDefault("sinks.mqtt.queue_size", 1024)
	v.SetDefault("sinks.mqtt.publish_timeout", "5s")
	v.SetDefault("sinks.mqtt.drain_timeout", "5s")
	v.SetDefault("sinks.slog.enabled", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "mqttlog-service.log")
	v.SetDefault("log.file.rotation.max_size_mb", 100)
	v.SetDefault("log.file.rotation.max_backups", 5)
	v.SetDefault("log.file.rotation.max_age_days", 30)
	v.SetDefault("log.file.rotation.compress", true)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", c.Log.Format)
	}
	if c.Log.File.Enabled && c.Log.File.Path == "" {
		return fmt.Errorf("log.file.path is required when log.file.enabled=true")
	}

	if len(c.Broker.Listeners) == 0 {
		return ErrNoListeners
	}
	ids := make(map[string]bool, len(c.Broker.Listeners))
	for i, l := range c.Broker.Listeners {
		if l.ID == "" {
			return fmt.Errorf("broker.listeners[%d].id is required", i)
		}
		if ids[l.ID] {
			return fmt.Errorf("duplicate listener id %q", l.ID)
		}
		ids[l.ID] = true
		if l.Address == "" {
			return fmt.Errorf("broker.listeners[%d].address is required", i)
		}
		switch l.Type {
		case "", "tcp", "ws":
		default:
			return fmt.Errorf("unsupported listener type %q (must be tcp/ws)", l.Type)
		}
	}
	for i, u := range c.Broker.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return fmt.Errorf("broker.users[%d] requires username and password_hash", i)
		}
	}

	s := c.Sinks
	if !s.Console.Enabled && !s.File.Enabled && !s.Record.Enabled && !s.MQTT.Enabled && !s.Slog.Enabled {
		return ErrNoSinks
	}
	if s.Console.Enabled && s.Console.Stream != "stdout" && s.Console.Stream != "stderr" {
		return fmt.Errorf("invalid console stream: %s (must be stdout/stderr)", s.Console.Stream)
	}
	if s.File.Enabled && s.File.Path == "" {
		return fmt.Errorf("sinks.file.path is required when sinks.file.enabled=true")
	}
	if s.Record.Enabled && s.Record.Path == "" {
		return fmt.Errorf("sinks.record.path is required when sinks.record.enabled=true")
	}
	if s.MQTT.Enabled {
		if s.MQTT.QoS < 0 {
			return fmt.Errorf("sinks.mqtt: %w: %d", log.ErrInvalidQoS, s.MQTT.QoS)
		}
		if err := s.MQTT.LoggerConfig().Validate(); err != nil {
			return fmt.Errorf("sinks.mqtt: %w", err)
		}
	}
	return nil
}

// UserMap returns the configured users as username to bcrypt hash.
func (b BrokerConfig) UserMap() map[string]string {
	if len(b.Users) == 0 {
		return nil
	}
	users := make(map[string]string, len(b.Users))
	for _, u := range b.Users {
		users[u.Username] = u.PasswordHash
	}
	return users
}

// LoggerConfig converts the sink settings into a log.MQTTConfig.
func (m MQTTSinkConfig) LoggerConfig() log.MQTTConfig {
	return log.MQTTConfig{
		Broker:         m.Broker,
		ClientID:       m.ClientID,
		Username:       m.Username,
		Password:       m.Password,
		Topic:          m.Topic,
		QoS:            byte(min(m.QoS, 255)),
		Retained:       m.Retained,
		QueueSize:      m.QueueSize,
		PublishTimeout: m.PublishTimeout,
		DrainTimeout:   m.DrainTimeout,
	}
}

// LoggerConfig converts the file settings into a log.RotationConfig.
func (f FileSinkConfig) LoggerConfig() log.RotationConfig {
	return log.RotationConfig{
		Filename:   f.Path,
		MaxSize:    f.Rotation.MaxSizeMB,
		MaxBackups: f.Rotation.MaxBackups,
		MaxAge:     f.Rotation.MaxAgeDays,
		Compress:   f.Rotation.Compress,
	}
}

// EventValues returns the events section as profile values.
func (c *Config) EventValues() map[string]string {
	if len(c.Events) == 0 {
		return nil
	}
	values := make(map[string]string, len(c.Events))
	for k, v := range c.Events {
		values[strings.ToLower(k)] = fmt.Sprint(v)
	}
	return values
}
