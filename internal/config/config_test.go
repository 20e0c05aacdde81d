package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttlog/mqttlog-go/pkg/log"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Sinks.Console.Enabled)
	assert.Equal(t, "stdout", cfg.Sinks.Console.Stream)
	assert.False(t, cfg.Sinks.MQTT.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Sinks.MQTT.PublishTimeout)
	assert.Equal(t, 5*time.Second, cfg.Sinks.MQTT.DrainTimeout)
	require.Len(t, cfg.Broker.Listeners, 1)
	assert.Equal(t, ListenerConfig{ID: "tcp1", Type: "tcp", Address: ":1883"}, cfg.Broker.Listeners[0])
	assert.Nil(t, cfg.EventValues())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mqttlog.yaml", `
broker:
  listeners:
    - id: t1
      type: tcp
      address: 127.0.0.1:1884
    - id: w1
      type: ws
      address: 127.0.0.1:1885
  users:
    - username: alice
      password_hash: "$2a$10$abcdefghijklmnopqrstuv"
events:
  publish-received: false
  verbose: true
  json: "TRUE"
sinks:
  console:
    enabled: false
  record:
    enabled: true
    path: /tmp/x.mlog
  mqtt:
    enabled: true
    broker: tcp://collector:1883
    topic: logs
    qos: 1
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Broker.Listeners, 2)
	assert.Equal(t, "ws", cfg.Broker.Listeners[1].Type)
	assert.Equal(t, "alice", cfg.Broker.Users[0].Username)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Sinks.Console.Enabled)
	assert.Equal(t, "/tmp/x.mlog", cfg.Sinks.Record.Path)
	assert.Equal(t, 1024, cfg.Sinks.MQTT.QueueSize)

	values := cfg.EventValues()
	assert.Equal(t, "false", values["publish-received"])
	assert.Equal(t, "true", values["verbose"])
	assert.Equal(t, "TRUE", values["json"])

	mc := cfg.Sinks.MQTT.LoggerConfig()
	assert.Equal(t, "tcp://collector:1883", mc.Broker)
	assert.Equal(t, byte(1), mc.QoS)
	assert.Equal(t, 5*time.Second, mc.DrainTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MQTTLOG_LOG_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{"ok", func(*Config) {}, nil, ""},
		{"level", func(c *Config) { c.Log.Level = "trace" }, nil, "invalid log level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, nil, "invalid log format"},
		{"no listeners", func(c *Config) { c.Broker.Listeners = nil }, ErrNoListeners, ""},
		{"duplicate listener", func(c *Config) {
			c.Broker.Listeners = append(c.Broker.Listeners, c.Broker.Listeners[0])
		}, nil, "duplicate listener id"},
		{"listener type", func(c *Config) { c.Broker.Listeners[0].Type = "quic" }, nil, "unsupported listener type"},
		{"listener address", func(c *Config) { c.Broker.Listeners[0].Address = "" }, nil, "address is required"},
		{"user hash", func(c *Config) { c.Broker.Users = []UserConfig{{Username: "a"}} }, nil, "password_hash"},
		{"no sinks", func(c *Config) { c.Sinks.Console.Enabled = false }, ErrNoSinks, ""},
		{"console stream", func(c *Config) { c.Sinks.Console.Stream = "tty" }, nil, "invalid console stream"},
		{"file path", func(c *Config) { c.Sinks.File = FileSinkConfig{Enabled: true} }, nil, "sinks.file.path"},
		{"record path", func(c *Config) { c.Sinks.Record = RecordSinkConfig{Enabled: true} }, nil, "sinks.record.path"},
		{"mqtt broker", func(c *Config) {
			c.Sinks.MQTT = MQTTSinkConfig{Enabled: true, Topic: "t"}
		}, log.ErrInvalidBroker, ""},
		{"mqtt qos", func(c *Config) {
			c.Sinks.MQTT = MQTTSinkConfig{Enabled: true, Broker: "tcp://b:1883", Topic: "t", QoS: 3}
		}, log.ErrInvalidQoS, ""},
		{"mqtt negative qos", func(c *Config) {
			c.Sinks.MQTT = MQTTSinkConfig{Enabled: true, Broker: "tcp://b:1883", Topic: "t", QoS: -1}
		}, log.ErrInvalidQoS, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileSinkLoggerConfig(t *testing.T) {
	f := FileSinkConfig{Path: "a.log", Rotation: RotationConfig{MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3, Compress: true}}
	assert.Equal(t, log.RotationConfig{Filename: "a.log", MaxSize: 1, MaxBackups: 2, MaxAge: 3, Compress: true}, f.LoggerConfig())
}

func TestUserMap(t *testing.T) {
	assert.Nil(t, BrokerConfig{}.UserMap())

	b := BrokerConfig{Users: []UserConfig{
		{Username: "alice", PasswordHash: "h1"},
		{Username: "bob", PasswordHash: "h2"},
	}}
	assert.Equal(t, map[string]string{"alice": "h1", "bob": "h2"}, b.UserMap())
}
