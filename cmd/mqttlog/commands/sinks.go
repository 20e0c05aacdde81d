package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mqttlog/mqttlog-go/internal/config"
	"github.com/mqttlog/mqttlog-go/pkg/log"
)

// buildSinks creates the sinks that do not depend on the broker running.
// The MQTT sink is added by startMQTTSink once the listeners are up.
func buildSinks(cfg config.SinksConfig, stdout, stderr io.Writer, logger *slog.Logger) (*log.MultiLogger, error) {
	multi := log.NewMultiLogger()

	if cfg.Console.Enabled {
		w := stdout
		if cfg.Console.Stream == "stderr" {
			w = stderr
		}
		multi.Add(log.NewLineLogger(unclosableWriter{w}))
	}

	if cfg.File.Enabled {
		multi.Add(log.NewRotatingLogger(cfg.File.LoggerConfig()))
	}

	if cfg.Record.Enabled {
		fl, err := log.NewFileLogger(cfg.Record.Path)
		if err != nil {
			_ = multi.Close()
			return nil, fmt.Errorf("record sink: %w", err)
		}
		multi.Add(fl)
	}

	if cfg.Slog.Enabled {
		multi.Add(log.NewSlogAdapter(logger))
	}

	return multi, nil
}

// resolveMQTTClientID fills in the MQTT sink client ID so the broker can
// be told to ignore the sink's own publishes before the sink connects.
func resolveMQTTClientID(cfg *config.MQTTSinkConfig) string {
	if cfg.ClientID == "" {
		cfg.ClientID = "mqttlog-" + uuid.NewString()
	}
	return cfg.ClientID
}

// startMQTTSink connects the MQTT sink and adds it to multi.
func startMQTTSink(cfg config.MQTTSinkConfig, multi *log.MultiLogger) (*log.MQTTLogger, error) {
	ml, err := log.NewMQTTLogger(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("mqtt sink: %w", err)
	}
	multi.Add(ml)
	return ml, nil
}

// unclosableWriter hides Close so LineLogger.Close leaves stdout and stderr open.
type unclosableWriter struct {
	io.Writer
}
