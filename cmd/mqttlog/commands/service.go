package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/mqttlog/mqttlog-go/internal/config"
	"github.com/mqttlog/mqttlog-go/pkg/broker"
	"github.com/mqttlog/mqttlog-go/pkg/discovery"
	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
	"github.com/mqttlog/mqttlog-go/pkg/feature"
	"github.com/mqttlog/mqttlog-go/pkg/log"
)

// Service is a running broker with packet logging.
type Service struct {
	cfg    *config.Config
	logger *slog.Logger

	profile feature.Profile
	source  config.Source

	sinks      *log.MultiLogger
	mqttSink   *log.MQTTLogger
	gate       *dispatch.Gate
	server     *broker.Server
	advertiser *discovery.MDNSAdvertiser
}

// StartService resolves the event profile, opens the sinks and starts the
// broker. Record lines for the console sink go to stdout or stderr.
func StartService(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{cfg: cfg, logger: logger}

	s.profile, s.source = config.LoadProfile(cfg.Profile.Dir, cfg.EventValues(), logger)
	if err := config.CheckProfile(s.profile); err != nil {
		return nil, err
	}

	sinks, err := buildSinks(cfg.Sinks, stdout, stderr, logger)
	if err != nil {
		return nil, err
	}
	s.sinks = sinks

	var ignore []string
	if cfg.Sinks.MQTT.Enabled {
		ignore = append(ignore, resolveMQTTClientID(&cfg.Sinks.MQTT))
	}

	s.gate = dispatch.New(s.profile, sinks, dispatch.WithLogger(logger))

	s.server, err = broker.NewServer(broker.ServerConfig{
		Listeners:     brokerListeners(cfg.Broker.Listeners),
		Gate:          s.gate,
		Users:         cfg.Broker.UserMap(),
		IgnoreClients: ignore,
		InlineClient:  cfg.Broker.InlineClient,
		Logger:        logger,
	})
	if err != nil {
		_ = sinks.Close()
		return nil, err
	}
	if err := s.server.Start(ctx); err != nil {
		_ = sinks.Close()
		return nil, err
	}

	if cfg.Sinks.MQTT.Enabled {
		s.mqttSink, err = startMQTTSink(cfg.Sinks.MQTT, sinks)
		if err != nil {
			_ = s.server.Stop()
			_ = sinks.Close()
			return nil, err
		}
	}

	if cfg.Broker.MDNS.Enabled {
		s.advertise(ctx)
	}

	logger.Info("mqttlog started",
		slog.String("profile_source", s.source.String()),
		slog.Int("sinks", sinks.Len()),
		slog.Any("listeners", s.server.Listeners()))
	return s, nil
}

func brokerListeners(in []config.ListenerConfig) []broker.ListenerConfig {
	out := make([]broker.ListenerConfig, 0, len(in))
	for _, l := range in {
		typ := l.Type
		if typ == "" {
			typ = broker.ListenerTCP
		}
		out = append(out, broker.ListenerConfig{ID: l.ID, Type: typ, Address: l.Address})
	}
	return out
}

// advertise announces every listener. Failures are logged; the broker
// keeps running without announcements.
func (s *Service) advertise(ctx context.Context) {
	mdns := s.cfg.Broker.MDNS
	acfg := discovery.DefaultAdvertiserConfig()
	acfg.Interface = mdns.Interface

	adv, err := discovery.NewMDNSAdvertiser(acfg)
	if err != nil {
		s.logger.Warn("mDNS advertising disabled", slog.Any("error", err))
		return
	}
	s.advertiser = adv

	instance := mdns.Instance
	if instance == "" {
		host, _ := os.Hostname()
		instance = discovery.InstanceName(host)
	}

	for _, info := range brokerInfos(instance, s.cfg.Broker.Listeners, s.server.Address) {
		if err := adv.Advertise(ctx, info); err != nil {
			s.logger.Warn("failed to advertise listener",
				slog.String("listener", info.Listener), slog.Any("error", err))
			continue
		}
		s.logger.Info("advertising listener",
			slog.String("listener", info.Listener),
			slog.String("service", info.ServiceType()),
			slog.Int("port", int(info.Port)))
	}
}

// brokerInfos builds one announcement per listener whose port is known.
func brokerInfos(instance string, listeners []config.ListenerConfig, address func(string) string) []*discovery.BrokerInfo {
	var infos []*discovery.BrokerInfo
	for _, l := range listeners {
		addr := address(l.ID)
		if addr == "" {
			addr = l.Address
		}
		_, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			continue
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || port == 0 {
			continue
		}
		infos = append(infos, &discovery.BrokerInfo{
			Instance:  instance,
			Listener:  l.ID,
			Port:      uint16(port),
			Websocket: l.Type == broker.ListenerWebsocket,
			Version:   Version,
		})
	}
	return infos
}

// Profile returns the active event profile.
func (s *Service) Profile() feature.Profile { return s.profile }

// Source returns where the profile was loaded from.
func (s *Service) Source() config.Source { return s.source }

// Stats returns the dispatch gate counters.
func (s *Service) Stats() dispatch.Stats { return s.gate.Stats() }

// Listeners returns listener ID to bound address.
func (s *Service) Listeners() map[string]string { return s.server.Listeners() }

// Clients returns the number of connected clients.
func (s *Service) Clients() int { return s.server.Clients() }

// Publish publishes through the broker's inline client.
func (s *Service) Publish(topic string, payload []byte, retain bool, qos byte) error {
	return s.server.Publish(topic, payload, retain, qos)
}

// Stop withdraws announcements, stops the broker and closes the sinks.
func (s *Service) Stop() error {
	if s.advertiser != nil {
		s.advertiser.StopAll()
	}

	var errs []error
	if err := s.server.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop broker: %w", err))
	}
	if err := s.sinks.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sinks: %w", err))
	}

	st := s.gate.Stats()
	attrs := []any{
		slog.Uint64("formatted", st.Formatted),
		slog.Uint64("skipped", st.Skipped),
		slog.Uint64("failed", st.Failed),
	}
	if s.mqttSink != nil {
		attrs = append(attrs,
			slog.Uint64("mqtt_published", s.mqttSink.Published()),
			slog.Uint64("mqtt_dropped", s.mqttSink.Dropped()),
			slog.Uint64("mqtt_failed", s.mqttSink.Failed()))
	}
	s.logger.Info("mqttlog stopped", attrs...)

	return errors.Join(errs...)
}
