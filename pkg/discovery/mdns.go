package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

type shutdowner interface {
	Shutdown()
}

type registerFunc func(instance, service string, port int, txt []string, ifaces []net.Interface, opts []zeroconf.ServerOption) (shutdowner, error)

func zeroconfRegister(instance, service string, port int, txt []string, ifaces []net.Interface, opts []zeroconf.ServerOption) (shutdowner, error) {
	server, err := zeroconf.Register(instance, service, Domain, port, txt, ifaces, opts...)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config   AdvertiserConfig
	register registerFunc

	mu      sync.Mutex
	servers map[string]shutdowner // keyed by listener ID
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	if config.Interface != "" {
		if _, err := net.InterfaceByName(config.Interface); err != nil {
			return nil, fmt.Errorf("interface %q: %w", config.Interface, err)
		}
	}
	return newMDNSAdvertiser(config, zeroconfRegister), nil
}

func newMDNSAdvertiser(config AdvertiserConfig, register registerFunc) *MDNSAdvertiser {
	return &MDNSAdvertiser{
		config:   config,
		register: register,
		servers:  make(map[string]shutdowner),
	}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising a listener.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *BrokerInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateInstanceName(info.Instance); err != nil {
		return err
	}

	// Determine port
	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	// Build TXT records
	txtStrings := TXTRecordsToStrings(EncodeBrokerTXT(info))
	if err := ValidateTXTSize(txtStrings); err != nil {
		return err
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Stop existing for this listener if any
	if server, exists := a.servers[info.Listener]; exists {
		server.Shutdown()
		delete(a.servers, info.Listener)
	}

	server, err := a.register(info.Instance, info.ServiceType(), port, txtStrings, a.getInterfaces(), opts)
	if err != nil {
		return fmt.Errorf("failed to register %s service: %w", info.ServiceType(), err)
	}

	a.servers[info.Listener] = server
	return nil
}

// Stop stops advertising the listener with the given ID.
func (a *MDNSAdvertiser) Stop(listener string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[listener]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotAdvertised, listener)
	}
	server.Shutdown()
	delete(a.servers, listener)
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, server := range a.servers {
		server.Shutdown()
		delete(a.servers, id)
	}
}

// Advertised returns the IDs of the listeners being advertised, sorted.
func (a *MDNSAdvertiser) Advertised() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.servers))
	for id := range a.servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
