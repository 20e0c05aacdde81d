package discovery

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Browser provides mDNS service browsing capabilities.
type Browser interface {
	// BrowseBrokers searches for brokers advertising serviceType.
	// Services are aggregated by instance name; each instance is emitted
	// once. The channel is closed when the context is cancelled.
	BrowseBrokers(ctx context.Context, serviceType string) (<-chan *BrokerService, error)

	// Stop stops all active browsing operations.
	Stop()
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout is the default timeout for browse operations.
	// Default: 5 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		Interface:     "",
	}
}

// ErrBrowserStopped is returned when browsing after Stop.
var ErrBrowserStopped = errors.New("browser stopped")

type browseFunc func(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry, opts []zeroconf.ClientOption) error

func zeroconfBrowse(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry, opts []zeroconf.ClientOption) error {
	return zeroconf.Browse(ctx, service, Domain, entries, removed, opts...)
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
	browse browseFunc

	mu      sync.Mutex
	stopped bool
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	return newMDNSBrowser(config, zeroconfBrowse)
}

func newMDNSBrowser(config BrowserConfig, browse browseFunc) *MDNSBrowser {
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = BrowseTimeout
	}
	return &MDNSBrowser{config: config, browse: browse}
}

// Timeout returns the configured browse timeout.
func (b *MDNSBrowser) Timeout() time.Duration {
	return b.config.BrowseTimeout
}

// BrowseBrokers searches for brokers advertising serviceType.
func (b *MDNSBrowser) BrowseBrokers(ctx context.Context, serviceType string) (<-chan *BrokerService, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, ErrBrowserStopped
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	out := make(chan *BrokerService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	websocket := serviceType == ServiceTypeMQTTWebsocket

	// Process entries with aggregation
	go func() {
		defer close(out)

		services := make(map[string]*BrokerService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToBroker(entry, websocket)
				if svc == nil {
					continue
				}

				existing, found := services[svc.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}
				services[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := services[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(services, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = b.browse(ctx, serviceType, entries, removed, b.browserOptions())
	}()

	return out, nil
}

// Stop stops all active browsing operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// Collect drains in until it is closed or ctx is done.
func Collect(ctx context.Context, in <-chan *BrokerService) []*BrokerService {
	var found []*BrokerService
	for {
		select {
		case svc, ok := <-in:
			if !ok {
				return found
			}
			found = append(found, svc)
		case <-ctx.Done():
			return found
		}
	}
}

// entryToBroker converts a zeroconf entry to BrokerService.
func entryToBroker(entry *zeroconf.ServiceEntry, websocket bool) *BrokerService {
	info, err := DecodeBrokerTXT(StringsToTXTRecords(entry.Text))
	if err != nil {
		return nil
	}

	return &BrokerService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    entryAddresses(entry),
		Listener:     info.Listener,
		Version:      info.Version,
		Path:         info.Path,
		Websocket:    websocket,
	}
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes addresses from a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, addr := range entryAddresses(entry) {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
