package discovery

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeMQTT is the service type for plain TCP listeners.
	ServiceTypeMQTT = "_mqtt._tcp"

	// ServiceTypeMQTTWebsocket is the service type for websocket listeners.
	ServiceTypeMQTTWebsocket = "_mqtt-ws._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the IANA MQTT port.
	DefaultPort = 1883

	// DefaultWebsocketPath is advertised for websocket listeners without a path.
	DefaultWebsocketPath = "/"
)

// TXT record key constants.
const (
	TXTKeyVersionTXT = "txtvers"  // TXT layout version
	TXTKeyListener   = "listener" // Listener ID
	TXTKeyVersion    = "version"  // mqttlog build version (optional)
	TXTKeyPath       = "path"     // Websocket path (optional)

	// TXTVersion is the current TXT layout version.
	TXTVersion = "1"
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 5 * time.Second

	// DefaultTTL is the default DNS record TTL.
	DefaultTTL = 120 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 400
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrUnsupportedVersion  = errors.New("unsupported TXT record version")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrTXTRecordTooLarge   = errors.New("TXT record exceeds 400 bytes")
	ErrInvalidPort         = errors.New("invalid port")
	ErrNotAdvertised       = errors.New("listener not advertised")
)

// BrokerInfo describes one listener to advertise.
type BrokerInfo struct {
	// Instance is the DNS-SD instance name.
	Instance string

	// Listener is the listener ID. Advertisements are keyed by it.
	Listener string

	// Port is the listener's TCP port.
	Port uint16

	// Websocket selects _mqtt-ws._tcp instead of _mqtt._tcp.
	Websocket bool

	// Path is the websocket path. Ignored for TCP listeners.
	Path string

	// Version is the mqttlog build version (optional).
	Version string
}

// ServiceType returns the DNS-SD service type for the listener.
func (b *BrokerInfo) ServiceType() string {
	if b.Websocket {
		return ServiceTypeMQTTWebsocket
	}
	return ServiceTypeMQTT
}

// BrokerService is a broker found while browsing.
type BrokerService struct {
	// InstanceName is the DNS-SD instance name.
	InstanceName string

	// Host is the advertised host name.
	Host string

	// Port is the advertised port.
	Port uint16

	// Addresses holds the IPv4 and IPv6 addresses seen so far.
	Addresses []string

	// Listener, Version and Path come from the TXT record.
	Listener string
	Version  string
	Path     string

	// Websocket is true for _mqtt-ws._tcp services.
	Websocket bool
}
