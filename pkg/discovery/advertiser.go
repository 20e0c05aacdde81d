package discovery

import (
	"context"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// Advertise starts advertising a listener. An existing advertisement
	// for the same listener ID is replaced.
	Advertise(ctx context.Context, info *BrokerInfo) error

	// Stop stops advertising the listener with the given ID.
	Stop(listener string) error

	// StopAll stops all advertisements.
	StopAll()
}

// AdvertiserConfig configures the mDNS advertiser.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       DefaultTTL,
	}
}
