// Package feature holds the logging profile: which packet kinds are logged
// in which direction, and how records are rendered.
//
// A Profile is built once at startup, typically from a configuration
// source, and is immutable afterwards. It is a plain value and can be
// shared between goroutines without synchronization.
//
//	p := feature.FromMap(map[string]string{
//	    feature.PublishReceived: "true",
//	    feature.Verbose:         "false",
//	})
//	if p.Enabled(packet.KindPublish, packet.Inbound) {
//	    // format and write
//	}
package feature
