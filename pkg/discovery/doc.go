// Package discovery announces the logging broker's listeners over
// mDNS/DNS-SD and finds other brokers on the local network.
//
// # Service types
//
// Plain TCP listeners are advertised as _mqtt._tcp and websocket listeners
// as _mqtt-ws._tcp, both in the "local" domain. One instance is registered
// per listener; the instance name defaults to "mqttlog-<hostname>".
//
// # TXT records
//
//	txtvers=1        record layout version (required)
//	listener=<id>    listener ID from the broker configuration (required)
//	version=<v>      mqttlog build version (optional)
//	path=<p>         websocket path, _mqtt-ws._tcp only (optional)
//
// Advertising is optional and off by default; the broker runs the same
// whether or not an advertiser is attached.
package discovery
