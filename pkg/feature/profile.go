package feature

import (
	"strings"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// Event toggle keys.
const (
	ClientConnect       = "client-connect"
	ClientDisconnect    = "client-disconnect"
	ConnackSend         = "connack-send"
	PublishReceived     = "publish-received"
	PublishSend         = "publish-send"
	SubscribeReceived   = "subscribe-received"
	SubackSend          = "suback-send"
	UnsubscribeReceived = "unsubscribe-received"
	UnsubackSend        = "unsuback-send"
	PingRequestReceived = "ping-request-received"
	PingResponseSend    = "ping-response-send"
	PubackReceived      = "puback-received"
	PubackSend          = "puback-send"
	PubrecReceived      = "pubrec-received"
	PubrecSend          = "pubrec-send"
	PubrelReceived      = "pubrel-received"
	PubrelSend          = "pubrel-send"
	PubcompReceived     = "pubcomp-received"
	PubcompSend         = "pubcomp-send"
)

// Modifier keys.
const (
	Verbose        = "verbose"
	Payload        = "payload"
	JSON           = "json"
	RedactPassword = "redact-password"
)

// eventKeys lists the event toggles in startup log order.
var eventKeys = [...]string{
	ClientConnect,
	ClientDisconnect,
	ConnackSend,
	PublishReceived,
	PublishSend,
	SubscribeReceived,
	SubackSend,
	UnsubscribeReceived,
	UnsubackSend,
	PingRequestReceived,
	PingResponseSend,
	PubackReceived,
	PubackSend,
	PubrecReceived,
	PubrecSend,
	PubrelReceived,
	PubrelSend,
	PubcompReceived,
	PubcompSend,
}

// Keys returns every recognised key: event toggles first, then modifiers.
func Keys() []string {
	keys := make([]string, 0, len(eventKeys)+4)
	keys = append(keys, eventKeys[:]...)
	return append(keys, Verbose, Payload, JSON, RedactPassword)
}

// EventKeys returns the event toggle keys.
func EventKeys() []string {
	return append([]string(nil), eventKeys[:]...)
}

// KeyFor returns the toggle key governing a packet kind in a direction.
// DISCONNECT uses one toggle for both directions.
func KeyFor(kind packet.Kind, dir packet.Direction) (string, bool) {
	in := dir == packet.Inbound
	switch kind {
	case packet.KindConnect:
		return ClientConnect, in
	case packet.KindDisconnect:
		return ClientDisconnect, true
	case packet.KindConnack:
		return ConnackSend, !in
	case packet.KindPublish:
		return pick(in, PublishReceived, PublishSend), true
	case packet.KindSubscribe:
		return SubscribeReceived, in
	case packet.KindSuback:
		return SubackSend, !in
	case packet.KindUnsubscribe:
		return UnsubscribeReceived, in
	case packet.KindUnsuback:
		return UnsubackSend, !in
	case packet.KindPingReq:
		return PingRequestReceived, in
	case packet.KindPingResp:
		return PingResponseSend, !in
	case packet.KindPuback:
		return pick(in, PubackReceived, PubackSend), true
	case packet.KindPubrec:
		return pick(in, PubrecReceived, PubrecSend), true
	case packet.KindPubrel:
		return pick(in, PubrelReceived, PubrelSend), true
	case packet.KindPubcomp:
		return pick(in, PubcompReceived, PubcompSend), true
	}
	return "", false
}

func pick(in bool, received, send string) string {
	if in {
		return received
	}
	return send
}

// Profile is the immutable set of logging toggles.
// The zero value disables everything; use Default or FromMap.
type Profile struct {
	events         [len(eventKeys)]bool
	verbose        bool
	payload        bool
	json           bool
	redactPassword bool
}

// Default returns the profile used when no source provides values:
// every event enabled, payload on, verbose, json and redact-password off.
func Default() Profile {
	return FromMap(nil)
}

// FromMap builds a profile from raw key/value pairs.
// A value enables its key when it equals "true" ignoring case and
// surrounding whitespace; any other value disables it. Missing keys take
// their default. Unknown keys are ignored.
func FromMap(values map[string]string) Profile {
	var p Profile
	for i, key := range eventKeys {
		p.events[i] = resolve(values, key, true)
	}
	p.verbose = resolve(values, Verbose, false)
	p.payload = resolve(values, Payload, true)
	p.json = resolve(values, JSON, false)
	p.redactPassword = resolve(values, RedactPassword, false)
	return p
}

func resolve(values map[string]string, key string, def bool) bool {
	v, ok := values[key]
	if !ok {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// Enabled reports whether packets of kind in direction dir are logged.
func (p Profile) Enabled(kind packet.Kind, dir packet.Direction) bool {
	key, ok := KeyFor(kind, dir)
	if !ok {
		return false
	}
	return p.Get(key)
}

// Get returns the resolved value of any key. Unknown keys are false.
func (p Profile) Get(key string) bool {
	switch key {
	case Verbose:
		return p.verbose
	case Payload:
		return p.payload
	case JSON:
		return p.json
	case RedactPassword:
		return p.redactPassword
	}
	for i, k := range eventKeys {
		if k == key {
			return p.events[i]
		}
	}
	return false
}

// Verbose reports whether the full field set is rendered.
func (p Profile) Verbose() bool { return p.verbose }

// Payload reports whether publish payloads are rendered.
func (p Profile) Payload() bool { return p.payload }

// JSON reports whether records are rendered as JSON.
func (p Profile) JSON() bool { return p.json }

// RedactPassword reports whether CONNECT passwords are masked.
func (p Profile) RedactPassword() bool { return p.redactPassword }

// AllDisabled reports whether every event toggle is off.
// Modifiers are not considered.
func (p Profile) AllDisabled() bool {
	for _, on := range p.events {
		if on {
			return false
		}
	}
	return true
}

// Map returns the resolved profile as key/value pairs.
func (p Profile) Map() map[string]bool {
	m := make(map[string]bool, len(eventKeys)+4)
	for _, key := range Keys() {
		m[key] = p.Get(key)
	}
	return m
}

// String lists every key with its resolved value, e.g.
// "client-connect=true, client-disconnect=true, ...".
func (p Profile) String() string {
	var b strings.Builder
	for i, key := range Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(key)
		b.WriteByte('=')
		if p.Get(key) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	}
	return b.String()
}
