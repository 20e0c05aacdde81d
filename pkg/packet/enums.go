package packet

import "strconv"

// ProtocolVersion is the MQTT protocol level from the CONNECT packet.
type ProtocolVersion uint8

const (
	ProtocolV31  ProtocolVersion = 3
	ProtocolV311 ProtocolVersion = 4
	ProtocolV5   ProtocolVersion = 5
)

// String returns the version name, e.g. "V_3_1_1".
func (v ProtocolVersion) String() string {
	switch v {
	case ProtocolV31:
		return "V_3_1"
	case ProtocolV311:
		return "V_3_1_1"
	case ProtocolV5:
		return "V_5"
	default:
		return "UNKNOWN"
	}
}

// QoS is an MQTT quality of service level.
type QoS uint8

const (
	AtMostOnce  QoS = 0
	AtLeastOnce QoS = 1
	ExactlyOnce QoS = 2
)

// String returns the numeric level, e.g. "1".
func (q QoS) String() string {
	return strconv.Itoa(int(q))
}

// Name returns the level name, e.g. "AT_LEAST_ONCE".
func (q QoS) Name() string {
	switch q {
	case AtMostOnce:
		return "AT_MOST_ONCE"
	case AtLeastOnce:
		return "AT_LEAST_ONCE"
	case ExactlyOnce:
		return "EXACTLY_ONCE"
	default:
		return "UNKNOWN"
	}
}

// RetainHandling controls retained message delivery for a subscription.
type RetainHandling uint8

const (
	RetainSend                  RetainHandling = 0
	RetainSendIfNewSubscription RetainHandling = 1
	RetainDoNotSend             RetainHandling = 2
)

// String returns the option name, e.g. "SEND_IF_NEW_SUBSCRIPTION".
func (r RetainHandling) String() string {
	switch r {
	case RetainSend:
		return "SEND"
	case RetainSendIfNewSubscription:
		return "SEND_IF_NEW_SUBSCRIPTION"
	case RetainDoNotSend:
		return "DO_NOT_SEND"
	default:
		return "UNKNOWN"
	}
}

// PayloadFormat is the payload format indicator of a PUBLISH packet.
type PayloadFormat uint8

const (
	PayloadUnspecified PayloadFormat = 0
	PayloadUTF8        PayloadFormat = 1
)

// String returns the indicator name, e.g. "UTF_8".
func (p PayloadFormat) String() string {
	switch p {
	case PayloadUnspecified:
		return "UNSPECIFIED"
	case PayloadUTF8:
		return "UTF_8"
	default:
		return "UNKNOWN"
	}
}
