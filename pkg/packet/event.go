package packet

import (
	"strings"
	"time"
)

// Event is one intercepted control packet.
// Exactly one body pointer is set, matching Kind. Ping kinds carry no body.
type Event struct {
	// Timestamp when the packet was intercepted.
	Timestamp time.Time

	// Kind of control packet.
	Kind Kind

	// Direction relative to the broker.
	Direction Direction

	// ClientID of the connection the packet belongs to.
	ClientID string

	Connect     *Connect
	Connack     *Connack
	Disconnect  *Disconnect
	Publish     *Publish
	Subscribe   *Subscribe
	SubAck      *SubAck // SUBACK and UNSUBACK
	Unsubscribe *Unsubscribe
	Ack         *Ack // PUBACK, PUBREC, PUBREL and PUBCOMP
}

// Kind identifies the control packet type.
type Kind uint8

const (
	KindConnect Kind = iota
	KindConnack
	KindDisconnect
	KindPublish
	KindSubscribe
	KindSuback
	KindUnsubscribe
	KindUnsuback
	KindPingReq
	KindPingResp
	KindPuback
	KindPubrec
	KindPubrel
	KindPubcomp

	kindCount
)

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the name used in text records, e.g. "PING REQUEST".
func (k Kind) String() string {
	switch k {
	case KindPingReq:
		return "PING REQUEST"
	case KindPingResp:
		return "PING RESPONSE"
	default:
		return k.MessageType()
	}
}

// MessageType returns the name used in structured records, e.g. "PINGREQ".
func (k Kind) MessageType() string {
	switch k {
	case KindConnect:
		return "CONNECT"
	case KindConnack:
		return "CONNACK"
	case KindDisconnect:
		return "DISCONNECT"
	case KindPublish:
		return "PUBLISH"
	case KindSubscribe:
		return "SUBSCRIBE"
	case KindSuback:
		return "SUBACK"
	case KindUnsubscribe:
		return "UNSUBSCRIBE"
	case KindUnsuback:
		return "UNSUBACK"
	case KindPingReq:
		return "PINGREQ"
	case KindPingResp:
		return "PINGRESP"
	case KindPuback:
		return "PUBACK"
	case KindPubrec:
		return "PUBREC"
	case KindPubrel:
		return "PUBREL"
	case KindPubcomp:
		return "PUBCOMP"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses a structured message type name (case-insensitive).
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.MessageType(), s) {
			return k, true
		}
	}
	return 0, false
}

// Direction indicates packet flow relative to the broker.
type Direction uint8

const (
	// Inbound packets are received from a client.
	Inbound Direction = 0
	// Outbound packets are sent to a client.
	Outbound Direction = 1
)

// String returns the direction name used in structured records.
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "INBOUND"
	case Outbound:
		return "OUTBOUND"
	default:
		return "UNKNOWN"
	}
}

// Connect is the body of a CONNECT packet.
type Connect struct {
	ProtocolVersion            ProtocolVersion
	CleanStart                 bool
	SessionExpiryInterval      uint32
	KeepAlive                  uint16
	MaximumPacketSize          uint32
	ReceiveMaximum             uint16
	TopicAliasMaximum          uint16
	RequestProblemInformation  bool
	RequestResponseInformation bool
	Username                   *string
	Password                   []byte
	AuthMethod                 *string
	AuthData                   []byte
	UserProperties             []UserProperty
	Will                       *Will
}

// Will is the last-will publish carried in a CONNECT packet.
type Will struct {
	Publish

	// Delay is the will delay interval in seconds.
	Delay uint32
}

// Connack is the body of a CONNACK packet.
type Connack struct {
	ReasonCode                       ReasonCode
	SessionPresent                   bool
	SessionExpiryInterval            *uint32
	AssignedClientID                 *string
	MaximumQoS                       *QoS
	MaximumPacketSize                uint32
	ReceiveMaximum                   uint16
	TopicAliasMaximum                uint16
	ReasonString                     *string
	ResponseInformation              *string
	ServerKeepAlive                  *uint16
	ServerReference                  *string
	SharedSubscriptionsAvailable     bool
	WildcardSubscriptionsAvailable   bool
	RetainAvailable                  bool
	SubscriptionIdentifiersAvailable bool
	AuthMethod                       *string
	AuthData                         []byte
	UserProperties                   []UserProperty
}

// Disconnect is the body of a DISCONNECT packet.
type Disconnect struct {
	ReasonCode            ReasonCode
	ReasonString          *string
	ServerReference       *string
	SessionExpiryInterval *uint32
	UserProperties        []UserProperty

	// AuthenticationFailed marks a disconnect caused by a rejected CONNECT.
	AuthenticationFailed bool
}

// Publish is the body of a PUBLISH packet.
type Publish struct {
	Topic                   string
	Payload                 []byte
	QoS                     QoS
	Retain                  bool
	MessageExpiryInterval   *uint32
	Duplicate               bool
	CorrelationData         []byte
	ResponseTopic           *string
	ContentType             *string
	PayloadFormat           *PayloadFormat
	SubscriptionIdentifiers []uint32
	UserProperties          []UserProperty
}

// Subscribe is the body of a SUBSCRIBE packet.
type Subscribe struct {
	Subscriptions          []Subscription
	SubscriptionIdentifier *uint32
	UserProperties         []UserProperty
}

// Subscription is one topic filter entry of a SUBSCRIBE packet.
type Subscription struct {
	TopicFilter       string
	QoS               QoS
	RetainAsPublished bool
	NoLocal           bool
	RetainHandling    RetainHandling
}

// SubAck is the body of a SUBACK or UNSUBACK packet.
type SubAck struct {
	ReasonCodes    []ReasonCode
	ReasonString   *string
	UserProperties []UserProperty
}

// Unsubscribe is the body of an UNSUBSCRIBE packet.
type Unsubscribe struct {
	TopicFilters   []string
	UserProperties []UserProperty
}

// Ack is the body of a PUBACK, PUBREC, PUBREL or PUBCOMP packet.
type Ack struct {
	ReasonCode     ReasonCode
	ReasonString   *string
	UserProperties []UserProperty
}

// UserProperty is one MQTT 5 user property name/value pair.
type UserProperty struct {
	Name  string
	Value string
}
