package broker

import (
	"github.com/mochi-mqtt/server/v2/packets"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// Converter maps mochi packets to events.
type Converter struct {
	// RetainAvailable is reported on CONNACK. mochi carries it as a broker
	// capability rather than a packet property.
	RetainAvailable bool
}

// KindOf maps a fixed header packet type to an event kind.
// AUTH and reserved types have no kind.
func KindOf(t byte) (packet.Kind, bool) {
	switch t {
	case packets.Connect:
		return packet.KindConnect, true
	case packets.Connack:
		return packet.KindConnack, true
	case packets.Publish:
		return packet.KindPublish, true
	case packets.Puback:
		return packet.KindPuback, true
	case packets.Pubrec:
		return packet.KindPubrec, true
	case packets.Pubrel:
		return packet.KindPubrel, true
	case packets.Pubcomp:
		return packet.KindPubcomp, true
	case packets.Subscribe:
		return packet.KindSubscribe, true
	case packets.Suback:
		return packet.KindSuback, true
	case packets.Unsubscribe:
		return packet.KindUnsubscribe, true
	case packets.Unsuback:
		return packet.KindUnsuback, true
	case packets.Pingreq:
		return packet.KindPingReq, true
	case packets.Pingresp:
		return packet.KindPingResp, true
	case packets.Disconnect:
		return packet.KindDisconnect, true
	default:
		return 0, false
	}
}

// Event converts pk into an event. It returns nil for packet types
// without a kind.
func (c Converter) Event(clientID string, dir packet.Direction, pk packets.Packet) *packet.Event {
	kind, ok := KindOf(pk.FixedHeader.Type)
	if !ok {
		return nil
	}
	ev := &packet.Event{Kind: kind, Direction: dir, ClientID: clientID}

	switch kind {
	case packet.KindConnect:
		ev.Connect = connect(pk)
	case packet.KindConnack:
		ev.Connack = c.connack(pk)
	case packet.KindDisconnect:
		ev.Disconnect = disconnect(pk)
	case packet.KindPublish:
		p := publish(pk)
		ev.Publish = &p
	case packet.KindSubscribe:
		ev.Subscribe = subscribe(pk)
	case packet.KindSuback, packet.KindUnsuback:
		ev.SubAck = subAck(pk)
	case packet.KindUnsubscribe:
		ev.Unsubscribe = unsubscribe(pk)
	case packet.KindPuback, packet.KindPubrec, packet.KindPubrel, packet.KindPubcomp:
		ev.Ack = ack(pk)
	}
	return ev
}

func connect(pk packets.Packet) *packet.Connect {
	props := pk.Properties
	c := &packet.Connect{
		ProtocolVersion:            packet.ProtocolVersion(pk.ProtocolVersion),
		CleanStart:                 pk.Connect.Clean,
		SessionExpiryInterval:      props.SessionExpiryInterval,
		KeepAlive:                  pk.Connect.Keepalive,
		MaximumPacketSize:          maximumPacketSize(props.MaximumPacketSize),
		ReceiveMaximum:             receiveMaximum(props.ReceiveMaximum),
		TopicAliasMaximum:          props.TopicAliasMaximum,
		RequestProblemInformation:  !props.RequestProblemInfoFlag || props.RequestProblemInfo == 1,
		RequestResponseInformation: props.RequestResponseInfo == 1,
		AuthMethod:                 optString(props.AuthenticationMethod),
		AuthData:                   props.AuthenticationData,
		UserProperties:             userProperties(props.User),
	}
	if pk.Connect.UsernameFlag {
		u := string(pk.Connect.Username)
		c.Username = &u
	}
	if pk.Connect.PasswordFlag {
		c.Password = nonNil(pk.Connect.Password)
	}
	if pk.Connect.WillFlag {
		wp := pk.Connect.WillProperties
		c.Will = &packet.Will{
			Publish: packet.Publish{
				Topic:                 pk.Connect.WillTopic,
				Payload:               nonNil(pk.Connect.WillPayload),
				QoS:                   packet.QoS(pk.Connect.WillQos),
				Retain:                pk.Connect.WillRetain,
				MessageExpiryInterval: optUint32(wp.MessageExpiryInterval),
				CorrelationData:       wp.CorrelationData,
				ResponseTopic:         optString(wp.ResponseTopic),
				ContentType:           optString(wp.ContentType),
				PayloadFormat:         payloadFormat(wp),
				UserProperties:        userProperties(wp.User),
			},
			Delay: wp.WillDelayInterval,
		}
	}
	return c
}

func (c Converter) connack(pk packets.Packet) *packet.Connack {
	props := pk.Properties
	ack := &packet.Connack{
		ReasonCode:                       packet.ReasonCode(pk.ReasonCode),
		SessionPresent:                   pk.SessionPresent,
		AssignedClientID:                 optString(props.AssignedClientID),
		MaximumPacketSize:                maximumPacketSize(props.MaximumPacketSize),
		ReceiveMaximum:                   receiveMaximum(props.ReceiveMaximum),
		TopicAliasMaximum:                props.TopicAliasMaximum,
		ReasonString:                     optString(props.ReasonString),
		ResponseInformation:              optString(props.ResponseInfo),
		ServerReference:                  optString(props.ServerReference),
		SharedSubscriptionsAvailable:     available(props.SharedSubAvailable, props.SharedSubAvailableFlag),
		WildcardSubscriptionsAvailable:   available(props.WildcardSubAvailable, props.WildcardSubAvailableFlag),
		RetainAvailable:                  c.RetainAvailable,
		SubscriptionIdentifiersAvailable: available(props.SubIDAvailable, props.SubIDAvailableFlag),
		AuthMethod:                       optString(props.AuthenticationMethod),
		AuthData:                         props.AuthenticationData,
		UserProperties:                   userProperties(props.User),
	}
	if props.SessionExpiryIntervalFlag {
		v := props.SessionExpiryInterval
		ack.SessionExpiryInterval = &v
	}
	if props.MaximumQosFlag {
		q := packet.QoS(props.MaximumQos)
		ack.MaximumQoS = &q
	}
	if props.ServerKeepAliveFlag {
		v := props.ServerKeepAlive
		ack.ServerKeepAlive = &v
	}
	return ack
}

func disconnect(pk packets.Packet) *packet.Disconnect {
	props := pk.Properties
	d := &packet.Disconnect{
		ReasonCode:      packet.ReasonCode(pk.ReasonCode),
		ReasonString:    optString(props.ReasonString),
		ServerReference: optString(props.ServerReference),
		UserProperties:  userProperties(props.User),
	}
	if props.SessionExpiryIntervalFlag {
		v := props.SessionExpiryInterval
		d.SessionExpiryInterval = &v
	}
	return d
}

func publish(pk packets.Packet) packet.Publish {
	props := pk.Properties
	p := packet.Publish{
		Topic:                 pk.TopicName,
		Payload:               nonNil(pk.Payload),
		QoS:                   packet.QoS(pk.FixedHeader.Qos),
		Retain:                pk.FixedHeader.Retain,
		Duplicate:             pk.FixedHeader.Dup,
		MessageExpiryInterval: optUint32(props.MessageExpiryInterval),
		CorrelationData:       props.CorrelationData,
		ResponseTopic:         optString(props.ResponseTopic),
		ContentType:           optString(props.ContentType),
		PayloadFormat:         payloadFormat(props),
		UserProperties:        userProperties(props.User),
	}
	for _, id := range props.SubscriptionIdentifier {
		if id > 0 {
			p.SubscriptionIdentifiers = append(p.SubscriptionIdentifiers, uint32(id))
		}
	}
	return p
}

func subscribe(pk packets.Packet) *packet.Subscribe {
	s := &packet.Subscribe{
		Subscriptions:  make([]packet.Subscription, 0, len(pk.Filters)),
		UserProperties: userProperties(pk.Properties.User),
	}
	for _, f := range pk.Filters {
		s.Subscriptions = append(s.Subscriptions, packet.Subscription{
			TopicFilter:       f.Filter,
			QoS:               packet.QoS(f.Qos),
			RetainAsPublished: f.RetainAsPublished,
			NoLocal:           f.NoLocal,
			RetainHandling:    packet.RetainHandling(f.RetainHandling),
		})
	}
	if ids := pk.Properties.SubscriptionIdentifier; len(ids) > 0 && ids[0] > 0 {
		v := uint32(ids[0])
		s.SubscriptionIdentifier = &v
	}
	return s
}

func unsubscribe(pk packets.Packet) *packet.Unsubscribe {
	u := &packet.Unsubscribe{
		TopicFilters:   make([]string, 0, len(pk.Filters)),
		UserProperties: userProperties(pk.Properties.User),
	}
	for _, f := range pk.Filters {
		u.TopicFilters = append(u.TopicFilters, f.Filter)
	}
	return u
}

func subAck(pk packets.Packet) *packet.SubAck {
	codes := make([]packet.ReasonCode, 0, len(pk.ReasonCodes))
	for _, rc := range pk.ReasonCodes {
		codes = append(codes, packet.ReasonCode(rc))
	}
	return &packet.SubAck{
		ReasonCodes:    codes,
		ReasonString:   optString(pk.Properties.ReasonString),
		UserProperties: userProperties(pk.Properties.User),
	}
}

func ack(pk packets.Packet) *packet.Ack {
	return &packet.Ack{
		ReasonCode:     packet.ReasonCode(pk.ReasonCode),
		ReasonString:   optString(pk.Properties.ReasonString),
		UserProperties: userProperties(pk.Properties.User),
	}
}

func userProperties(in []packets.UserProperty) []packet.UserProperty {
	if len(in) == 0 {
		return nil
	}
	out := make([]packet.UserProperty, len(in))
	for i, p := range in {
		out[i] = packet.UserProperty{Name: p.Key, Value: p.Val}
	}
	return out
}

func payloadFormat(props packets.Properties) *packet.PayloadFormat {
	if !props.PayloadFormatFlag {
		return nil
	}
	f := packet.PayloadFormat(props.PayloadFormat)
	return &f
}

// available reads a v5 "available" property, which defaults to true.
func available(v byte, set bool) bool {
	return !set || v == 1
}

// receiveMaximum applies the protocol default of 65535 to an absent value.
func receiveMaximum(v uint16) uint16 {
	if v == 0 {
		return 65535
	}
	return v
}

// maximumPacketSize applies the protocol limit to an absent value.
func maximumPacketSize(v uint32) uint32 {
	if v == 0 {
		return 268435460
	}
	return v
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optUint32(v uint32) *uint32 {
	if v == 0 {
		return nil
	}
	return &v
}

// nonNil keeps a present but empty value distinct from an absent one.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
