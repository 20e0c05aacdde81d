package format

import (
	"github.com/mqttlog/mqttlog-go/pkg/feature"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// builder renders the body fields of one packet kind. Builders are pure and
// must tolerate a nil body by rendering a zero body; the formatter nulls the
// result in that case.
type builder func(ev *packet.Event, p feature.Profile) object

// hasBody reports whether the body pointer matching the kind is set.
type hasBody func(ev *packet.Event) bool

type kindEntry struct {
	build   builder
	hasBody hasBody
}

var kinds = map[packet.Kind]kindEntry{
	packet.KindConnect:     {connectFields, func(ev *packet.Event) bool { return ev.Connect != nil }},
	packet.KindConnack:     {connackFields, func(ev *packet.Event) bool { return ev.Connack != nil }},
	packet.KindDisconnect:  {disconnectFields, func(ev *packet.Event) bool { return ev.Disconnect != nil }},
	packet.KindPublish:     {publishEventFields, func(ev *packet.Event) bool { return ev.Publish != nil }},
	packet.KindSubscribe:   {subscribeFields, func(ev *packet.Event) bool { return ev.Subscribe != nil }},
	packet.KindSuback:      {subackFields, func(ev *packet.Event) bool { return ev.SubAck != nil }},
	packet.KindUnsubscribe: {unsubscribeFields, func(ev *packet.Event) bool { return ev.Unsubscribe != nil }},
	packet.KindUnsuback:    {subackFields, func(ev *packet.Event) bool { return ev.SubAck != nil }},
	packet.KindPingReq:     {pingFields, nil},
	packet.KindPingResp:    {pingFields, nil},
	packet.KindPuback:      {ackFields, func(ev *packet.Event) bool { return ev.Ack != nil }},
	packet.KindPubrec:      {ackFields, func(ev *packet.Event) bool { return ev.Ack != nil }},
	packet.KindPubrel:      {ackFields, func(ev *packet.Event) bool { return ev.Ack != nil }},
	packet.KindPubcomp:     {ackFields, func(ev *packet.Event) bool { return ev.Ack != nil }},
}

func connectFields(ev *packet.Event, p feature.Profile) object {
	c := ev.Connect
	if c == nil {
		c = &packet.Connect{}
	}

	o := object{
		str("protocolVersion", "Protocol version", c.ProtocolVersion.String()),
		flag("cleanStart", "Clean Start", c.CleanStart),
		number("sessionExpiryInterval", "Session Expiry Interval", c.SessionExpiryInterval),
	}
	if !p.Verbose() {
		return o
	}

	o = append(o,
		number("keepAlive", "Keep Alive", c.KeepAlive),
		number("maximumPacketSize", "Maximum Packet Size", c.MaximumPacketSize),
		number("receiveMaximum", "Receive Maximum", c.ReceiveMaximum),
		number("topicAliasMaximum", "Topic Alias Maximum", c.TopicAliasMaximum),
		flag("requestProblemInformation", "Request Problem Information", c.RequestProblemInformation),
		flag("requestResponseInformation", "Request Response Information", c.RequestResponseInformation),
		optStr("username", "Username", c.Username),
		password(c.Password, p.RedactPassword()),
		optStr("authMethod", "Auth Method", c.AuthMethod),
		base64Field("authDataBase64", "Auth Data (Base64)", c.AuthData),
		userProperties(c.UserProperties),
	)
	if c.Will != nil {
		o = append(o, will(c.Will, p))
	}
	return o
}

func password(b []byte, redact bool) field {
	if redact {
		return field{key: "password", label: "Password: ", value: "<redacted>", json: "<redacted>"}
	}
	return binary("password", "Password", b)
}

// will renders the last-will publish as a nested object. Will fields are
// always rendered in full since the will only appears in verbose records.
func will(w *packet.Will, p feature.Profile) field {
	o := object{str("topic", "Topic", w.Topic)}
	o = append(o, publishFields(&w.Publish, true, p.Payload())...)
	o = append(o, number("willDelay", "Will Delay", w.Delay))
	return field{key: "will", label: "Will: ", value: "{ " + o.text() + " }", json: o}
}

func connackFields(ev *packet.Event, p feature.Profile) object {
	c := ev.Connack
	if c == nil {
		c = &packet.Connack{}
	}

	o := object{
		reasonCode(packet.KindConnack, c.ReasonCode),
		flag("sessionPresent", "Session Present", c.SessionPresent),
	}
	if !p.Verbose() {
		return o
	}

	assigned := optStr("assignedClientId", "Assigned ClientId", c.AssignedClientID)
	assigned.label = "Assigned ClientId "

	maxQoS := field{key: "maximumQoS", label: "Maximum QoS: ", value: nullValue}
	if c.MaximumQoS != nil {
		maxQoS = str("maximumQoS", "Maximum QoS", c.MaximumQoS.Name())
		maxQoS.json = uint64(*c.MaximumQoS)
	}

	return append(o,
		optNumber("sessionExpiryInterval", "Session Expiry Interval", c.SessionExpiryInterval),
		assigned,
		maxQoS,
		number("maximumPacketSize", "Maximum Packet Size", c.MaximumPacketSize),
		number("receiveMaximum", "Receive Maximum", c.ReceiveMaximum),
		number("topicAliasMaximum", "Topic Alias Maximum", c.TopicAliasMaximum),
		optStr("reasonString", "Reason String", c.ReasonString),
		optStr("responseInformation", "Response Information", c.ResponseInformation),
		optNumber("serverKeepAlive", "Server Keep Alive", c.ServerKeepAlive),
		optStr("serverReference", "Server Reference", c.ServerReference),
		flag("sharedSubscriptionsAvailable", "Shared Subscription Available", c.SharedSubscriptionsAvailable),
		flag("wildCardSubscriptionAvailable", "Wildcards Available", c.WildcardSubscriptionsAvailable),
		flag("retainAvailable", "Retain Available", c.RetainAvailable),
		flag("subscriptionIdentifiersAvailable", "Subscription Identifiers Available", c.SubscriptionIdentifiersAvailable),
		optStr("authMethod", "Auth Method", c.AuthMethod),
		base64Field("authDataBase64", "Auth Data (Base64)", c.AuthData),
		userProperties(c.UserProperties),
	)
}

func disconnectFields(ev *packet.Event, p feature.Profile) object {
	d := ev.Disconnect
	if d == nil {
		d = &packet.Disconnect{}
	}

	o := object{reasonCode(packet.KindDisconnect, d.ReasonCode)}
	if d.AuthenticationFailed {
		o = append(o, jsonOnly("authenticationFailed", true))
		if p.Verbose() {
			o = append(o,
				optStr("reasonString", "Reason String", d.ReasonString),
				userProperties(d.UserProperties),
			)
		}
		return o
	}
	if !p.Verbose() {
		return o
	}

	return append(o,
		optStr("reasonString", "Reason String", d.ReasonString),
		optStr("serverReference", "Server Reference", d.ServerReference),
		optNumber("sessionExpiryInterval", "Session Expiry", d.SessionExpiryInterval),
		userProperties(d.UserProperties),
	)
}

// publishEventFields renders a PUBLISH packet. The topic is part of the
// text prefix and a plain key in JSON.
func publishEventFields(ev *packet.Event, p feature.Profile) object {
	pub := ev.Publish
	if pub == nil {
		pub = &packet.Publish{}
	}
	o := object{jsonOnly("topic", pub.Topic)}
	return append(o, publishFields(pub, p.Verbose(), p.Payload())...)
}

// publishFields renders the body shared by PUBLISH packets and wills.
// With payload off the payload bytes are not read.
func publishFields(pub *packet.Publish, verbose, payload bool) object {
	o := make(object, 0, 11)
	if payload {
		o = append(o, binary("payload", "Payload", pub.Payload))
	}
	o = append(o,
		number("qos", "QoS", pub.QoS),
		flag("retained", "Retained", pub.Retain),
	)
	if !verbose {
		return o
	}

	indicator := field{key: "payloadFormatIndicator", label: "Payload Format Indicator: ", value: nullValue}
	if pub.PayloadFormat != nil {
		indicator = str("payloadFormatIndicator", "Payload Format Indicator", pub.PayloadFormat.String())
	}

	return append(o,
		optNumber("messageExpiryInterval", "Message Expiry Interval", pub.MessageExpiryInterval),
		flag("duplicateDelivery", "Duplicate Delivery", pub.Duplicate),
		textField("correlationData", "Correlation Data", pub.CorrelationData),
		optStr("responseTopic", "Response Topic", pub.ResponseTopic),
		optStr("contentType", "Content Type", pub.ContentType),
		indicator,
		numberList("subscriptionIdentifiers", "Subscription Identifiers", pub.SubscriptionIdentifiers),
		userProperties(pub.UserProperties),
	)
}

func subscribeFields(ev *packet.Event, p feature.Profile) object {
	s := ev.Subscribe
	if s == nil {
		s = &packet.Subscribe{}
	}

	items := make([]string, len(s.Subscriptions))
	entries := make([]object, len(s.Subscriptions))
	for i, sub := range s.Subscriptions {
		e := object{
			str("topicFilter", "Topic", sub.TopicFilter),
			number("qos", "QoS", sub.QoS),
		}
		if p.Verbose() {
			e = append(e,
				flag("retainAsPublished", "Retain As Published", sub.RetainAsPublished),
				flag("noLocal", "No Local", sub.NoLocal),
				str("retainHandling", "Retain Handling", sub.RetainHandling.String()),
			)
		}
		items[i] = "[" + e.text() + "]"
		entries[i] = e
	}

	topics := field{key: "subscriptions", label: "Topics: ", value: braceList(items)}
	if len(entries) > 0 {
		topics.json = entries
	}

	o := object{topics}
	if !p.Verbose() {
		return o
	}
	return append(o,
		optNumber("subscriptionIdentifier", "Subscription Identifier", s.SubscriptionIdentifier),
		userProperties(s.UserProperties),
	)
}

func unsubscribeFields(ev *packet.Event, p feature.Profile) object {
	u := ev.Unsubscribe
	if u == nil {
		u = &packet.Unsubscribe{}
	}

	items := make([]string, len(u.TopicFilters))
	for i, t := range u.TopicFilters {
		items[i] = "[Topic: '" + t + "']"
	}

	topics := field{key: "topicFilters", label: "Topics: ", value: braceList(items)}
	if len(u.TopicFilters) > 0 {
		topics.json = u.TopicFilters
	}

	o := object{topics}
	if !p.Verbose() {
		return o
	}
	return append(o, userProperties(u.UserProperties))
}

func subackFields(ev *packet.Event, p feature.Profile) object {
	s := ev.SubAck
	if s == nil {
		s = &packet.SubAck{}
	}

	label := "Suback Reason Codes"
	if ev.Kind == packet.KindUnsuback {
		label = "Unsuback Reason Codes"
	}

	o := object{reasonCodes(label, ev.Kind, s.ReasonCodes)}
	if !p.Verbose() {
		return o
	}
	return append(o,
		optStr("reasonString", "Reason String", s.ReasonString),
		userProperties(s.UserProperties),
	)
}

func ackFields(ev *packet.Event, p feature.Profile) object {
	a := ev.Ack
	if a == nil {
		a = &packet.Ack{}
	}

	o := object{reasonCode(ev.Kind, a.ReasonCode)}
	if !p.Verbose() {
		return o
	}
	return append(o,
		optStr("reasonString", "Reason String", a.ReasonString),
		userProperties(a.UserProperties),
	)
}

func pingFields(*packet.Event, feature.Profile) object {
	return nil
}
