// Package format renders intercepted MQTT packets into log records.
//
// Each packet kind has one field builder producing an ordered field list.
// The text and JSON encoders walk the same list, so both forms carry the
// same information in the same order:
//
//	Received PUBLISH from client 'c1' for topic 't': Payload: 'hi', QoS: '1', Retained: 'false'
//	{"timestamp":1700000000000,"messageType":"PUBLISH","direction":"INBOUND","clientId":"c1","topic":"t","payload":"hi","qos":1,"retained":false}
//
// Absent values render as the sentinel 'null' in text and null in JSON;
// they are never omitted. Binary values are shown as text when they are
// printable ASCII and as hex otherwise.
//
// Builders are pure functions of the event and the profile. Format never
// writes anywhere; callers hand the record to a sink.
package format
