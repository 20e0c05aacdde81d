package packet

import "fmt"

//go:generate go run ../../cmd/mqttlog-codegen -input reasoncodes.yaml -output reason_code_gen.go

// ReasonCode is an MQTT 5 reason code byte.
// The same value can carry different names depending on the packet kind,
// e.g. 0x00 is SUCCESS on PUBACK, NORMAL_DISCONNECTION on DISCONNECT and
// GRANTED_QOS_0 on SUBACK.
type ReasonCode uint8

// Name returns the reason code name in the context of the given kind.
// Unknown values render as hex, e.g. "0x7F".
func (r ReasonCode) Name(kind Kind) string {
	if names, ok := reasonCodeKindNames[kind]; ok {
		if name, ok := names[r]; ok {
			return name
		}
	}
	return r.String()
}

// String returns the kind-independent reason code name.
func (r ReasonCode) String() string {
	if name, ok := reasonCodeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(r))
}
