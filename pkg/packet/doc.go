// Package packet defines the intercepted MQTT control packet events that
// are handed to the formatter.
//
// An Event is a tagged struct: Kind selects which body pointer is set.
// Optional fields are pointers, binary fields are byte slices where nil
// means absent, and lists keep the order in which the broker delivered
// them. Events are read-only once built.
package packet
