// Package log delivers formatted packet records to sinks.
//
// A Logger receives one Record per logged packet. Records carry the
// rendered line together with the routing fields the line was built from,
// so sinks can route or filter without parsing the line.
//
// # Sinks
//
//	// Console or any writer, one line per record
//	sink := log.NewLineLogger(os.Stdout)
//
//	// Size-rotated text file
//	sink := log.NewRotatingLogger(log.RotationConfig{Filename: "/var/log/mqttlog/packets.log", MaxSize: 100})
//
//	// CBOR capture file, readable with log.Reader and the mqttlog CLI
//	sink, _ := log.NewFileLogger("/var/log/mqttlog/packets.mlog")
//
//	// Publish to another MQTT broker under <topic>/<MESSAGETYPE>
//	sink, _ := log.NewMQTTLogger(log.MQTTConfig{Broker: "tcp://collector:1883", Topic: "mqttlog"})
//
//	// Several at once
//	sink := log.NewMultiLogger(console, capture)
//
// # File Format
//
// Capture files are a stream of CBOR-encoded Records with integer keys,
// conventionally with the .mlog extension.
package log
