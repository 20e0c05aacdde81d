// Package broker embeds a mochi-mqtt broker and feeds every control
// packet it reads or writes through a dispatch.Gate.
//
// Hook converts mochi packets to events on the client's read and write
// goroutines, so records for one client keep packet order. AuthHook adds
// bcrypt password authentication and records rejected connections as an
// authentication-failed DISCONNECT.
package broker
