package broker

import (
	"bytes"
	"log/slog"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
	"golang.org/x/crypto/bcrypt"

	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// AuthOptions configures AuthHook.
type AuthOptions struct {
	// Users maps usernames to bcrypt password hashes.
	Users map[string]string
	// Gate records rejected connections. Optional.
	Gate *dispatch.Gate
}

// AuthHook accepts clients whose password matches a bcrypt hash.
type AuthHook struct {
	mqtt.HookBase
	users map[string][]byte
	gate  *dispatch.Gate
}

// ID returns the hook identifier.
func (h *AuthHook) ID() string {
	return "mqttlog-auth"
}

// Provides reports the hook methods implemented.
func (h *AuthHook) Provides(b byte) bool {
	return bytes.Contains([]byte{
		mqtt.OnConnectAuthenticate,
		mqtt.OnACLCheck,
	}, []byte{b})
}

// Init configures the hook from *AuthOptions.
func (h *AuthHook) Init(config any) error {
	opts, ok := config.(*AuthOptions)
	if !ok || opts == nil {
		return ErrInvalidHookConfig
	}
	h.users = make(map[string][]byte, len(opts.Users))
	for name, hash := range opts.Users {
		h.users[name] = []byte(hash)
	}
	h.gate = opts.Gate
	return nil
}

// OnConnectAuthenticate checks the CONNECT credentials.
func (h *AuthHook) OnConnectAuthenticate(cl *mqtt.Client, pk packets.Packet) bool {
	if h.authenticate(pk) {
		return true
	}
	if h.Log != nil {
		h.Log.Info("client authentication failed",
			slog.String("client_id", cl.ID),
			slog.String("username", string(pk.Connect.Username)))
	}
	if h.gate != nil {
		clientID := cl.ID
		h.gate.Dispatch(packet.KindDisconnect, packet.Outbound, func() *packet.Event {
			return AuthFailedEvent(clientID)
		})
	}
	return false
}

func (h *AuthHook) authenticate(pk packets.Packet) bool {
	if !pk.Connect.UsernameFlag || !pk.Connect.PasswordFlag {
		return false
	}
	hash, ok := h.users[string(pk.Connect.Username)]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, pk.Connect.Password) == nil
}

// OnACLCheck allows every authenticated client to read and write any topic.
func (h *AuthHook) OnACLCheck(cl *mqtt.Client, topic string, write bool) bool {
	return true
}

// AuthFailedEvent is the DISCONNECT recorded for a rejected CONNECT.
func AuthFailedEvent(clientID string) *packet.Event {
	return &packet.Event{
		Kind:      packet.KindDisconnect,
		Direction: packet.Outbound,
		ClientID:  clientID,
		Disconnect: &packet.Disconnect{
			ReasonCode:           packet.ReasonBadUserNameOrPassword,
			AuthenticationFailed: true,
		},
	}
}
