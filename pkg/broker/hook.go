package broker

import (
	"bytes"
	"errors"
	"sync"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"

	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// ErrInvalidHookConfig is returned when a hook is added without its options.
var ErrInvalidHookConfig = errors.New("broker: invalid hook config")

// HookOptions configures Hook.
type HookOptions struct {
	// Gate receives every intercepted packet.
	Gate *dispatch.Gate
	// IgnoreClients are client IDs whose packets are not logged, such as
	// the MQTT sink publishing records back into this broker.
	IgnoreClients []string
	// Converter maps packets to events.
	Converter Converter
}

// Hook logs control packets read from and written to clients.
type Hook struct {
	mqtt.HookBase
	gate    *dispatch.Gate
	convert Converter
	ignore  map[string]struct{}

	// relayed holds, per receiving client, the packet IDs of in-flight
	// publishes that originate from an ignored client.
	mu      sync.Mutex
	relayed map[string]map[uint16]struct{}
}

// ID returns the hook identifier.
func (h *Hook) ID() string {
	return "mqttlog-packets"
}

// Provides reports the hook methods implemented.
func (h *Hook) Provides(b byte) bool {
	return bytes.Contains([]byte{
		mqtt.OnConnect,
		mqtt.OnPacketRead,
		mqtt.OnPacketEncode,
		mqtt.OnPacketSent,
		mqtt.OnDisconnect,
	}, []byte{b})
}

// Init configures the hook from *HookOptions.
func (h *Hook) Init(config any) error {
	opts, ok := config.(*HookOptions)
	if !ok || opts == nil || opts.Gate == nil {
		return ErrInvalidHookConfig
	}
	h.gate = opts.Gate
	h.convert = opts.Converter
	h.ignore = make(map[string]struct{}, len(opts.IgnoreClients))
	for _, id := range opts.IgnoreClients {
		h.ignore[id] = struct{}{}
	}
	h.relayed = make(map[string]map[uint16]struct{})
	return nil
}

// OnConnect logs the CONNECT packet once the client ID is known.
func (h *Hook) OnConnect(cl *mqtt.Client, pk packets.Packet) error {
	h.observe(cl.ID, packet.Inbound, pk)
	return nil
}

// OnPacketRead logs inbound packets other than CONNECT.
func (h *Hook) OnPacketRead(cl *mqtt.Client, pk packets.Packet) (packets.Packet, error) {
	if pk.FixedHeader.Type != packets.Connect {
		h.observe(cl.ID, packet.Inbound, pk)
	}
	return pk, nil
}

// OnPacketEncode notes the packet ID of a relayed publish before it is
// written, so the acknowledgement cannot be read ahead of it.
func (h *Hook) OnPacketEncode(cl *mqtt.Client, pk packets.Packet) packets.Packet {
	if pk.FixedHeader.Type == packets.Publish && pk.FixedHeader.Qos > 0 && h.ignored(pk.Origin) {
		h.mu.Lock()
		ids := h.relayed[cl.ID]
		if ids == nil {
			ids = make(map[uint16]struct{})
			h.relayed[cl.ID] = ids
		}
		ids[pk.PacketID] = struct{}{}
		h.mu.Unlock()
	}
	return pk
}

// OnPacketSent logs outbound packets.
func (h *Hook) OnPacketSent(cl *mqtt.Client, pk packets.Packet, _ []byte) {
	h.observe(cl.ID, packet.Outbound, pk)
}

// OnDisconnect forgets relayed packet IDs once the session is gone.
func (h *Hook) OnDisconnect(cl *mqtt.Client, _ error, expire bool) {
	if !expire {
		return
	}
	h.mu.Lock()
	delete(h.relayed, cl.ID)
	h.mu.Unlock()
}

func (h *Hook) ignored(clientID string) bool {
	_, ok := h.ignore[clientID]
	return ok
}

// skip reports whether pk belongs to traffic of an ignored client: its own
// packets, publishes it originated on their way to subscribers, and the
// acknowledgement flow of those publishes.
func (h *Hook) skip(clientID string, dir packet.Direction, pk packets.Packet) bool {
	if h.ignored(clientID) {
		return true
	}
	if len(h.ignore) == 0 {
		return false
	}

	switch t := pk.FixedHeader.Type; {
	case t == packets.Publish:
		return dir == packet.Outbound && h.ignored(pk.Origin)
	case t == packets.Pubrel && dir == packet.Outbound,
		t == packets.Pubrec && dir == packet.Inbound:
		return h.relaying(clientID, pk.PacketID, false)
	case t == packets.Puback && dir == packet.Inbound,
		t == packets.Pubcomp && dir == packet.Inbound:
		return h.relaying(clientID, pk.PacketID, true)
	}
	return false
}

// relaying reports whether id is a relayed publish in flight to clientID,
// releasing it when the flow completes.
func (h *Hook) relaying(clientID string, id uint16, complete bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := h.relayed[clientID]
	if _, ok := ids[id]; !ok {
		return false
	}
	if complete {
		delete(ids, id)
		if len(ids) == 0 {
			delete(h.relayed, clientID)
		}
	}
	return true
}

func (h *Hook) observe(clientID string, dir packet.Direction, pk packets.Packet) {
	if h.skip(clientID, dir, pk) {
		return
	}
	kind, ok := KindOf(pk.FixedHeader.Type)
	if !ok {
		return
	}
	h.gate.Dispatch(kind, dir, func() *packet.Event {
		return h.convert.Event(clientID, dir, pk)
	})
}
