package broker

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
	"github.com/mqttlog/mqttlog-go/pkg/feature"
	"github.com/mqttlog/mqttlog-go/pkg/log"
)

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startServer(t *testing.T, users map[string]string) (string, *recordSink) {
	t.Helper()
	addr := freeAddress(t)
	sink := &recordSink{}
	srv, err := NewServer(ServerConfig{
		Listeners: []ListenerConfig{{ID: "t1", Type: ListenerTCP, Address: addr}},
		Gate:      dispatch.New(feature.Default(), sink),
		Users:     users,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrAlreadyRunning)
	t.Cleanup(func() {
		cancel()
		_ = srv.Stop()
	})
	return addr, sink
}

func pahoClient(addr, id, username, password string) pahomqtt.Client {
	opts := pahomqtt.NewClientOptions().
		AddBroker("tcp://" + addr).
		SetClientID(id).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(5 * time.Second)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}
	return pahomqtt.NewClient(opts)
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.ErrorIs(t, err, ErrNoListeners)

	_, err = NewServer(ServerConfig{Listeners: []ListenerConfig{{ID: "t", Address: ":0"}}})
	assert.ErrorIs(t, err, ErrNoGate)

	_, err = NewServer(ServerConfig{
		Listeners: []ListenerConfig{{ID: "t", Type: "quic", Address: ":0"}},
		Gate:      dispatch.New(feature.Default(), nil),
		Logger:    quietLogger(),
	})
	assert.ErrorContains(t, err, "unsupported listener type")
}

func TestServerLogsClientSession(t *testing.T) {
	addr, sink := startServer(t, nil)

	client := pahoClient(addr, "it-client", "", "")
	token := client.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	received := make(chan []byte, 1)
	token = client.Subscribe("it/topic", 1, func(_ pahomqtt.Client, m pahomqtt.Message) {
		received <- m.Payload()
	})
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	token = client.Publish("it/topic", 1, false, "hello")
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	select {
	case payload := <-received:
		assert.Equal(t, "hello", string(payload))
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
	client.Disconnect(250)

	want := []string{
		"Received CONNECT from client 'it-client'",
		"Sent CONNACK to client 'it-client'",
		"Received SUBSCRIBE from client 'it-client'",
		"Sent SUBACK to client 'it-client'",
		"Received PUBLISH from client 'it-client' for topic 'it/topic': Payload: 'hello', QoS: '1'",
		"Sent PUBLISH to client 'it-client' on topic 'it/topic': Payload: 'hello', QoS: '1'",
		"Sent PUBACK to client 'it-client'",
		"Received DISCONNECT from client 'it-client'",
	}
	for _, w := range want {
		assert.Eventually(t, func() bool { return sink.contains(w) }, 5*time.Second, 10*time.Millisecond, "missing %q in %v", w, sink.lines())
	}
}

func TestServerRecordsAuthenticationFailure(t *testing.T) {
	addr, sink := startServer(t, map[string]string{"alice": hashPassword(t, "right")})

	bad := pahoClient(addr, "intruder", "alice", "wrong")
	token := bad.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	assert.Error(t, token.Error())

	assert.Eventually(t, func() bool {
		return sink.contains("Sent DISCONNECT to client 'intruder' because authentication failed.")
	}, 5*time.Second, 10*time.Millisecond)

	good := pahoClient(addr, "friend", "alice", "right")
	token = good.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())
	good.Disconnect(100)
}

func TestServerListenersAndClients(t *testing.T) {
	addr := freeAddress(t)
	srv, err := NewServer(ServerConfig{
		Listeners: []ListenerConfig{{ID: "t1", Type: ListenerTCP, Address: addr}},
		Gate:      dispatch.New(feature.Default(), nil),
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, srv.Start(ctx))
	defer srv.Stop()

	assert.Equal(t, map[string]string{"t1": addr}, srv.Listeners())
	assert.Empty(t, srv.Address("missing"))

	client := pahoClient(addr, "counted", "", "")
	token := client.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())
	defer client.Disconnect(250)

	assert.Eventually(t, func() bool { return srv.Clients() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestServerStopEndsContextWatcher(t *testing.T) {
	srv, err := NewServer(ServerConfig{
		Listeners: []ListenerConfig{{ID: "t1", Type: ListenerTCP, Address: freeAddress(t)}},
		Gate:      dispatch.New(feature.Default(), nil),
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	require.NoError(t, srv.Start(context.Background()))
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())

	select {
	case <-srv.watched:
	case <-time.After(5 * time.Second):
		t.Fatal("context watcher still running after Stop")
	}
}

func TestServerContextCancelStops(t *testing.T) {
	srv, err := NewServer(ServerConfig{
		Listeners: []ListenerConfig{{ID: "t1", Type: ListenerTCP, Address: freeAddress(t)}},
		Gate:      dispatch.New(feature.Default(), nil),
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))
	cancel()

	select {
	case <-srv.watched:
	case <-time.After(5 * time.Second):
		t.Fatal("context watcher did not stop the server")
	}
	assert.False(t, srv.running.Load())
}

func TestServerRecordTopicSubscriberDoesNotFeedBack(t *testing.T) {
	addr := freeAddress(t)
	counted := &recordSink{}
	multi := log.NewMultiLogger(counted)
	gate := dispatch.New(feature.Default(), multi)

	srv, err := NewServer(ServerConfig{
		Listeners:     []ListenerConfig{{ID: "t1", Type: ListenerTCP, Address: addr}},
		Gate:          gate,
		IgnoreClients: []string{"record-sink"},
		Logger:        quietLogger(),
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, srv.Start(ctx))
	defer srv.Stop()

	sink, err := log.NewMQTTLogger(log.MQTTConfig{
		Broker:   "tcp://" + addr,
		ClientID: "record-sink",
		Topic:    "mqttlog",
		QoS:      2,
	})
	require.NoError(t, err)
	defer sink.Close()
	multi.Add(sink)

	watcher := pahoClient(addr, "watcher", "", "")
	token := watcher.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())
	defer watcher.Disconnect(100)

	delivered := make(chan struct{}, 1024)
	token = watcher.Subscribe("mqttlog/#", 2, func(pahomqtt.Client, pahomqtt.Message) {
		select {
		case delivered <- struct{}{}:
		default:
		}
	})
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("no record delivered to the watcher")
	}

	var settled int
	assert.Eventually(t, func() bool {
		n := len(counted.lines())
		same := n == settled
		settled = n
		return same
	}, 5*time.Second, 200*time.Millisecond)

	time.Sleep(time.Second)
	lines := counted.lines()
	assert.Len(t, lines, settled, "records kept arriving without client activity")
	for _, l := range lines {
		assert.NotContains(t, l, "on topic 'mqttlog/")
	}
}
