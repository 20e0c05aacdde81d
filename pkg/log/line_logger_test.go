package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

func TestLineLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLineLogger(&buf)

	l.Log(Record{Line: "first"})
	l.Log(Record{Line: "second"})

	assert.Equal(t, "first\nsecond\n", buf.String())
	assert.NoError(t, l.Close())
}

func TestLineLoggerDropsAfterClose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLineLogger(&buf)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	l.Log(Record{Line: "late"})
	assert.Empty(t, buf.String())
}

func TestLineLoggerConcurrentLinesIntact(t *testing.T) {
	var buf bytes.Buffer
	l := NewLineLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Log(testRecord("client", packet.KindPublish, packet.Inbound))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1000)
	for _, line := range lines {
		assert.Equal(t, "Received PUBLISH from client 'client'", line)
	}
}

func TestRotatingLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packets.log")
	l := NewRotatingLogger(RotationConfig{Filename: path, MaxSize: 1, MaxBackups: 2})

	l.Log(Record{Line: "Received PING REQUEST from client 'c'"})
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Received PING REQUEST from client 'c'\n", string(data))
}
