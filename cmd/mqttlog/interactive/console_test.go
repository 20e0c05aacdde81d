package interactive

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
	"github.com/mqttlog/mqttlog-go/pkg/feature"
)

type published struct {
	topic   string
	payload string
	retain  bool
	qos     byte
}

type fakeService struct {
	profile feature.Profile
	stats   dispatch.Stats
	pubErr  error
	pubs    []published
}

func (f *fakeService) Profile() feature.Profile { return f.profile }
func (f *fakeService) Stats() dispatch.Stats    { return f.stats }
func (f *fakeService) Clients() int             { return 3 }

func (f *fakeService) Listeners() map[string]string {
	return map[string]string{"ws1": "[::]:8080", "tcp1": "[::]:1883"}
}

func (f *fakeService) Publish(topic string, payload []byte, retain bool, qos byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.pubs = append(f.pubs, published{topic, string(payload), retain, qos})
	return nil
}

func run(svc Service, line string) (string, bool) {
	var buf bytes.Buffer
	quit := Execute(svc, line, &buf)
	return buf.String(), quit
}

func TestExecuteStats(t *testing.T) {
	svc := &fakeService{stats: dispatch.Stats{Formatted: 10, Skipped: 2, Failed: 1}}
	out, quit := run(svc, "stats")
	if quit {
		t.Fatal("stats should not quit")
	}
	for _, want := range []string{"Clients:   3", "Formatted: 10", "Skipped:   2", "Failed:    1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExecuteProfile(t *testing.T) {
	svc := &fakeService{profile: feature.FromMap(map[string]string{feature.PublishSend: "false"})}
	out, _ := run(svc, "p")
	if !strings.Contains(out, feature.PublishSend) {
		t.Fatalf("profile output missing %s:\n%s", feature.PublishSend, out)
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == feature.PublishSend && fields[1] != "false" {
			t.Errorf("%s = %s, want false", feature.PublishSend, fields[1])
		}
	}
}

func TestExecuteListenersSorted(t *testing.T) {
	out, _ := run(&fakeService{}, "listeners")
	if strings.Index(out, "tcp1") > strings.Index(out, "ws1") {
		t.Errorf("listeners not sorted:\n%s", out)
	}
	if !strings.Contains(out, "[::]:1883") {
		t.Errorf("address missing:\n%s", out)
	}
}

func TestExecutePublish(t *testing.T) {
	svc := &fakeService{}

	out, _ := run(svc, "publish sensors/temp 21.5 1 true")
	if out != "Published to sensors/temp\n" {
		t.Errorf("output = %q", out)
	}
	if len(svc.pubs) != 1 {
		t.Fatalf("published %d messages, want 1", len(svc.pubs))
	}
	want := published{"sensors/temp", "21.5", true, 1}
	if svc.pubs[0] != want {
		t.Errorf("published %+v, want %+v", svc.pubs[0], want)
	}
}

func TestExecutePublishErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"missing payload", "pub topic", "Usage: publish"},
		{"bad qos", "pub t p 3", "Invalid QoS: 3"},
		{"bad retain", "pub t p 0 maybe", "Invalid retain flag: maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			out, _ := run(svc, tt.line)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
			if len(svc.pubs) != 0 {
				t.Error("published despite invalid input")
			}
		})
	}

	svc := &fakeService{pubErr: errors.New("inline client disabled")}
	out, _ := run(svc, "pub t p")
	if out != "Publish failed: inline client disabled\n" {
		t.Errorf("output = %q", out)
	}
}

func TestExecuteQuitAndUnknown(t *testing.T) {
	for _, line := range []string{"quit", "exit", "Q"} {
		if _, quit := run(&fakeService{}, line); !quit {
			t.Errorf("%q did not quit", line)
		}
	}

	out, quit := run(&fakeService{}, "frobnicate now")
	if quit {
		t.Error("unknown command quit")
	}
	if out != "Unknown command: frobnicate (type 'help' for commands)\n" {
		t.Errorf("output = %q", out)
	}

	if out, _ := run(&fakeService{}, "   "); out != "" {
		t.Errorf("blank line output = %q", out)
	}
	if out, _ := run(&fakeService{}, "help"); !strings.Contains(out, "mqttlog Commands:") {
		t.Errorf("help output = %q", out)
	}
}
