// Package interactive provides the interactive console for mqttlog serve -i.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mqttlog/mqttlog-go/pkg/dispatch"
	"github.com/mqttlog/mqttlog-go/pkg/feature"
)

// Service is what the console needs from the running logger.
type Service interface {
	// Profile returns the active event profile.
	Profile() feature.Profile

	// Stats returns the dispatch gate counters.
	Stats() dispatch.Stats

	// Listeners returns listener ID to bound address.
	Listeners() map[string]string

	// Clients returns the number of connected clients.
	Clients() int

	// Publish publishes a message through the broker's inline client.
	Publish(topic string, payload []byte, retain bool, qos byte) error
}

// Console handles interactive mode for mqttlog serve.
type Console struct {
	svc Service
	rl  *readline.Instance
}

// New creates a console on the terminal. svc may be nil and set later
// with Attach, so record output can use Stdout before the service starts.
func New(svc Service) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mqttlog> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{svc: svc, rl: rl}, nil
}

// Attach sets the service the commands operate on.
func (c *Console) Attach(svc Service) {
	c.svc = svc
}

// Close releases the terminal without running the command loop.
func (c *Console) Close() error {
	return c.rl.Close()
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for record output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop. It calls cancel when the user
// quits or closes the input.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	PrintHelp(c.rl.Stdout())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		if quit := Execute(c.svc, line, c.rl.Stdout()); quit {
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one console command and reports whether the user asked to quit.
func Execute(svc Service, line string, w io.Writer) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		PrintHelp(w)

	case "stats", "s":
		cmdStats(svc, w)

	case "profile", "p":
		cmdProfile(svc, w)

	case "listeners", "l":
		cmdListeners(svc, w)

	case "publish", "pub":
		cmdPublish(svc, args, w)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

// PrintHelp writes the command overview.
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, `
mqttlog Commands:
  stats                        - Show record and client counters
  profile                      - Show the active event profile
  listeners                    - Show listener addresses
  publish <topic> <payload> [qos] [retain]
                               - Publish through the inline client
  help                         - Show this help
  quit                         - Stop the broker and exit`)
}

func cmdStats(svc Service, w io.Writer) {
	st := svc.Stats()
	fmt.Fprintf(w, "Clients:   %d\n", svc.Clients())
	fmt.Fprintf(w, "Formatted: %d\n", st.Formatted)
	fmt.Fprintf(w, "Skipped:   %d\n", st.Skipped)
	fmt.Fprintf(w, "Failed:    %d\n", st.Failed)
}

func cmdProfile(svc Service, w io.Writer) {
	values := svc.Profile().Map()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-28s %t\n", k, values[k])
	}
}

func cmdListeners(svc Service, w io.Writer) {
	listeners := svc.Listeners()
	ids := make([]string, 0, len(listeners))
	for id := range listeners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %-10s %s\n", id, listeners[id])
	}
}

func cmdPublish(svc Service, args []string, w io.Writer) {
	if len(args) < 2 {
		fmt.Fprintln(w, "Usage: publish <topic> <payload> [qos] [retain]")
		return
	}

	var qos byte
	if len(args) > 2 {
		n, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil || n > 2 {
			fmt.Fprintf(w, "Invalid QoS: %s (must be 0, 1 or 2)\n", args[2])
			return
		}
		qos = byte(n)
	}

	retain := false
	if len(args) > 3 {
		b, err := strconv.ParseBool(args[3])
		if err != nil {
			fmt.Fprintf(w, "Invalid retain flag: %s\n", args[3])
			return
		}
		retain = b
	}

	if err := svc.Publish(args[0], []byte(args[1]), retain, qos); err != nil {
		fmt.Fprintf(w, "Publish failed: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Published to %s\n", args[0])
}
