package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mqttlog/mqttlog-go/pkg/discovery"
	"github.com/spf13/cobra"
)

type discoverFlags struct {
	timeout   time.Duration
	iface     string
	websocket bool
}

func newDiscoverCommand() *cobra.Command {
	flags := &discoverFlags{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find MQTT brokers announced over mDNS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bcfg := discovery.DefaultBrowserConfig()
			bcfg.BrowseTimeout = flags.timeout
			bcfg.Interface = flags.iface
			browser := discovery.NewMDNSBrowser(bcfg)
			defer browser.Stop()

			serviceType := discovery.ServiceTypeMQTT
			if flags.websocket {
				serviceType = discovery.ServiceTypeMQTTWebsocket
			}
			return RunDiscover(cmd.Context(), browser, serviceType, flags.timeout, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.DurationVar(&flags.timeout, "timeout", discovery.BrowseTimeout, "How long to browse")
	f.StringVar(&flags.iface, "interface", "", "Network interface to browse on (default: all)")
	f.BoolVar(&flags.websocket, "websocket", false, "Browse for websocket listeners instead of TCP")
	return cmd
}

// RunDiscover browses for timeout and prints the brokers found.
func RunDiscover(ctx context.Context, browser discovery.Browser, serviceType string, timeout time.Duration, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := browser.BrowseBrokers(ctx, serviceType)
	if err != nil {
		return fmt.Errorf("failed to browse: %w", err)
	}
	found := discovery.Collect(ctx, results)

	if len(found) == 0 {
		fmt.Fprintf(w, "No %s services found\n", serviceType)
		return nil
	}

	sort.Slice(found, func(i, j int) bool { return found[i].InstanceName < found[j].InstanceName })
	for _, svc := range found {
		fmt.Fprintf(w, "%s  %s:%d  listener=%s", svc.InstanceName, svc.Host, svc.Port, svc.Listener)
		if svc.Version != "" {
			fmt.Fprintf(w, " version=%s", svc.Version)
		}
		if svc.Websocket {
			fmt.Fprintf(w, " path=%s", svc.Path)
		}
		fmt.Fprintln(w)
		if len(svc.Addresses) > 0 {
			fmt.Fprintf(w, "  addresses: %s\n", strings.Join(svc.Addresses, ", "))
		}
	}
	return nil
}
