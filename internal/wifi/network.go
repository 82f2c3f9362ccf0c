package wifi

import (
	"context"
	"sort"
	"strings"
)

// Network is one access point seen by a scan.
type Network struct {
	SSID     string
	Signal   int    // 0-100
	Security string // e.g. "WPA2", "WPA1 WPA2", "" for open networks
}

// Secured reports whether joining the network needs a password.
func (n Network) Secured() bool {
	s := strings.TrimSpace(n.Security)
	return s != "" && s != "--"
}

type Scanner interface {
	Scan(ctx context.Context) ([]Network, error)
}

// StaticScanner always returns the same networks.
type StaticScanner []Network

func (s StaticScanner) Scan(ctx context.Context) ([]Network, error) {
	return Normalize(s), nil
}

// Normalize drops hidden networks, keeps the strongest entry per SSID and
// orders the result by signal, strongest first, then by name.
func Normalize(in []Network) []Network {
	best := make(map[string]Network, len(in))
	for _, n := range in {
		if strings.TrimSpace(n.SSID) == "" {
			continue
		}
		if cur, ok := best[n.SSID]; !ok || n.Signal > cur.Signal {
			best[n.SSID] = n
		}
	}

	out := make([]Network, 0, len(best))
	for _, n := range best {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Signal != out[j].Signal {
			return out[i].Signal > out[j].Signal
		}
		return out[i].SSID < out[j].SSID
	})
	return out
}
