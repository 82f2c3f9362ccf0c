package wifi

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// NmcliScanner lists networks through NetworkManager's CLI.
type NmcliScanner struct {
	// Interface restricts the scan to one device; empty means any.
	Interface string
	// Rescan is passed to --rescan: "auto", "yes" or "no".
	Rescan string
}

func (s NmcliScanner) Scan(ctx context.Context) ([]Network, error) {
	rescan := s.Rescan
	if rescan == "" {
		rescan = "auto"
	}
	args := []string{"-t", "-f", "SSID,SIGNAL,SECURITY", "dev", "wifi", "list", "--rescan", rescan}
	if s.Interface != "" {
		args = append(args, "ifname", s.Interface)
	}

	out, err := exec.CommandContext(ctx, "nmcli", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("nmcli wifi list: %w", err)
	}
	return Normalize(parseNmcli(string(out))), nil
}

// parseNmcli reads nmcli terse output, one "SSID:SIGNAL:SECURITY" record per
// line. Colons and backslashes inside a field are escaped with a backslash.
func parseNmcli(out string) []Network {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	networks := make([]Network, 0, len(lines))

	for _, line := range lines {
		fields := splitTerse(line)
		if len(fields) != 3 {
			continue
		}
		signal, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		networks = append(networks, Network{
			SSID:     fields[0],
			Signal:   signal,
			Security: strings.TrimSpace(fields[2]),
		})
	}
	return networks
}

func splitTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
