package mdns

import (
	"fmt"
	"net"

	"github.com/grandcat/zeroconf"

	"shoecare-portal/internal/logx"
)

const (
	service = "_http._tcp"
	domain  = "local."
)

// registerProxy is replaced in tests.
var registerProxy = zeroconf.RegisterProxy

// Advertisement is a running DNS-SD registration.
type Advertisement struct {
	server *zeroconf.Server
	Host   string
}

// Publish announces the portal as instance on port. The host record is
// <instance>.local and points at the addresses of the named interface, so
// phones on the setup network can open http://<instance>.local/.
func Publish(instance string, port int, path, ifaceName string) (*Advertisement, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("mdns interface %s: %w", ifaceName, err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("mdns addresses of %s: %w", ifaceName, err)
	}
	return publish(instance, port, path, *iface, addrs)
}

func publish(instance string, port int, path string, iface net.Interface, addrs []net.Addr) (*Advertisement, error) {
	ips := hostIPs(addrs)
	if len(ips) == 0 {
		return nil, fmt.Errorf("mdns: no usable address on %s", iface.Name)
	}
	txt := []string{"path=" + path}

	srv, err := registerProxy(instance, service, domain, port, instance, ips, txt, []net.Interface{iface})
	if err != nil {
		return nil, fmt.Errorf("mdns register %s: %w", instance, err)
	}
	host := instance + "." + domain
	logx.Log.Info().
		Str("instance", instance).
		Str("host", host).
		Strs("ips", ips).
		Int("port", port).
		Msg("mdns: advertising setup portal")
	return &Advertisement{server: srv, Host: host}, nil
}

// hostIPs returns the non-loopback unicast addresses in addrs.
func hostIPs(addrs []net.Addr) []string {
	var ips []string
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() || ip.IsUnspecified() || ip.IsMulticast() {
			continue
		}
		ips = append(ips, ip.String())
	}
	return ips
}

func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
