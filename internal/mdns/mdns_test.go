package mdns

import (
	"errors"
	"net"
	"reflect"
	"testing"

	"github.com/grandcat/zeroconf"
)

type registerCall struct {
	instance, service, domain string
	port                      int
	host                      string
	ips, text                 []string
	ifaces                    []net.Interface
}

func fakeRegister(t *testing.T, err error) *registerCall {
	t.Helper()
	call := &registerCall{}
	prev := registerProxy
	registerProxy = func(instance, service, domain string, port int, host string, ips, text []string, ifaces []net.Interface) (*zeroconf.Server, error) {
		*call = registerCall{instance, service, domain, port, host, ips, text, ifaces}
		return nil, err
	}
	t.Cleanup(func() { registerProxy = prev })
	return call
}

func testAddrs() []net.Addr {
	return []net.Addr{
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("192.168.4.1"), Mask: net.CIDRMask(24, 32)},
		&net.IPAddr{IP: net.ParseIP("fe80::1")},
		&net.IPNet{IP: net.ParseIP("::1"), Mask: net.CIDRMask(128, 128)},
	}
}

func TestPublishRegistersHost(t *testing.T) {
	call := fakeRegister(t, nil)
	iface := net.Interface{Index: 3, Name: "wlan0", Flags: net.FlagUp | net.FlagMulticast}

	adv, err := publish("shoecare", 80, "/", iface, testAddrs())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if adv.Host != "shoecare.local." {
		t.Errorf("Host = %q", adv.Host)
	}

	want := registerCall{
		instance: "shoecare",
		service:  "_http._tcp",
		domain:   "local.",
		port:     80,
		host:     "shoecare",
		ips:      []string{"192.168.4.1", "fe80::1"},
		text:     []string{"path=/"},
		ifaces:   []net.Interface{iface},
	}
	if !reflect.DeepEqual(*call, want) {
		t.Fatalf("register args:\n got %+v\nwant %+v", *call, want)
	}
}

func TestPublishNeedsAddress(t *testing.T) {
	call := fakeRegister(t, nil)
	iface := net.Interface{Name: "wlan0"}
	lo := []net.Addr{&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)}}

	if _, err := publish("shoecare", 80, "/", iface, lo); err == nil {
		t.Fatal("expected error without a usable address")
	}
	if call.instance != "" {
		t.Fatal("register should not be called")
	}
}

func TestPublishRegisterError(t *testing.T) {
	boom := errors.New("boom")
	fakeRegister(t, boom)
	_, err := publish("shoecare", 80, "/", net.Interface{Name: "wlan0"}, testAddrs())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestPublishUnknownInterface(t *testing.T) {
	fakeRegister(t, nil)
	if _, err := Publish("shoecare", 80, "/", "no-such-iface0"); err == nil {
		t.Fatal("expected error for unknown interface")
	}
}

func TestShutdownNil(t *testing.T) {
	var a *Advertisement
	a.Shutdown()
	(&Advertisement{}).Shutdown()
}
