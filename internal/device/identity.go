// Package device holds the machine identity shown during setup: a stable
// SSCM-XXXXXX id derived from the WiFi MAC and a six digit pairing code the
// owner types into the admin panel.
package device

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const idPrefix = "SSCM-"

var (
	idPattern   = regexp.MustCompile(`^SSCM-[A-F0-9]{6}$`)
	codePattern = regexp.MustCompile(`^\d{6}$`)
)

type Identity struct {
	ID          string    `yaml:"device_id" json:"deviceId"`
	PairingCode string    `yaml:"pairing_code" json:"pairingCode"`
	CreatedAt   time.Time `yaml:"created_at" json:"createdAt"`
}

// IDFromMAC uses the last three bytes of mac, the part the vendor assigns
// per unit.
func IDFromMAC(mac net.HardwareAddr) (string, error) {
	if len(mac) < 3 {
		return "", fmt.Errorf("hardware address %q too short", mac.String())
	}
	return idPrefix + strings.ToUpper(fmt.Sprintf("%x", []byte(mac[len(mac)-3:]))), nil
}

func ValidID(id string) bool { return idPattern.MatchString(id) }

func ValidPairingCode(code string) bool { return codePattern.MatchString(code) }

func NewPairingCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("pairing code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// New builds a fresh identity. Without a usable MAC the id comes from
// random bytes.
func New(mac net.HardwareAddr) (Identity, error) {
	id, err := IDFromMAC(mac)
	if err != nil {
		b := make([]byte, 3)
		if _, err := rand.Read(b); err != nil {
			return Identity{}, fmt.Errorf("device id: %w", err)
		}
		id, _ = IDFromMAC(b)
	}
	code, err := NewPairingCode()
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: id, PairingCode: code, CreatedAt: time.Now().UTC()}, nil
}

// InterfaceMAC returns the hardware address of the named interface, or nil
// when it does not exist.
func InterfaceMAC(name string) net.HardwareAddr {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return iface.HardwareAddr
}

// LoadOrCreate reads the identity at path. The first call on a machine
// creates it from mac and writes it, so later runs keep the same id and
// pairing code.
func LoadOrCreate(path string, mac net.HardwareAddr) (Identity, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var id Identity
		if err := yaml.Unmarshal(data, &id); err != nil {
			return Identity{}, fmt.Errorf("decode %s: %w", path, err)
		}
		if !ValidID(id.ID) || !ValidPairingCode(id.PairingCode) {
			return Identity{}, fmt.Errorf("%s: malformed device identity", path)
		}
		return id, nil
	case !errors.Is(err, fs.ErrNotExist):
		return Identity{}, fmt.Errorf("read %s: %w", path, err)
	}

	id, err := New(mac)
	if err != nil {
		return Identity{}, err
	}
	if err := write(path, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

func write(path string, id Identity) error {
	data, err := yaml.Marshal(id)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".device-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
