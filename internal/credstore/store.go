package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("no credentials stored")
	ErrInvalid  = errors.New("invalid credentials")
)

// Credentials are the network settings collected by the setup form.
type Credentials struct {
	ID       string    `yaml:"id" json:"id"`
	DeviceID string    `yaml:"device_id,omitempty" json:"device_id,omitempty"`
	SSID     string    `yaml:"ssid" json:"ssid"`
	Password string    `yaml:"password" json:"password"`
	SavedAt  time.Time `yaml:"saved_at" json:"saved_at"`
}

type Store interface {
	Save(ctx context.Context, c Credentials) error
	Load(ctx context.Context) (Credentials, error)
	Clear(ctx context.Context) error
}

// New validates ssid and password and stamps a fresh record.
func New(ssid, password string) (Credentials, error) {
	if err := Validate(ssid, password); err != nil {
		return Credentials{}, err
	}
	return Credentials{
		ID:       uuid.NewString(),
		SSID:     ssid,
		Password: password,
		SavedAt:  time.Now().UTC(),
	}, nil
}

// Validate applies the 802.11 limits: an SSID is 1 to 32 bytes, a WPA
// passphrase is 8 to 63 printable ASCII characters or a 64 digit hex key.
// An empty password selects an open network.
func Validate(ssid, password string) error {
	if len(ssid) == 0 {
		return fmt.Errorf("%w: network name is required", ErrInvalid)
	}
	if len(ssid) > 32 {
		return fmt.Errorf("%w: network name is longer than 32 bytes", ErrInvalid)
	}
	if password == "" {
		return nil
	}
	if len(password) == 64 && isHex(password) {
		return nil
	}
	if len(password) < 8 || len(password) > 63 {
		return fmt.Errorf("%w: password must be 8 to 63 characters", ErrInvalid)
	}
	for i := 0; i < len(password); i++ {
		if c := password[i]; c < 0x20 || c > 0x7e {
			return fmt.Errorf("%w: password must be printable ASCII", ErrInvalid)
		}
	}
	return nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
