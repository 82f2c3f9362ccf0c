package portal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"shoecare-portal/internal/credstore"
	"shoecare-portal/internal/device"
)

// Status is what the machine currently knows about its WiFi setup.
type Status struct {
	Device      device.Identity
	Provisioned bool
	Credentials *credstore.Credentials
}

// Provisioned reports whether setup has completed. Once it has, the setup
// pages answer 410 until Reset is called.
func (s *Server) Provisioned() bool {
	_, err := os.Stat(s.cfg.ProvisionedPath())
	return err == nil
}

func (s *Server) markProvisioned(at time.Time) error {
	path := s.cfg.ProvisionedPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(at.Format(time.RFC3339)), 0o600)
}

func (s *Server) Status(ctx context.Context) (Status, error) {
	st := Status{Device: s.device, Provisioned: s.Provisioned()}
	c, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, credstore.ErrNotFound):
	case err != nil:
		return st, err
	default:
		st.Credentials = &c
	}
	return st, nil
}

// Reset forgets the stored credentials and reopens the setup pages.
func (s *Server) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if err := os.Remove(s.cfg.ProvisionedPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove provisioned marker: %w", err)
	}
	s.restartPending.Store(false)
	return nil
}
