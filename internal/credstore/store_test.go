package credstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		ssid, password string
		ok             bool
	}{
		{"HomeNetwork", "", true},
		{"HomeNetwork", "correcthorse", true},
		{"HomeNetwork", strings.Repeat("a", 63), true},
		{"HomeNetwork", strings.Repeat("0f", 32), true},
		{strings.Repeat("s", 32), "password1", true},
		{"", "password1", false},
		{strings.Repeat("s", 33), "password1", false},
		{"HomeNetwork", "short", false},
		{"HomeNetwork", strings.Repeat("a", 64), true},
		{"HomeNetwork", strings.Repeat("g", 64), false},
		{"HomeNetwork", strings.Repeat("0f", 32) + "0", false},
		{"HomeNetwork", "tab\tinside", false},
		{"HomeNetwork", "pässwörter", false},
	}
	for _, tt := range tests {
		err := Validate(tt.ssid, tt.password)
		if tt.ok && err != nil {
			t.Errorf("Validate(%q, %q): unexpected error %v", tt.ssid, tt.password, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalid) {
			t.Errorf("Validate(%q, %q): expected ErrInvalid, got %v", tt.ssid, tt.password, err)
		}
	}
}

func TestNewStampsRecord(t *testing.T) {
	c, err := New("HomeNetwork", "correcthorse")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.ID == "" || c.SavedAt.IsZero() {
		t.Fatalf("expected ID and timestamp, got %#v", c)
	}
	other, _ := New("HomeNetwork", "correcthorse")
	if other.ID == c.ID {
		t.Fatal("expected unique IDs")
	}
}

// exerciseStore runs the common Save/Load/Clear sequence against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store: expected ErrNotFound, got %v", err)
	}

	want := Credentials{ID: "id-1", SSID: "HomeNetwork", Password: "correcthorse", SavedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || got.SSID != want.SSID || got.Password != want.Password || !got.SavedAt.Equal(want.SavedAt) {
		t.Fatalf("Load = %#v; want %#v", got, want)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after Clear: expected ErrNotFound, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "wifi.yaml")
	exerciseStore(t, NewFileStore(path))
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifi.yaml")
	s := NewFileStore(path)
	if err := s.Save(context.Background(), Credentials{SSID: "HomeNetwork"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifi.yaml")
	if err := os.WriteFile(path, []byte("ssid: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rs, err := NewRedisStore(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs.Close()

	exerciseStore(t, rs)
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		url    string
		addrs  int
		master string
		db     int
		tls    bool
	}{
		{"localhost:6379", 1, "", 0, false},
		{"redis://:pass@localhost:6379/1", 1, "", 1, false},
		{"redis://host1:6379,host2:6379/?db=2", 2, "", 2, false},
		{"rediss://localhost:6380", 1, "", 0, true},
		{"redis-sentinel://s1:26379,s2:26379/mymaster?db=3", 2, "mymaster", 3, false},
	}
	for _, tt := range tests {
		opts, err := parseRedisURL(tt.url)
		if err != nil {
			t.Fatalf("parseRedisURL(%q): %v", tt.url, err)
		}
		if len(opts.Addrs) != tt.addrs || opts.MasterName != tt.master || opts.DB != tt.db || (opts.TLSConfig != nil) != tt.tls {
			t.Fatalf("parseRedisURL(%q) = %+v", tt.url, opts)
		}
	}

	for _, bad := range []string{"http://localhost", "redis://localhost/notanumber"} {
		if _, err := parseRedisURL(bad); err == nil {
			t.Fatalf("parseRedisURL(%q): expected error", bad)
		}
	}
}
