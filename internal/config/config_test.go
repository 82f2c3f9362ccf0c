package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func load(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(fs, v); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return Load(v)
}

func TestDefaults(t *testing.T) {
	c, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "80" || c.Store != "file" || c.Scanner != "nmcli" || c.ScanTTL != 10*time.Second || !c.MDNS {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.CredentialsPath() != "/var/lib/shoecare/wifi.yaml" {
		t.Fatalf("CredentialsPath = %s", c.CredentialsPath())
	}
	if c.ProvisionedPath() != "/var/lib/shoecare/provisioned" {
		t.Fatalf("ProvisionedPath = %s", c.ProvisionedPath())
	}
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "portal.yaml")
	yaml := "port: \"8081\"\nsetup-token: from-file\nscanner: static\nscan-ttl: 1m\n"
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOECARE_SETUP_TOKEN", "from-env")

	c, err := load(t, "--config", file, "--scanner", "nmcli")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "8081" {
		t.Errorf("port from file: got %s", c.Port)
	}
	if c.SetupToken != "from-env" {
		t.Errorf("env should override file: got %s", c.SetupToken)
	}
	if c.Scanner != "nmcli" {
		t.Errorf("flag should override file: got %s", c.Scanner)
	}
	if c.ScanTTL != time.Minute {
		t.Errorf("scan-ttl from file: got %s", c.ScanTTL)
	}
}

func TestStaticNetworks(t *testing.T) {
	want := []string{"Home Network", "Cafe"}

	t.Setenv("SHOECARE_STATIC_NETWORKS", "Home Network, Cafe,")
	c, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(c.StaticNetworks, want) {
		t.Errorf("from env: got %q, want %q", c.StaticNetworks, want)
	}

	c, err = load(t, "--static-networks", "Home Network,Cafe")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(c.StaticNetworks, want) {
		t.Errorf("from flag: got %q, want %q", c.StaticNetworks, want)
	}

	file := filepath.Join(t.TempDir(), "portal.yaml")
	if err := os.WriteFile(file, []byte("static-networks:\n  - Home Network\n  - Cafe\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOECARE_STATIC_NETWORKS", "")
	c, err = load(t, "--config", file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(c.StaticNetworks, want) {
		t.Errorf("from file: got %q, want %q", c.StaticNetworks, want)
	}
}

func TestValidate(t *testing.T) {
	if _, err := load(t, "--store", "redis"); err == nil {
		t.Fatal("expected error for redis store without address")
	}
	if _, err := load(t, "--store", "sqlite"); err == nil {
		t.Fatal("expected error for unknown store")
	}
	if _, err := load(t, "--scanner", "iw"); err == nil {
		t.Fatal("expected error for unknown scanner")
	}
	if _, err := load(t, "--store", "redis", "--redis-addr", "localhost:6379"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := load(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("SHOECARE_TEST_VALUE", "x")
	if Getenv("SHOECARE_TEST_VALUE", "def") != "x" {
		t.Fatal("expected env value")
	}
	if Getenv("SHOECARE_TEST_UNSET", "def") != "def" {
		t.Fatal("expected default")
	}
}
