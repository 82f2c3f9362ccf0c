package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SHOECARE"

type Config struct {
	Port       string
	SetupToken string
	PortalURL  string
	DataDir    string

	Store     string // "file" or "redis"
	RedisAddr string

	Scanner        string // "nmcli" or "static"
	StaticNetworks []string
	WifiInterface  string
	ScanTTL        time.Duration

	RestartCommand string

	MDNS     bool
	MDNSName string

	Metrics    bool
	LogLevel   string
	LogConsole bool
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "80")
	v.SetDefault("portal-url", "http://192.168.4.1/")
	v.SetDefault("data-dir", "/var/lib/shoecare")
	v.SetDefault("store", "file")
	v.SetDefault("scanner", "nmcli")
	v.SetDefault("wifi-interface", "wlan0")
	v.SetDefault("scan-ttl", 10*time.Second)
	v.SetDefault("mdns", true)
	v.SetDefault("mdns-name", "shoecare")
	v.SetDefault("metrics", true)
	v.SetDefault("log-level", "info")
}

// BindFlags registers the command line flags and binds them to v. Flags win
// over SHOECARE_* environment variables, which win over the config file.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("config", Getenv(envPrefix+"_CONFIG", ""), "optional YAML config file")
	fs.String("port", "80", "HTTP listen port")
	fs.String("setup-token", "", "token required as ?token= on the setup pages; empty disables the check")
	fs.String("portal-url", "http://192.168.4.1/", "URL encoded in the /qr code")
	fs.String("data-dir", "/var/lib/shoecare", "directory for credentials and the provisioned marker")
	fs.String("store", "file", "credential store: file or redis")
	fs.String("redis-addr", "", "redis address or URL when --store=redis")
	fs.String("scanner", "nmcli", "network scanner: nmcli or static")
	fs.StringSlice("static-networks", nil, "networks listed by the static scanner")
	fs.String("wifi-interface", "wlan0", "interface to scan on")
	fs.Duration("scan-ttl", 10*time.Second, "how long a scan result is reused")
	fs.String("restart-command", "", "shell command run when the countdown ends, e.g. \"systemctl reboot\"")
	fs.Bool("mdns", true, "advertise the portal over mDNS")
	fs.String("mdns-name", "shoecare", "mDNS instance name")
	fs.Bool("metrics", true, "serve Prometheus metrics on /metrics")
	fs.String("log-level", "info", "log verbosity (all, debug, info, warn, error, fatal, none)")
	fs.Bool("log-console", false, "human readable log output")

	return v.BindPFlags(fs)
}

// Load reads the config file named by the "config" key, if any, and
// resolves every setting.
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	c := Config{
		Port:           v.GetString("port"),
		SetupToken:     v.GetString("setup-token"),
		PortalURL:      v.GetString("portal-url"),
		DataDir:        v.GetString("data-dir"),
		Store:          strings.ToLower(v.GetString("store")),
		RedisAddr:      v.GetString("redis-addr"),
		Scanner:        strings.ToLower(v.GetString("scanner")),
		StaticNetworks: stringList(v, "static-networks"),
		WifiInterface:  v.GetString("wifi-interface"),
		ScanTTL:        v.GetDuration("scan-ttl"),
		RestartCommand: v.GetString("restart-command"),
		MDNS:           v.GetBool("mdns"),
		MDNSName:       v.GetString("mdns-name"),
		Metrics:        v.GetBool("metrics"),
		LogLevel:       v.GetString("log-level"),
		LogConsole:     v.GetBool("log-console"),
	}
	return c, c.Validate()
}

// stringList reads a list setting. Environment variables arrive as one
// string and are split on commas, since SSIDs may contain spaces.
func stringList(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c Config) Validate() error {
	switch c.Store {
	case "file":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("store redis needs redis-addr")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	switch c.Scanner {
	case "nmcli", "static":
	default:
		return fmt.Errorf("unknown scanner %q", c.Scanner)
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	return nil
}

func (c Config) CredentialsPath() string {
	return filepath.Join(c.DataDir, "wifi.yaml")
}

// DevicePath holds the device id and pairing code. Reset keeps it.
func (c Config) DevicePath() string {
	return filepath.Join(c.DataDir, "device.yaml")
}

// ProvisionedPath is the marker written once setup has completed.
func (c Config) ProvisionedPath() string {
	return filepath.Join(c.DataDir, "provisioned")
}

func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
