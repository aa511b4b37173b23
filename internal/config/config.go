// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"net/netip"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/fastpath/internal/core"
	"firestige.xyz/fastpath/internal/route"
)

// Config is the top-level static configuration.
// Maps to the `fastpath:` root key in YAML.
type Config struct {
	Capture CaptureConfig `mapstructure:"capture"`
	Routes  []RouteConfig `mapstructure:"routes"`
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
}

// ─── Capture / Attachment ───

// CaptureConfig configures the AF_PACKET attachment.
type CaptureConfig struct {
	Interface  string `mapstructure:"interface"`
	Workers    int    `mapstructure:"workers"`     // 0 = GOMAXPROCS
	SnapLen    int    `mapstructure:"snap_len"`    // capture length per frame
	BufferSize int    `mapstructure:"buffer_size"` // ring buffer bytes per worker
	TimeoutMS  int    `mapstructure:"timeout_ms"`  // poll timeout
	Filter     string `mapstructure:"filter"`      // optional BPF filter expression
	FanoutID   uint16 `mapstructure:"fanout_id"`   // PACKET_FANOUT group
}

// ─── Route Seeding ───

// RouteConfig is one static route entry loaded at startup. The same
// shape is accepted by the admin API at runtime.
type RouteConfig struct {
	DstIP       string `mapstructure:"dst_ip"`
	DstPort     uint16 `mapstructure:"dst_port"`
	Protocol    string `mapstructure:"protocol"`   // "tcp", "udp", or numeric
	PrefixLen   *uint8 `mapstructure:"prefix_len"` // nil = route.DefaultPrefixLen
	Action      string `mapstructure:"action"`     // pass | drop | reflect
	BackendIP   string `mapstructure:"backend_ip"`
	BackendPort uint16 `mapstructure:"backend_port"`
}

// ToEntry converts the config form into a table key/value pair.
func (rc RouteConfig) ToEntry() (route.Key, route.Value, error) {
	var key route.Key

	addr, err := netip.ParseAddr(rc.DstIP)
	if err != nil || !addr.Is4() {
		return key, route.Value{}, fmt.Errorf("route dst_ip %q: not an IPv4 address", rc.DstIP)
	}
	key.DstIP = addr.As4()
	key.DstPort = rc.DstPort

	proto, err := ParseProtocol(rc.Protocol)
	if err != nil {
		return key, route.Value{}, err
	}
	key.Protocol = proto

	if rc.PrefixLen != nil {
		key.PrefixLen = *rc.PrefixLen
	} else {
		key.PrefixLen = route.DefaultPrefixLen
	}

	action, err := route.ParseAction(rc.Action)
	if err != nil {
		return key, route.Value{}, err
	}
	val := route.Value{Action: action, BackendPort: rc.BackendPort}
	if rc.BackendIP != "" {
		baddr, err := netip.ParseAddr(rc.BackendIP)
		if err != nil || !baddr.Is4() {
			return key, val, fmt.Errorf("route backend_ip %q: not an IPv4 address", rc.BackendIP)
		}
		val.BackendIP = baddr.As4()
	}
	return key, val, nil
}

// ParseProtocol accepts "tcp", "udp", or a numeric protocol value.
// Empty defaults to TCP, the only protocol the fast path pursues.
func ParseProtocol(s string) (uint8, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tcp":
		return 6, nil
	case "udp":
		return 17, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown protocol: %q", s)
	}
	return uint8(n), nil
}

// ─── Admin API ───

// APIConfig configures the control-plane HTTP server.
type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
// Stdout is always included.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure
// `fastpath: ...`.
type configRoot struct {
	Fastpath Config `mapstructure:"fastpath"`
}

// Load loads configuration from file. The YAML file uses `fastpath:` as
// root key; env vars override via the key replacer (e.g. key
// "fastpath.log.level" → env "FASTPATH_LOG_LEVEL").
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Fastpath

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values. All keys use the "fastpath." prefix
// to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("fastpath.capture.snap_len", 65535)
	v.SetDefault("fastpath.capture.buffer_size", 8*1024*1024)
	v.SetDefault("fastpath.capture.timeout_ms", 100)
	v.SetDefault("fastpath.capture.fanout_id", 1)

	v.SetDefault("fastpath.api.enabled", true)
	v.SetDefault("fastpath.api.listen", "127.0.0.1:8081")

	v.SetDefault("fastpath.log.level", "info")
	v.SetDefault("fastpath.log.format", "text")
	v.SetDefault("fastpath.log.outputs.file.enabled", false)
	v.SetDefault("fastpath.log.outputs.file.path", "/var/log/fastpath/fastpath.log")
	v.SetDefault("fastpath.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("fastpath.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("fastpath.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("fastpath.log.outputs.file.rotation.compress", true)
}

// ValidateAndApplyDefaults checks cross-field constraints and fills
// derived defaults.
func (c *Config) ValidateAndApplyDefaults() error {
	if c.Capture.Interface == "" {
		return fmt.Errorf("%w: capture.interface is required", core.ErrConfigInvalid)
	}
	if c.Capture.Workers <= 0 {
		c.Capture.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Capture.SnapLen <= 0 {
		return fmt.Errorf("%w: capture.snap_len must be positive", core.ErrConfigInvalid)
	}

	for i, rc := range c.Routes {
		if _, _, err := rc.ToEntry(); err != nil {
			return fmt.Errorf("%w: routes[%d]: %v", core.ErrConfigInvalid, i, err)
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format must be json or text", core.ErrConfigInvalid)
	}
	return nil
}
