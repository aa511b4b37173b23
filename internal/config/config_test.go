package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/fastpath/internal/route"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
fastpath:
  capture:
    interface: eth0
    workers: 4
    snap_len: 2048
    filter: "tcp"
  routes:
    - dst_ip: 10.0.0.1
      dst_port: 80
      action: drop
    - dst_ip: 10.0.0.2
      dst_port: 8080
      protocol: tcp
      prefix_len: 32
      action: reflect
      backend_ip: 192.168.1.1
      backend_port: 9090
  api:
    listen: "0.0.0.0:9000"
  log:
    level: debug
    format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Capture.Interface)
	assert.Equal(t, 4, cfg.Capture.Workers)
	assert.Equal(t, 2048, cfg.Capture.SnapLen)
	assert.Equal(t, "tcp", cfg.Capture.Filter)
	assert.Equal(t, "0.0.0.0:9000", cfg.API.Listen)
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.Len(t, cfg.Routes, 2)
	key, val, err := cfg.Routes[1].ToEntry()
	require.NoError(t, err)
	assert.Equal(t, uint8(32), key.PrefixLen)
	assert.Equal(t, route.ActionReflect, val.Action)
	assert.Equal(t, [4]byte{192, 168, 1, 1}, val.BackendIP)
	assert.Equal(t, uint16(9090), val.BackendPort)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
fastpath:
  capture:
    interface: eth0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 65535, cfg.Capture.SnapLen)
	assert.Equal(t, 8*1024*1024, cfg.Capture.BufferSize)
	assert.Equal(t, 100, cfg.Capture.TimeoutMS)
	assert.Equal(t, uint16(1), cfg.Capture.FanoutID)
	assert.Greater(t, cfg.Capture.Workers, 0, "workers defaults to GOMAXPROCS")
	assert.Equal(t, "127.0.0.1:8081", cfg.API.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Log.Outputs.File.Enabled)
}

func TestLoadMissingInterface(t *testing.T) {
	path := writeConfig(t, `
fastpath:
  log:
    level: info
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capture.interface")
}

func TestLoadBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
fastpath:
  capture:
    interface: eth0
  log:
    format: xml
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadBadRoute(t *testing.T) {
	path := writeConfig(t, `
fastpath:
  capture:
    interface: eth0
  routes:
    - dst_ip: not-an-ip
      action: drop
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routes[0]")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yml")
	require.Error(t, err)
}

func TestRouteConfigToEntry(t *testing.T) {
	t.Run("defaults prefix length", func(t *testing.T) {
		rc := RouteConfig{DstIP: "10.0.0.1", DstPort: 80, Action: "drop"}
		key, val, err := rc.ToEntry()
		require.NoError(t, err)
		assert.Equal(t, uint8(route.DefaultPrefixLen), key.PrefixLen)
		assert.Equal(t, [4]byte{10, 0, 0, 1}, key.DstIP)
		assert.Equal(t, uint8(6), key.Protocol, "protocol defaults to TCP")
		assert.Equal(t, route.ActionDrop, val.Action)
	})

	t.Run("rejects IPv6", func(t *testing.T) {
		rc := RouteConfig{DstIP: "::1", Action: "drop"}
		_, _, err := rc.ToEntry()
		require.Error(t, err)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		rc := RouteConfig{DstIP: "10.0.0.1", Action: "mirror"}
		_, _, err := rc.ToEntry()
		require.Error(t, err)
	})

	t.Run("rejects bad backend", func(t *testing.T) {
		rc := RouteConfig{DstIP: "10.0.0.1", Action: "reflect", BackendIP: "garbage"}
		_, _, err := rc.ToEntry()
		require.Error(t, err)
	})
}

func TestParseProtocol(t *testing.T) {
	cases := []struct {
		in      string
		want    uint8
		wantErr bool
	}{
		{"", 6, false},
		{"tcp", 6, false},
		{"TCP", 6, false},
		{"udp", 17, false},
		{"47", 47, false},
		{"icmp", 0, true},
		{"300", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseProtocol(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
		} else {
			assert.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}
