/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml"
)

var config = DefaultConfig()

// RouteConfig is a static route installed at startup.
type RouteConfig struct {
	// Name prefix, e.g. ccnx:/example
	Prefix string `toml:"prefix" yaml:"prefix"`
	// Remote URI of the nexthop connection (created on startup)
	URI string `toml:"uri" yaml:"uri"`
	// Route cost
	Cost uint16 `toml:"cost" yaml:"cost"`
}

// Config represents the configuration of the forwarder.
type Config struct {
	Core struct {
		// Logging level
		LogLevel string `toml:"log_level" yaml:"log_level"`
		// Output log to file
		LogFile string `toml:"log_file" yaml:"log_file"`

		// Config file base dir
		BaseDir string `toml:"-" yaml:"-"`
		// Enable CPU profiling
		CpuProfile string `toml:"-" yaml:"-"`
		// Enable memory profiling
		MemProfile string `toml:"-" yaml:"-"`
		// Enable block profiling
		BlockProfile string `toml:"-" yaml:"-"`
	} `toml:"core" yaml:"core"`

	Faces struct {
		// Size of the send queue of each connection
		QueueSize int `toml:"queue_size" yaml:"queue_size"`
		// Largest packet accepted on stream and datagram connections
		MaxPacketSize int `toml:"max_packet_size" yaml:"max_packet_size"`
		// Number of receive buffers pre-allocated per stream connection
		PoolSize int `toml:"pool_size" yaml:"pool_size"`
		// Listener URIs to open at startup
		Listeners []string `toml:"listeners" yaml:"listeners"`

		Udp struct {
			// Maximum number of tracked UDP peers per listener
			MaxPeers int `toml:"max_peers" yaml:"max_peers"`
		} `toml:"udp" yaml:"udp"`

		Ethernet struct {
			// Destination MAC address of frames sent on Ethernet connections
			GroupAddress string `toml:"group_address" yaml:"group_address"`
		} `toml:"ethernet" yaml:"ethernet"`

		WebSocket struct {
			// Allowed Origin header values; empty allows all
			AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
		} `toml:"websocket" yaml:"websocket"`
	} `toml:"faces" yaml:"faces"`

	Fw struct {
		// Size of the incoming packet queue of the forwarding thread
		QueueSize int `toml:"queue_size" yaml:"queue_size"`
		// Interval of the expiry sweep (milliseconds)
		TickIntervalMs int `toml:"tick_interval_ms" yaml:"tick_interval_ms"`
		// Strategy used by newly created FIB entries
		DefaultStrategy string `toml:"default_strategy" yaml:"default_strategy"`
	} `toml:"fw" yaml:"fw"`

	Mgmt struct {
		// Whether management commands are accepted from non-local connections
		AllowRemote bool `toml:"allow_remote" yaml:"allow_remote"`
	} `toml:"mgmt" yaml:"mgmt"`

	Tables struct {
		ContentStore struct {
			// Capacity of the content store (in number of Content Objects)
			Capacity int `toml:"capacity" yaml:"capacity"`
			// Whether contents will be admitted to the Content Store.
			Admit bool `toml:"admit" yaml:"admit"`
			// Whether contents will be served from the Content Store.
			Serve bool `toml:"serve" yaml:"serve"`
		} `toml:"content_store" yaml:"content_store"`

		Pit struct {
			// Lifetime of Interests that do not carry one (milliseconds)
			DefaultLifetimeMs int `toml:"default_lifetime_ms" yaml:"default_lifetime_ms"`
			// Upper bound of any Interest lifetime (milliseconds)
			MaxLifetimeMs int `toml:"max_lifetime_ms" yaml:"max_lifetime_ms"`
			// An aggregated Interest is forwarded again if it extends the
			// pending entry by more than this amount (milliseconds)
			LifetimeExtensionThresholdMs int `toml:"lifetime_extension_threshold_ms" yaml:"lifetime_extension_threshold_ms"`
		} `toml:"pit" yaml:"pit"`

		Fib struct {
			// Remove FIB entries left without nexthops when a connection goes away
			PruneEmpty bool `toml:"prune_empty" yaml:"prune_empty"`
			// Static routes
			Routes []RouteConfig `toml:"routes" yaml:"routes"`
		} `toml:"fib" yaml:"fib"`
	} `toml:"tables" yaml:"tables"`
}

// DefaultConfig returns the configuration used when no value is given in the configuration file.
func DefaultConfig() *Config {
	c := &Config{}
	c.Core.LogLevel = "INFO"

	c.Faces.QueueSize = 1024
	c.Faces.MaxPacketSize = 8800
	c.Faces.PoolSize = 64
	c.Faces.Listeners = []string{"tcp://0.0.0.0:9695", "udp://0.0.0.0:9695", "unix:///tmp/ccnfwd.sock"}
	c.Faces.Udp.MaxPeers = 1024
	c.Faces.Ethernet.GroupAddress = "01:00:5e:00:17:aa"

	c.Fw.QueueSize = 1024
	c.Fw.TickIntervalMs = 100
	c.Fw.DefaultStrategy = "all"

	c.Tables.ContentStore.Capacity = 65536
	c.Tables.ContentStore.Admit = true
	c.Tables.ContentStore.Serve = true

	c.Tables.Pit.DefaultLifetimeMs = 4000
	c.Tables.Pit.MaxLifetimeMs = 60000
	c.Tables.Pit.LifetimeExtensionThresholdMs = 1000
	return c
}

// GetConfig returns the active configuration.
func GetConfig() *Config {
	return config
}

// SetConfig replaces the active configuration.
func SetConfig(c *Config) {
	config = c
}

// LoadConfig loads the configuration from the specified file on top of the defaults.
// Files ending in .yml or .yaml are parsed as YAML, everything else as TOML.
func LoadConfig(file string) (*Config, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}
	c, err := ParseConfig(raw, strings.ToLower(filepath.Ext(file)))
	if err != nil {
		return nil, err
	}
	c.Core.BaseDir = filepath.Dir(file)
	return c, nil
}

// ParseConfig decodes a configuration in the format named by ext (".toml", ".yaml" or ".yml").
func ParseConfig(raw []byte, ext string) (*Config, error) {
	c := DefaultConfig()
	switch ext {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(raw), yaml.Strict())
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
		}
	default:
		if err := toml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
		}
	}
	return c, nil
}

// ResolveRelPath resolves a possibly relative path based on config file path.
func (c *Config) ResolveRelPath(target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(c.Core.BaseDir, target)
}
