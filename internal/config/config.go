// Package config loads the options spec §6 recognizes from a YAML file,
// the way nishisan-dev-n-backup/internal/config/server.go loads its
// ServerConfig: a plain struct with yaml tags, unmarshalled with
// gopkg.in/yaml.v3, defaults applied for anything the file omits. Flags
// (bound in cmd/server/main.go) override the file; the file overrides the
// defaults below.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Vec3 is a position or look direction (spec §6 spawn_pos / spawn_look).
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Look is a yaw/pitch pair.
type Look struct {
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
}

// Announcement is a scheduled MOTD/broadcast entry: a cron expression
// paired with the chat message it fires (domain-stack wiring for
// robfig/cron/v3, SPEC_FULL.md's DOMAIN STACK section).
type Announcement struct {
	Cron    string `yaml:"cron"`
	Message string `yaml:"message"`
}

// Config holds every option spec §6 recognizes.
type Config struct {
	ServerIP          string         `yaml:"server_ip"`
	ServerPort        int            `yaml:"server_port"`
	MaxPlayers        int            `yaml:"max_players"`
	AllowFlight       bool           `yaml:"allow_flight"`
	ExcludedVersions  []int32        `yaml:"excluded_versions"`
	SpawnPos          Vec3           `yaml:"spawn_pos"`
	SpawnLook         Look           `yaml:"spawn_look"`
	MaxViewDistance   int            `yaml:"max_view_distance"`
	TracingLevel      string         `yaml:"tracing_level"`
	CompressionThresh int32          `yaml:"compression_threshold"`
	SchematicPath     string         `yaml:"schematic_path"`
	AdminListen       string         `yaml:"admin_listen"`
	Announcements     []Announcement `yaml:"announcements"`
	MOTD              string         `yaml:"motd"`
	DefaultGamemode   string         `yaml:"default_gamemode"`
}

// Default returns the built-in defaults every field falls back to when a
// YAML file is absent or omits a field.
func Default() Config {
	return Config{
		ServerIP:          "0.0.0.0",
		ServerPort:        30000,
		MaxPlayers:        20,
		AllowFlight:       false,
		MaxViewDistance:   7,
		TracingLevel:      "info",
		CompressionThresh: 256,
		SchematicPath:     "",
		AdminListen:       "",
		MOTD:              "A Minecraft Server",
		DefaultGamemode:   "survival",
	}
}

var (
	once sync.Once
	cfg  *Config
	err  error
)

// Load reads path (YAML), merging it onto Default(). Empty path just
// returns the defaults. This is the package-level "init exactly once"
// loader spec §9 calls out ("init_config(path) -> &'static Config"); Go
// has no global statics, so the equivalent here is a sync.Once-guarded
// singleton: every Load after the first returns the first call's result.
func Load(path string) (*Config, error) {
	once.Do(func() {
		c := Default()
		if path != "" {
			var data []byte
			data, err = os.ReadFile(path)
			if err != nil {
				err = fmt.Errorf("config: reading %s: %w", path, err)
				return
			}
			if uerr := yaml.Unmarshal(data, &c); uerr != nil {
				err = fmt.Errorf("config: parsing %s: %w", path, uerr)
				return
			}
		}
		cfg = &c
	})
	return cfg, err
}

// Excludes reports whether protocol is in ExcludedVersions.
func (c *Config) Excludes(protocol int32) bool {
	for _, p := range c.ExcludedVersions {
		if p == protocol {
			return true
		}
	}
	return false
}

// Address is the listen address in host:port form.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.ServerIP, c.ServerPort)
}
