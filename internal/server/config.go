package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete trainer configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains listener-level configuration.
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	DatabaseURL string `hcl:"database_url,optional"`
	StaticDir   string `hcl:"static_dir,optional"`
}

// GameSettings configures the table dealt to the hero.
type GameSettings struct {
	TableSize     int    `hcl:"table_size,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingStack int    `hcl:"starting_stack,optional"`
	Seed          int64  `hcl:"seed,optional"`
	HeroName      string `hcl:"hero_name,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			TableSize:     6,
			BigBlind:      100,
			StartingStack: 10000,
			HeroName:      "hero",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.TableSize == 0 {
		config.Game.TableSize = 6
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = 100
	}
	if config.Game.StartingStack == 0 {
		config.Game.StartingStack = 10000
	}
	if config.Game.HeroName == "" {
		config.Game.HeroName = "hero"
	}

	return &config, nil
}

// Validate checks the configuration for values the trainer cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.TableSize != 6 && c.Game.TableSize != 9 {
		return fmt.Errorf("invalid table size: %d (want 6 or 9)", c.Game.TableSize)
	}
	if c.Game.BigBlind <= 0 {
		return fmt.Errorf("big blind must be positive")
	}
	if c.Game.StartingStack < c.Game.BigBlind {
		return fmt.Errorf("starting stack %d cannot cover the big blind %d",
			c.Game.StartingStack, c.Game.BigBlind)
	}
	return nil
}

// ListenAddress returns the full listener address.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
