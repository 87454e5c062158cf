package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the master process settings. Sampling bounds and the plot
// threshold are fixed in package plot and cannot be configured.
type Config struct {
	APIAddr   string `yaml:"api_addr"`
	RPCAddr   string `yaml:"rpc_addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Width     int    `yaml:"width"`  // width of the rendered PNG
	Height    int    `yaml:"height"` // height of the rendered PNG
}

func Default() Config {
	return Config{
		APIAddr:   ":8080",
		RPCAddr:   ":3410",
		LogLevel:  "info",
		LogFormat: "text",
		Width:     800,
		Height:    500,
	}
}

// Load parses args (without the program name). Values come from the
// defaults, then the YAML file named by -config, then flags given
// explicitly on the command line.
func Load(args []string) (Config, error) {
	def := Default()
	fs := flag.NewFlagSet("master", flag.ContinueOnError)

	var path string
	var flags Config
	fs.StringVar(&path, "config", "", "YAML configuration file")
	fs.StringVar(&flags.APIAddr, "api", def.APIAddr, "HTTP API listen address")
	fs.StringVar(&flags.RPCAddr, "rpc", def.RPCAddr, "RPC listen address for workers")
	fs.StringVar(&flags.LogLevel, "log-level", def.LogLevel, "debug, info, warn or error")
	fs.StringVar(&flags.LogFormat, "log-format", def.LogFormat, "text or json")
	fs.IntVar(&flags.Width, "width", def.Width, "rendered plot width in pixels")
	fs.IntVar(&flags.Height, "height", def.Height, "rendered plot height in pixels")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := def
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api":
			cfg.APIAddr = flags.APIAddr
		case "rpc":
			cfg.RPCAddr = flags.RPCAddr
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "log-format":
			cfg.LogFormat = flags.LogFormat
		case "width":
			cfg.Width = flags.Width
		case "height":
			cfg.Height = flags.Height
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("api address is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %dx%d", c.Width, c.Height)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
