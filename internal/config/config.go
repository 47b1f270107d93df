// Package config loads the immutable server configuration. Values come
// from an optional YAML file with CLI flags layered on top; the resulting
// Config is never mutated after Load.
package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	FilePath      string        `yaml:"linuxpath"`
	RereadOnQuery bool          `yaml:"reread_on_query"`
	SSLEnabled    bool          `yaml:"ssl_enabled"`
	CertPath      string        `yaml:"cert_path"`
	KeyPath       string        `yaml:"key_path"`
	MaxQueryBytes int           `yaml:"max_query_bytes"`
	MaxConns      int           `yaml:"max_conns"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	MetricsAddr   string        `yaml:"metrics_addr"`
	AdminAddr     string        `yaml:"admin_addr"`
	Verbose       bool          `yaml:"verbose"`
}

func Default() *Config {
	return &Config{
		Host:          "localhost",
		Port:          43223,
		MaxQueryBytes: 1024,
		MaxConns:      256,
		ShutdownGrace: 5 * time.Second,
		MetricsAddr:   ":9090",
		AdminAddr:     ":9091",
	}
}

// Load reads the process configuration: defaults, then the YAML file named
// by -config (if any), then explicitly set flags.
func Load() (*Config, error) {
	return load(flag.CommandLine, os.Args[1:])
}

func load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	var configFile string
	fs.StringVar(&configFile, "config", "", "Path to YAML config file")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Address to bind")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port to bind")
	fs.StringVar(&cfg.FilePath, "file", cfg.FilePath, "Path to the search file")
	fs.BoolVar(&cfg.RereadOnQuery, "reread", cfg.RereadOnQuery, "Re-read the search file on every query")
	fs.BoolVar(&cfg.SSLEnabled, "ssl", cfg.SSLEnabled, "Enable TLS")
	fs.StringVar(&cfg.CertPath, "cert", cfg.CertPath, "TLS certificate path")
	fs.StringVar(&cfg.KeyPath, "key", cfg.KeyPath, "TLS private key path")
	fs.IntVar(&cfg.MaxQueryBytes, "max-query", cfg.MaxQueryBytes, "Maximum query length in bytes")
	fs.IntVar(&cfg.MaxConns, "max-conns", cfg.MaxConns, "Maximum concurrent connections")
	fs.DurationVar(&cfg.ShutdownGrace, "grace", cfg.ShutdownGrace, "Shutdown grace period")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Metrics HTTP server address")
	fs.StringVar(&cfg.AdminAddr, "admin", cfg.AdminAddr, "Admin HTTP server address")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configFile != "" {
		fileCfg, err := FromFile(configFile)
		if err != nil {
			return nil, err
		}
		// Flags set on the command line win over the file.
		merged := fileCfg
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "host":
				merged.Host = cfg.Host
			case "port":
				merged.Port = cfg.Port
			case "file":
				merged.FilePath = cfg.FilePath
			case "reread":
				merged.RereadOnQuery = cfg.RereadOnQuery
			case "ssl":
				merged.SSLEnabled = cfg.SSLEnabled
			case "cert":
				merged.CertPath = cfg.CertPath
			case "key":
				merged.KeyPath = cfg.KeyPath
			case "max-query":
				merged.MaxQueryBytes = cfg.MaxQueryBytes
			case "max-conns":
				merged.MaxConns = cfg.MaxConns
			case "grace":
				merged.ShutdownGrace = cfg.ShutdownGrace
			case "metrics":
				merged.MetricsAddr = cfg.MetricsAddr
			case "admin":
				merged.AdminAddr = cfg.AdminAddr
			case "verbose":
				merged.Verbose = cfg.Verbose
			}
		})
		cfg = merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile loads a YAML config file over the defaults.
func FromFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("search file path is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxQueryBytes <= 0 {
		return fmt.Errorf("max query bytes must be positive, got %d", c.MaxQueryBytes)
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max conns must be positive, got %d", c.MaxConns)
	}
	if c.SSLEnabled {
		if c.CertPath == "" || c.KeyPath == "" {
			return fmt.Errorf("ssl enabled but certificate or key path missing")
		}
	}
	return nil
}

// Addr is the host:port the server binds.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
