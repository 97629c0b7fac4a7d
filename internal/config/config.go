package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg"
	"gopkg.in/yaml.v3"
)

// Default ports and identifiers for the two network profiles. The dev
// profile matches a local development chain; production matches the
// public chain defaults.
const (
	ProdElectrumPort = 50001
	DevElectrumPort  = 60001

	ProdRPCPort = 2377
	DevRPCPort  = 12381

	ProdNetworkID uint32 = 1
	DevNetworkID  uint32 = 1905960821

	// DefaultCoinRatio converts the node's display unit to tapyrus.
	DefaultCoinRatio = 1e8
)

// Config represents the full tool configuration.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Electrum ElectrumConfig `yaml:"electrum"`
	Node     NodeConfig     `yaml:"node"`
	Chart    ChartConfig    `yaml:"chart"`
	Chain    ChainConfig    `yaml:"chain"`
}

// NetworkConfig selects the network profile.
type NetworkConfig struct {
	Dev bool   `yaml:"dev"`
	ID  uint32 `yaml:"id"`
}

// ElectrumConfig points at the Electrum-style indexer.
type ElectrumConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// NodeConfig points at the node JSON-RPC endpoint. Authentication uses
// the cookie file the node drops under its data directory; CookieDir
// overrides the network-derived default.
type NodeConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	CookieDir string `yaml:"cookie_dir"`
}

// ChartConfig configures the local chart server.
type ChartConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ChainConfig carries chain-level constants.
type ChainConfig struct {
	CoinRatio float64 `yaml:"coin_ratio"`
}

// Load builds the configuration for the selected network profile,
// overlays an optional YAML file, then applies environment overrides.
// Command-line flags are expected to override on top of the result.
func Load(path string, dev bool) (*Config, error) {
	cfg := defaults(dev)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	cfg.Network.Dev = dev

	cfg.loadEnv()

	return cfg, nil
}

func defaults(dev bool) *Config {
	cfg := &Config{
		Network:  NetworkConfig{Dev: dev, ID: ProdNetworkID},
		Electrum: ElectrumConfig{Host: "localhost", Port: ProdElectrumPort},
		Node:     NodeConfig{Host: "localhost", Port: ProdRPCPort},
		Chart:    ChartConfig{ListenAddr: "127.0.0.1:8331"},
		Chain:    ChainConfig{CoinRatio: DefaultCoinRatio},
	}
	if dev {
		cfg.Network.ID = DevNetworkID
		cfg.Electrum.Port = DevElectrumPort
		cfg.Node.Port = DevRPCPort
	}
	return cfg
}

func (c *Config) loadEnv() {
	if host := os.Getenv("TAPYRUS_ELECTRUM_HOST"); host != "" {
		c.Electrum.Host = host
	}
	if port := os.Getenv("TAPYRUS_ELECTRUM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Electrum.Port = p
		}
	}
	if host := os.Getenv("TAPYRUS_RPC_HOST"); host != "" {
		c.Node.Host = host
	}
	if port := os.Getenv("TAPYRUS_RPC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Node.Port = p
		}
	}
	if id := os.Getenv("TAPYRUS_NETWORK_ID"); id != "" {
		if n, err := strconv.ParseUint(id, 10, 32); err == nil {
			c.Network.ID = uint32(n)
		}
	}
	if dir := os.Getenv("TAPYRUS_COOKIE_DIR"); dir != "" {
		c.Node.CookieDir = dir
	}
	if listen := os.Getenv("TAPYRUS_CHART_LISTEN"); listen != "" {
		c.Chart.ListenAddr = listen
	}
}

// ChainParams returns the address-encoding parameters for the selected
// network profile.
func (c *Config) ChainParams() *chaincfg.Params {
	if c.Network.Dev {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// ElectrumAddr returns the host:port of the indexer.
func (c *Config) ElectrumAddr() string {
	return net.JoinHostPort(c.Electrum.Host, strconv.Itoa(c.Electrum.Port))
}

// NodeAddr returns the host:port of the node RPC endpoint.
func (c *Config) NodeAddr() string {
	return net.JoinHostPort(c.Node.Host, strconv.Itoa(c.Node.Port))
}

// CookieDir resolves the directory holding the node's auth cookie:
// an explicit override if set, otherwise ~/.tapyrus/<prod|dev>-<id>.
func (c *Config) CookieDir() (string, error) {
	if c.Node.CookieDir != "" {
		return expandHome(c.Node.CookieDir)
	}
	prefix := "prod"
	if c.Network.Dev {
		prefix = "dev"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tapyrus", fmt.Sprintf("%s-%d", prefix, c.Network.ID)), nil
}

// CookiePath resolves the full path of the node's auth cookie file.
func (c *Config) CookiePath() (string, error) {
	dir, err := c.CookieDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".cookie"), nil
}

func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
