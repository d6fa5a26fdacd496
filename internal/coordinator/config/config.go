package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
)

// Config holds coordinator configuration.
type Config struct {
	Server ServerConfig  `json:"server" yaml:"server"`
	App    AppConfig     `json:"app" yaml:"app"`
	Redis  RedisConfig   `json:"redis" yaml:"redis"`
	Gossip GossipConfig  `json:"gossip" yaml:"gossip"`
	Logger logger.Config `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`

	// HealthAddr is the gRPC health endpoint peers probe; gossip advertises
	// its port as this node's inter-node address.
	HealthAddr string `json:"health_addr" yaml:"health_addr"`
}

type AppConfig struct {
	NodeID            int64  `json:"node_id" yaml:"node_id"`
	VNodesPerNode     int    `json:"vnodes_per_node" yaml:"vnodes_per_node"`
	ReplicationFactor int    `json:"replication_factor" yaml:"replication_factor"`
	ShardCount        uint64 `json:"shard_count" yaml:"shard_count"`
	ReadConsistency   string `json:"read_consistency" yaml:"read_consistency"`   // e.g. "eventual", "quorum"
	WriteConsistency  string `json:"write_consistency" yaml:"write_consistency"` // e.g. "quorum", "strong"
	ParallelWrites    int    `json:"parallel_writes" yaml:"parallel_writes"`
	WriteTimeoutMS    int    `json:"write_timeout_ms" yaml:"write_timeout_ms"`
	IdempotencyTTLMS  int    `json:"idempotency_ttl_ms" yaml:"idempotency_ttl_ms"`

	// SeedAccounts are created with the given balances at startup so
	// transfer sagas have funded accounts to operate on.
	SeedAccounts map[string]int64 `json:"seed_accounts" yaml:"seed_accounts"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

type GossipConfig struct {
	BindAddr string   `json:"bind_addr" yaml:"bind_addr"`
	BindPort int      `json:"bind_port" yaml:"bind_port"`
	Seeds    []string `json:"seeds" yaml:"seeds"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8090",
			HealthAddr: ":9090",
		},
		App: AppConfig{
			NodeID:            1,
			VNodesPerNode:     256,
			ReplicationFactor: 3,
			ShardCount:        64,
			ReadConsistency:   "eventual",
			WriteConsistency:  "quorum",
			ParallelWrites:    4,
			WriteTimeoutMS:    5000,
			IdempotencyTTLMS:  15 * 60 * 1000, // must exceed the caller retry window
		},
		Redis: RedisConfig{},
		Gossip: GossipConfig{
			BindAddr: "0.0.0.0",
			BindPort: 7946,
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Load loads configuration from file, falling back to defaults when no path
// was given and the conventional file is absent.
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "coordinator", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		log.Printf("Config file not found or failed to parse, using defaults if file not specified. Path: %s, Error: %v", configPath, err)
		if path != "" {
			return nil, err
		}
		return cfg, nil
	}

	return parsedCfg, nil
}

// MustLoad loads configuration or exits on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
