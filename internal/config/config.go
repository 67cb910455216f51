// Package config handles server configuration loading and management.
package config

import "time"

// Config holds all server settings.
type Config struct {
	Planet  PlanetConfig  `yaml:"planet"`
	Terrain TerrainConfig `yaml:"terrain"`
	Network NetworkConfig `yaml:"network"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// PlanetConfig holds the world shape and seed.
type PlanetConfig struct {
	Seed        int64   `yaml:"seed"`
	Radius      float64 `yaml:"radius"`       // World units
	HeightScale float64 `yaml:"height_scale"` // Multiplier on height field samples
}

// TerrainConfig holds the LOD quadtree tuning.
type TerrainConfig struct {
	MaxLOD            int     `yaml:"max_lod"`
	GridSize          int     `yaml:"grid_size"` // Tile polygon width, must be even
	ChunkSize         float64 `yaml:"chunk_size"`
	LipDepth          float64 `yaml:"lip_depth"`
	SubdivisionBudget int     `yaml:"subdivision_budget"`
	SubdivisionFactor float64 `yaml:"subdivision_factor"`
	HysteresisFactor  float64 `yaml:"hysteresis_factor"`
	TickRate          int     `yaml:"tick_rate"` // Traversal ticks per second
}

// NetworkConfig holds the HTTP/websocket listener settings.
type NetworkConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxClients   int           `yaml:"max_clients"`
}

// CacheConfig holds the persistent tile cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Planet: PlanetConfig{
			Seed:        1,
			Radius:      6_000_000,
			HeightScale: 1,
		},
		Terrain: TerrainConfig{
			MaxLOD:            20,
			GridSize:          8,
			ChunkSize:         512,
			LipDepth:          0.05,
			SubdivisionBudget: 8,
			SubdivisionFactor: 3,
			HysteresisFactor:  1.2,
			TickRate:          30,
		},
		Network: NetworkConfig{
			Addr:         "localhost:8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			MaxClients:   64,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    "planetfall-tiles.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
