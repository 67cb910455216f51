package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagAddr   = flag.String("addr", "", "HTTP service address")
	flagSeed   = flag.Int64("seed", 0, "Planet seed (0 keeps the configured seed)")
	flagCache  = flag.String("cache", "", "Tile cache database path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAddr != "" {
		cfg.Network.Addr = *flagAddr
	}
	if *flagSeed != 0 {
		cfg.Planet.Seed = *flagSeed
	}
	if *flagCache != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.Path = *flagCache
	}
}
