package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagResolution = flag.Float64("resolution", 0, "Coincident vertex quantization steps per unit")
	flagTopology   = flag.String("topology", "", "Compiled topology: triangles or quads")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
	flagNoUV       = flag.Bool("no-uv", false, "Do not regenerate UVs")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagResolution > 0 {
		cfg.Mesh.Resolution = float32(*flagResolution)
	}
	if *flagTopology != "" {
		cfg.Mesh.Topology = *flagTopology
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagNoUV {
		cfg.Mesh.AutoUV = false
	}
}
