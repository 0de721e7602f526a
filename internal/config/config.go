// Package config defines the driver-level tuning surface the CLI exposes
// (spec §6, "CLI surface"): hole nesting, synthesis recursion depth, and
// trace verbosity. It is distinct from internal/ga.Config, which tunes the
// genetic search instead.
package config

import "github.com/kanso-lang/repairgo/internal/oracle"

// Config is the driver-level configuration a run is given, independent of
// which problem it repairs.
type Config struct {
	// Holes is the top-level hole nesting allowed when synthesizing fits
	// (oracle.Config.HoleLevel). Default 2.
	Holes int

	// Depth is C3's recursion depth bound. Default 1. The CLI rejects a
	// negative value, but neither the repair driver nor the GA search reads
	// it: the driver synthesizes sub-hole fills at depth 0.
	Depth int

	// Debug enables verbose trace logging.
	Debug bool
}

// Default returns the CLI's documented defaults.
func Default() Config {
	return Config{Holes: 2, Depth: 1, Debug: false}
}

// OracleConfig projects c down to the oracle.Config a Driver or
// Synthesizer call needs.
func (c Config) OracleConfig() oracle.Config {
	return oracle.Config{HoleLevel: c.Holes}
}
