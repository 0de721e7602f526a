package ga

// TournamentConfig selects champions by repeated random draw-and-keep-best
// (spec §4.7, "Tournament selection (detail)"). A nil *Config.Tournament
// means environmental selection with elitism instead.
type TournamentConfig struct {
	Size   int
	Rounds int
}

// IslandConfig splits the population into independent islands that
// periodically exchange individuals. A nil *Config.Island means a single
// population search.
type IslandConfig struct {
	Count             int
	MigrationInterval int
	MigrationSize     int
	Ringwise          bool
}

// Config is the Genetic Search Core's tuning surface, enumerated in spec
// §4.7.
type Config struct {
	MutationRate     float64 // default 0.2
	CrossoverRate    float64 // default 0.05
	DropRate         float64 // default 0.2
	Iterations       int     // >= 1
	PopulationSize   int     // >= 2, even
	TimeoutInMinutes float64
	StopOnResults    bool
	ReplaceWinners   bool
	TryMinimizeFixes bool

	Tournament *TournamentConfig
	Island     *IslandConfig
}

// DefaultConfig returns the defaults named in spec §4.7.
func DefaultConfig() Config {
	return Config{
		MutationRate:     0.2,
		CrossoverRate:    0.05,
		DropRate:         0.2,
		Iterations:       20,
		PopulationSize:   32,
		TimeoutInMinutes: 5,
		StopOnResults:    true,
		ReplaceWinners:   true,
	}
}
