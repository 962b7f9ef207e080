package config

// Overrides carries command-line settings layered over the project file.
// Zero values leave the file's values in place.
type Overrides struct {
	Name     string // replaces name when non-empty
	Workers  int    // replaces workers when > 0
	LogLevel string // replaces log_level when non-empty
	Seed     int64  // replaces the occlusion seed when SeedSet
	SeedSet  bool
}

func (o Overrides) apply(cfg *Config) {
	if o.Name != "" {
		cfg.Name = o.Name
	}
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.SeedSet {
		cfg.Occlusion.Seed = o.Seed
	}
}
