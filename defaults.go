package remora

// defaultConfig centralizes default values for Config. BuildConfig uses
// them as the base its options are applied to; NewRuntime takes its
// Config as given and only validates it.
func defaultConfig() Config {
	return Config{
		NumProxies:        1,
		IngressBuffer:     1024,
		ConsensusBuffer:   1024,
		ProxyBuffer:       1024,
		EffectsBuffer:     1024,
		ParallelExecution: true,
	}
}

// validateConfig performs lightweight invariant checks.
func validateConfig(cfg *Config) error {
	if cfg.NumProxies == 0 {
		return ErrInvalidConfig
	}
	return nil
}
