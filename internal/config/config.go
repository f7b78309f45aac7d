package config

// Config is the engine configuration, loaded from .rustyroad/refactor.yml
// with environment variable overrides.
type Config struct {
	// SourceRoot is the designated source root for target navigation.
	SourceRoot string `yaml:"source_root" mapstructure:"source_root"`

	// ModuleExtension is the module file extension without the dot.
	ModuleExtension string `yaml:"module_extension" mapstructure:"module_extension"`

	// ConventionMode enables convention annotations and suggestions.
	ConventionMode bool `yaml:"convention_mode" mapstructure:"convention_mode"`

	// Ignore holds extra glob patterns excluded from listings, on top of the
	// fixed structural exclusions.
	Ignore []string `yaml:"ignore" mapstructure:"ignore"`

	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
}

// AnalyzerConfig configures the native conversion analyzer.
type AnalyzerConfig struct {
	// Binary is an explicit path or a bare name resolved on PATH. Empty
	// selects the default binary name.
	Binary string `yaml:"binary" mapstructure:"binary"`

	// TimeoutSeconds bounds a single conversion check.
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Default returns a configuration with sensible defaults for a RustyRoad
// project.
func Default() *Config {
	return &Config{
		SourceRoot:      "src",
		ModuleExtension: "rs",
		ConventionMode:  true,
		Ignore:          []string{},
		Analyzer: AnalyzerConfig{
			Binary:         "",
			TimeoutSeconds: 10,
		},
	}
}
