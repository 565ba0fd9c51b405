package config

const (
	defaultStateDir   = "~/.local/share/rankeval"
	defaultLogDir     = "~/.local/share/rankeval/logs"
	defaultNumReaders = 2
	defaultBatchSize  = 8192
	defaultTopK       = 20
	defaultModelName  = "logistic"
	defaultLogFormat  = "auto"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Input: Input{
			NumReaders: defaultNumReaders,
		},
		Eval: Eval{
			BatchSize: defaultBatchSize,
			TopK:      defaultTopK,
		},
		Model: Model{
			Name: defaultModelName,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
