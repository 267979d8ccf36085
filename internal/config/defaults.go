package config

const (
	defaultIPFSGateway        = "https://ipfs.io/ipfs/"
	defaultReferencesPath     = "~/.config/likeness/references.json"
	defaultThreshold          = 5
	defaultHashWidth          = 16
	defaultHashHeight         = 16
	defaultImageCacheDir      = "~/.local/share/likeness/cache/images"
	defaultLogDir             = "~/.local/share/likeness/logs"
	defaultHistoryDB          = "~/.local/share/likeness/history.db"
	defaultLockFile           = "~/.local/share/likeness/likeness.lock"
	defaultWorkers            = 4
	defaultIntervalSeconds    = 900
	defaultRequestTimeout     = 30
	defaultListRequestTimeout = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Registry: Registry{
			RequestTimeout: defaultRequestTimeout,
		},
		Metadata: Metadata{
			IPFSGateway:    defaultIPFSGateway,
			RequestTimeout: defaultRequestTimeout,
		},
		References: References{
			Path:       defaultReferencesPath,
			Threshold:  defaultThreshold,
			HashWidth:  defaultHashWidth,
			HashHeight: defaultHashHeight,
		},
		List: List{
			RequestTimeout: defaultListRequestTimeout,
		},
		Paths: Paths{
			ImageCacheDir: defaultImageCacheDir,
			LogDir:        defaultLogDir,
			HistoryDB:     defaultHistoryDB,
			LockFile:      defaultLockFile,
		},
		Runner: Runner{
			Workers:         defaultWorkers,
			IntervalSeconds: defaultIntervalSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
