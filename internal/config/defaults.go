package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			TickIntervalMillis:   3000,
			SpoofInitDelayMillis: 2000,
			TargetOriginChance:   0.2,
			DefaultTargetURL:     "https://en.wikipedia.org/wiki/Special:Random",
			DefaultVPNRegion:     "EU-Central",
			TrackerOrigins:       DefaultTrackerOrigins(),
		},
		Storage: StorageConfig{
			Backend:           "sqlite",
			Path:              "~/.config/snufulufugus",
			SQLiteFile:        "snufulufugus.db",
			SQLiteJournalMode: "wal",
			RedisAddr:         "127.0.0.1:6379",
			RedisDB:           0,
			RedisKeyPrefix:    "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   false,
		},
		Agent: AgentConfig{
			Provider:          "gemini",
			Endpoint:          "",
			APIKey:            "",
			GeminiModel:       "gemini-2.5-flash",
			GeminiBaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSeconds:    60,
			RequestsPerMinute: 30,
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8722,
			MaxRequestSize: 1048576,
		},
		Archive: ArchiveConfig{
			CrawlDelayMillis:    5000,
			AnalysisDelayMillis: 2500,
		},
	}
}
