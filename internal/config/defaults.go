package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/seidoku/data/sections.db"
	}
	if cfg.Evidence.BaseURL == "" {
		cfg.Evidence.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Evidence.Model == "" {
		cfg.Evidence.Model = "sonar"
	}
	if cfg.Evidence.TimeoutSeconds == 0 {
		cfg.Evidence.TimeoutSeconds = 30
	}
	if cfg.Evidence.CacheTTLMinutes == 0 {
		cfg.Evidence.CacheTTLMinutes = 15
	}
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = "alloy"
	}
	if cfg.Speech.Model == "" {
		cfg.Speech.Model = "tts-1"
	}
	if cfg.Speech.MaxInputChars == 0 {
		cfg.Speech.MaxInputChars = 19000
	}
	if cfg.Speech.ChunkChars == 0 {
		cfg.Speech.ChunkChars = 1900
	}
	if cfg.Speech.CacheTTLMinutes == 0 {
		cfg.Speech.CacheTTLMinutes = 60
	}
	if cfg.Speech.TimeoutSeconds == 0 {
		cfg.Speech.TimeoutSeconds = 60
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 50
	}
}
