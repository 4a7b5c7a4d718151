package config

const (
	defaultDataDir              = "~/.local/share/trailquiz"
	defaultLogDir               = "~/.local/share/trailquiz/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultBatchGroups          = 5000
	defaultQuestionsPerSession  = 10
	defaultSequencesPerQuestion = 4
	defaultMaxImagesPerSequence = 10
	defaultMinSpecificity       = "family"
	defaultSessionTTLMinutes    = 30
	defaultImageProvider        = "gcp"
	defaultFactsBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultFactsModel           = "google/gemini-3-flash-preview"
	defaultFactsTimeoutSeconds  = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Ingest: Ingest{
			BatchGroups: defaultBatchGroups,
		},
		Game: Game{
			QuestionsPerSession:  defaultQuestionsPerSession,
			SequencesPerQuestion: defaultSequencesPerQuestion,
			MaxImagesPerSequence: defaultMaxImagesPerSequence,
			MinSpecificity:       defaultMinSpecificity,
			SessionTTL:           defaultSessionTTLMinutes,
			ImageProvider:        defaultImageProvider,
		},
		Scoring: Scoring{},
		Facts: Facts{
			Enabled:        false,
			BaseURL:        defaultFactsBaseURL,
			Model:          defaultFactsModel,
			TimeoutSeconds: defaultFactsTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
