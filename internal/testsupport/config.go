package testsupport

import (
	"path/filepath"
	"testing"

	"trailquiz/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSessionShape overrides the question and sequence counts.
func WithSessionShape(questions, sequences int) ConfigOption {
	return func(c *config.Config) {
		c.Game.QuestionsPerSession = questions
		c.Game.SequencesPerQuestion = sequences
	}
}

// WithMinSpecificity overrides the sampler eligibility rank.
func WithMinSpecificity(rank string) ConfigOption {
	return func(c *config.Config) {
		c.Game.MinSpecificity = rank
	}
}
