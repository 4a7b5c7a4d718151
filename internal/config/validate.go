package config

import (
	"errors"
	"fmt"

	"trailquiz/internal/taxonomy"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateGame(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateFacts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateGame() error {
	if c.Game.QuestionsPerSession <= 0 {
		return errors.New("game.questions_per_session must be positive")
	}
	if c.Game.SequencesPerQuestion <= 0 {
		return errors.New("game.sequences_per_question must be positive")
	}
	if _, ok := taxonomy.RankIndex(taxonomy.Rank(c.Game.MinSpecificity)); !ok {
		return fmt.Errorf("game.min_specificity: unknown rank %q", c.Game.MinSpecificity)
	}
	switch c.Game.ImageProvider {
	case "gcp", "aws", "azure":
	default:
		return fmt.Errorf("game.image_provider: unsupported value %q (want gcp, aws, or azure)", c.Game.ImageProvider)
	}
	if c.Game.SessionTTL < 0 {
		return errors.New("game.session_ttl_minutes must not be negative")
	}
	return nil
}

func (c *Config) validateScoring() error {
	for rank, points := range c.Scoring.Points {
		if _, ok := taxonomy.RankIndex(taxonomy.Rank(rank)); !ok {
			return fmt.Errorf("scoring.points: unknown rank %q", rank)
		}
		if points < 0 {
			return fmt.Errorf("scoring.points.%s must not be negative", rank)
		}
	}
	return nil
}

func (c *Config) validateFacts() error {
	if !c.Facts.Enabled {
		return nil
	}
	if c.Facts.APIKey == "" {
		return errors.New("facts.api_key must be set when facts.enabled is true")
	}
	if c.Facts.Model == "" {
		return errors.New("facts.model must be set when facts.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
