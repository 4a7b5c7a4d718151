package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Game.MinSpecificity = strings.ToLower(strings.TrimSpace(c.Game.MinSpecificity))
	c.Game.ImageProvider = strings.ToLower(strings.TrimSpace(c.Game.ImageProvider))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Facts.APIKey = strings.TrimSpace(c.Facts.APIKey)
	c.Facts.BaseURL = strings.TrimSpace(c.Facts.BaseURL)
	c.Facts.Model = strings.TrimSpace(c.Facts.Model)

	if c.Ingest.BatchGroups <= 0 {
		c.Ingest.BatchGroups = defaultBatchGroups
	}
	if c.Game.MaxImagesPerSequence <= 0 {
		c.Game.MaxImagesPerSequence = defaultMaxImagesPerSequence
	}
	if c.Game.MinSpecificity == "" {
		c.Game.MinSpecificity = defaultMinSpecificity
	}
	if c.Game.ImageProvider == "" {
		c.Game.ImageProvider = defaultImageProvider
	}

	normalized := make(map[string]int, len(c.Scoring.Points))
	for rank, points := range c.Scoring.Points {
		normalized[strings.ToLower(strings.TrimSpace(rank))] = points
	}
	c.Scoring.Points = normalized

	return nil
}
