package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// leaderboardSize is the retained top-N bound.
const leaderboardSize = 10

// scoreTimeLayout pads fractional seconds to a fixed width. The trim and rank
// queries compare created_at strings, so lexical order has to match
// chronological order even for sub-second ties; RFC3339Nano drops trailing
// zeros and breaks that.
const scoreTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// OfferHighScore attempts to record a final score on the leaderboard. The
// offer is accepted when the table holds fewer than ten entries or the score
// beats the current tenth place. On accept the lowest entry beyond ten is
// evicted (ties broken by keeping the earlier timestamp) and the new entry's
// 1-based rank is returned.
//
// Callers must serialize offers; the quiz engine holds a mutex around this.
func (s *Store) OfferHighScore(ctx context.Context, playerName string, score int) (bool, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("begin score tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	var minScore sql.NullInt64
	row := tx.QueryRowContext(ctx, `SELECT COUNT(*), MIN(score) FROM high_scores`)
	if err := row.Scan(&count, &minScore); err != nil {
		return false, 0, fmt.Errorf("scan score summary: %w", err)
	}

	if count >= leaderboardSize && minScore.Valid && score <= int(minScore.Int64) {
		return false, 0, nil
	}

	now := time.Now().UTC().Format(scoreTimeLayout)
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO high_scores (player_name, score, created_at) VALUES (?, ?, ?)`,
		playerName,
		score,
		now,
	); err != nil {
		return false, 0, fmt.Errorf("insert high score: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM high_scores WHERE id NOT IN (
        SELECT id FROM high_scores ORDER BY score DESC, created_at ASC, id ASC LIMIT ?
    )`, leaderboardSize); err != nil {
		return false, 0, fmt.Errorf("trim leaderboard: %w", err)
	}

	var rank int
	row = tx.QueryRowContext(
		ctx,
		`SELECT COUNT(*) + 1 FROM high_scores WHERE score > ? OR (score = ? AND created_at < ?)`,
		score, score, now,
	)
	if err := row.Scan(&rank); err != nil {
		return false, 0, fmt.Errorf("compute rank: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit high score: %w", err)
	}
	return true, rank, nil
}

// TopScores returns the leaderboard ordered by score descending, earlier
// timestamps first on ties. limit <= 0 returns the full retained table.
func (s *Store) TopScores(ctx context.Context, limit int) ([]HighScoreEntry, error) {
	if limit <= 0 || limit > leaderboardSize {
		limit = leaderboardSize
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT player_name, score, created_at FROM high_scores
         ORDER BY score DESC, created_at ASC, id ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var entries []HighScoreEntry
	for rows.Next() {
		var (
			entry HighScoreEntry
			raw   string
		)
		if err := rows.Scan(&entry.PlayerName, &entry.Score, &raw); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			entry.CreatedAt = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
