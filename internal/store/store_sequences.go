package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SequenceWriter inserts sequence partitions and their images inside one
// transaction. Ingestion pass 2 opens one writer per flushed batch.
type SequenceWriter struct {
	ctx context.Context
	tx  *sql.Tx

	sequencesCreated int64
	imagesCreated    int64
}

// WriteSequences runs fn with a SequenceWriter bound to a single transaction
// and commits when fn succeeds. It returns the number of sequence and image
// rows actually created (duplicates across batches are ignored, not recounted).
func (s *Store) WriteSequences(ctx context.Context, fn func(*SequenceWriter) error) (int64, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin sequence tx: %w", err)
	}
	writer := &SequenceWriter{ctx: ctx, tx: tx}

	if err := fn(writer); err != nil {
		_ = tx.Rollback()
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit sequences: %w", err)
	}
	return writer.sequencesCreated, writer.imagesCreated, nil
}

// AddSequence persists one single-taxon sequence partition plus its images.
// A sequence that already exists (its raw group spanned two batches) is looked
// up instead of recreated; images are keyed on (sequence, frame) so replays
// are ignored.
func (w *SequenceWriter) AddSequence(seq *Sequence, images []*Image) error {
	res, err := w.tx.ExecContext(
		w.ctx,
		`INSERT OR IGNORE INTO sequences (source_sequence_key, taxon_id, location_id, captured_at)
         VALUES (?, ?, ?, ?)`,
		seq.SourceSequenceKey,
		seq.TaxonID,
		nullableString(seq.LocationID),
		nullableString(seq.CapturedAt),
	)
	if err != nil {
		return fmt.Errorf("insert sequence: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		seq.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		w.sequencesCreated++
	} else {
		row := w.tx.QueryRowContext(
			w.ctx,
			`SELECT id FROM sequences WHERE source_sequence_key = ? AND taxon_id = ?`,
			seq.SourceSequenceKey,
			seq.TaxonID,
		)
		if err := row.Scan(&seq.ID); err != nil {
			return fmt.Errorf("find existing sequence: %w", err)
		}
	}

	for _, img := range images {
		img.SequenceID = seq.ID
		res, err := w.tx.ExecContext(
			w.ctx,
			`INSERT OR IGNORE INTO images (source_image_key, sequence_id, frame_index, url_gcp, url_aws, url_azure)
             VALUES (?, ?, ?, ?, ?, ?)`,
			nullableString(img.SourceImageKey),
			img.SequenceID,
			img.FrameIndex,
			nullableString(img.URLGCP),
			nullableString(img.URLAWS),
			nullableString(img.URLAzure),
		)
		if err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		w.imagesCreated += affected
	}
	return nil
}

// SequenceIDsForTaxon returns all sequence ids depicting a taxon.
func (s *Store) SequenceIDsForTaxon(ctx context.Context, taxonID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id FROM sequences WHERE taxon_id = ? ORDER BY id`,
		taxonID,
	)
	if err != nil {
		return nil, fmt.Errorf("sequences for taxon: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SequenceByID fetches one sequence row. Returns nil when unknown.
func (s *Store) SequenceByID(ctx context.Context, id int64) (*Sequence, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, source_sequence_key, taxon_id, location_id, captured_at
         FROM sequences WHERE id = ?`,
		id,
	)
	var (
		seq        Sequence
		locationID sql.NullString
		capturedAt sql.NullString
	)
	err := row.Scan(&seq.ID, &seq.SourceSequenceKey, &seq.TaxonID, &locationID, &capturedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	seq.LocationID = locationID.String
	seq.CapturedAt = capturedAt.String
	return &seq, nil
}

// ImagesForSequence returns a sequence's images ordered by frame index,
// optionally capped at limit (limit <= 0 means all).
func (s *Store) ImagesForSequence(ctx context.Context, sequenceID int64, limit int) ([]*Image, error) {
	query := `SELECT id, source_image_key, sequence_id, frame_index, url_gcp, url_aws, url_azure
        FROM images WHERE sequence_id = ? ORDER BY frame_index`
	args := []any{sequenceID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("images for sequence: %w", err)
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		var (
			img      Image
			imageKey sql.NullString
			urlGCP   sql.NullString
			urlAWS   sql.NullString
			urlAzure sql.NullString
		)
		if err := rows.Scan(&img.ID, &imageKey, &img.SequenceID, &img.FrameIndex, &urlGCP, &urlAWS, &urlAzure); err != nil {
			return nil, err
		}
		img.SourceImageKey = imageKey.String
		img.URLGCP = urlGCP.String
		img.URLAWS = urlAWS.String
		img.URLAzure = urlAzure.String
		images = append(images, &img)
	}
	return images, rows.Err()
}
