package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trailquiz/internal/taxonomy"
)

// taxonColumns lists the taxa columns in rank order. order_ dodges the SQL
// keyword, matching the rank name everywhere else.
const taxonColumns = "id, kingdom, phylum, subphylum, superclass, class, subclass, " +
	"infraclass, superorder, order_, suborder, infraorder, superfamily, family, " +
	"subfamily, tribe, genus, subgenus, species, subspecies, variety, " +
	"common_name, most_specific_rank, most_specific_name"

// InsertTaxa bulk-inserts taxa discovered by ingestion pass 1 in a single
// transaction and fills in the assigned ids. The table must be written before
// any sequence references it.
func (s *Store) InsertTaxa(ctx context.Context, taxa []*Taxon) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin taxa tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO taxa (
        kingdom, phylum, subphylum, superclass, class, subclass,
        infraclass, superorder, order_, suborder, infraorder,
        superfamily, family, subfamily, tribe, genus, subgenus,
        species, subspecies, variety, common_name,
        most_specific_rank, most_specific_name, rank_key
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare taxa insert: %w", err)
	}
	defer stmt.Close()

	for _, taxon := range taxa {
		args := make([]any, 0, taxonomy.NumRanks+4)
		for _, value := range taxon.Ranks {
			args = append(args, nullableString(value))
		}
		args = append(args,
			nullableString(taxon.CommonName),
			nullableString(string(taxon.MostSpecificRank)),
			nullableString(taxon.MostSpecificName),
			taxon.RankKey(),
		)
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("insert taxon: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		taxon.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit taxa: %w", err)
	}
	return nil
}

// TaxonByID fetches a taxon row. Returns nil when the id is unknown.
func (s *Store) TaxonByID(ctx context.Context, id int64) (*Taxon, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taxonColumns+` FROM taxa WHERE id = ?`, id)
	taxon, err := scanTaxon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get taxon: %w", err)
	}
	return taxon, nil
}

// AllTaxa returns every taxon row ordered by id. The search index consumes
// this once after ingestion.
func (s *Store) AllTaxa(ctx context.Context) ([]*Taxon, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taxonColumns+` FROM taxa ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list taxa: %w", err)
	}
	defer rows.Close()

	var taxa []*Taxon
	for rows.Next() {
		taxon, err := scanTaxon(rows)
		if err != nil {
			return nil, err
		}
		taxa = append(taxa, taxon)
	}
	return taxa, rows.Err()
}

// EligibleTaxonIDs returns the ids of taxa that have at least minSequences
// sequences and whose most-specific rank is one of the provided ranks.
func (s *Store) EligibleTaxonIDs(ctx context.Context, ranks []taxonomy.Rank, minSequences int) ([]int64, error) {
	if len(ranks) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ranks)+1)
	for _, r := range ranks {
		args = append(args, string(r))
	}
	args = append(args, minSequences)

	query := `SELECT t.id FROM taxa t
        JOIN sequences s ON s.taxon_id = t.id
        WHERE t.most_specific_rank IN (` + makePlaceholders(len(ranks)) + `)
        GROUP BY t.id
        HAVING COUNT(s.id) >= ?
        ORDER BY t.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("eligible taxa: %w", err)
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

func scanTaxon(scanner interface{ Scan(dest ...any) error }) (*Taxon, error) {
	var (
		id           int64
		rankValues   [taxonomy.NumRanks]sql.NullString
		commonName   sql.NullString
		specificRank sql.NullString
		specificName sql.NullString
	)

	dest := make([]any, 0, taxonomy.NumRanks+4)
	dest = append(dest, &id)
	for i := range rankValues {
		dest = append(dest, &rankValues[i])
	}
	dest = append(dest, &commonName, &specificRank, &specificName)

	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	taxon := &Taxon{
		ID:               id,
		CommonName:       commonName.String,
		MostSpecificRank: taxonomy.Rank(specificRank.String),
		MostSpecificName: specificName.String,
	}
	for i := range rankValues {
		taxon.Ranks[i] = rankValues[i].String
	}
	return taxon, nil
}
