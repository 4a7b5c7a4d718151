package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"trailquiz/internal/config"
	"trailquiz/internal/logging"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
)

// ErrIngestLocked reports another ingestion already holds the database lock.
var ErrIngestLocked = errors.New("another ingestion is already running")

// Report summarizes a completed ingestion.
type Report struct {
	Taxa      int64
	Sequences int64
	Images    int64
	Accepted  int64
	Skipped   int64
	Malformed int64
}

// Pipeline streams a camera-trap CSV export into the store in two passes:
// taxa first, then sequences and images. Memory stays bounded by the unique
// taxa count plus one pending group batch, never by total row count.
type Pipeline struct {
	store       *store.Store
	batchGroups int
	logger      *slog.Logger
}

// New builds an ingestion pipeline over st.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	batch := cfg.Ingest.BatchGroups
	if batch <= 0 {
		batch = 5000
	}
	return &Pipeline{
		store:       st,
		batchGroups: batch,
		logger:      logging.WithComponent(logger, "ingest"),
	}
}

// Run ingests the CSV file at path. The database lock file is held for the
// whole run; a second concurrent ingestion fails fast with ErrIngestLocked.
func (p *Pipeline) Run(ctx context.Context, path string) (*Report, error) {
	lock := flock.New(p.store.Path() + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !locked {
		return nil, ErrIngestLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("release ingest lock", logging.Error(err))
		}
	}()

	report := &Report{}

	p.logger.Info("collecting taxa", logging.String("input", path))
	taxonIDs, err := p.collectTaxa(ctx, path, report)
	if err != nil {
		return nil, err
	}
	p.logger.Info("taxa stored", logging.Int64(logging.FieldTaxa, report.Taxa))

	p.logger.Info("materializing sequences", logging.String("input", path))
	if err := p.materializeSequences(ctx, path, taxonIDs, report); err != nil {
		return nil, err
	}
	p.logger.Info("ingestion complete",
		logging.Int64(logging.FieldTaxa, report.Taxa),
		logging.Int64("sequences", report.Sequences),
		logging.Int64("images", report.Images),
		logging.Int64(logging.FieldRows, report.Accepted),
		logging.Int64("skipped", report.Skipped),
		logging.Int64("malformed", report.Malformed),
	)
	return report, nil
}

// collectTaxa is the first pass: dedup every wildlife row's rank tuple, insert
// the taxa in one transaction, and return the key-to-id map for pass two.
func (p *Pipeline) collectTaxa(ctx context.Context, path string, report *Report) (map[string]int64, error) {
	rows := make(chan *taxonomy.Record, 256)
	taxa := make(map[string]*store.Taxon)
	order := make([]string, 0, 64)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		return streamRecords(gctx, path, rows, &report.Malformed)
	})
	g.Go(func() error {
		for rec := range rows {
			if !rec.Wildlife() {
				report.Skipped++
				continue
			}
			report.Accepted++
			key := rec.Key()
			existing, ok := taxa[key]
			if !ok {
				taxon := &store.Taxon{Ranks: rec.Ranks, CommonName: rec.CommonName}
				if rank, name, ok := rec.MostSpecific(); ok {
					taxon.MostSpecificRank = rank
					taxon.MostSpecificName = name
				}
				taxa[key] = taxon
				order = append(order, key)
				continue
			}
			// First row with a common name wins for the taxon.
			if existing.CommonName == "" && rec.CommonName != "" {
				existing.CommonName = rec.CommonName
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("taxa pass: %w", err)
	}

	batch := make([]*store.Taxon, 0, len(order))
	for _, key := range order {
		batch = append(batch, taxa[key])
	}
	if err := p.store.InsertTaxa(ctx, batch); err != nil {
		return nil, fmt.Errorf("taxa pass: %w", err)
	}
	report.Taxa = int64(len(batch))

	ids := make(map[string]int64, len(batch))
	for _, taxon := range batch {
		ids[taxon.RankKey()] = taxon.ID
	}
	return ids, nil
}

// materializeSequences is the second pass: group rows by source sequence key,
// flush full batches, and split any group spanning multiple taxa into one
// sequence per taxon.
func (p *Pipeline) materializeSequences(ctx context.Context, path string, taxonIDs map[string]int64, report *Report) error {
	rows := make(chan *taxonomy.Record, 256)
	pending := make(map[string][]*taxonomy.Record, p.batchGroups)
	var malformedAgain int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		return streamRecords(gctx, path, rows, &malformedAgain)
	})
	g.Go(func() error {
		for rec := range rows {
			if !rec.Wildlife() || rec.SequenceKey == "" {
				continue
			}
			if _, buffered := pending[rec.SequenceKey]; !buffered && len(pending) >= p.batchGroups {
				if err := p.flushGroups(gctx, pending, taxonIDs, report); err != nil {
					return err
				}
				clear(pending)
			}
			pending[rec.SequenceKey] = append(pending[rec.SequenceKey], rec)
		}
		return p.flushGroups(gctx, pending, taxonIDs, report)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sequence pass: %w", err)
	}
	return nil
}

// flushGroups writes one batch of pending groups in a single transaction.
// INSERT OR IGNORE plus the (source key, taxon) uniqueness constraint stitches
// groups that span batch boundaries back onto their existing sequence row.
func (p *Pipeline) flushGroups(ctx context.Context, pending map[string][]*taxonomy.Record, taxonIDs map[string]int64, report *Report) error {
	if len(pending) == 0 {
		return nil
	}
	sequences, images, err := p.store.WriteSequences(ctx, func(w *store.SequenceWriter) error {
		for key, group := range pending {
			partitions := make(map[int64][]*taxonomy.Record)
			for _, rec := range group {
				taxonID, ok := taxonIDs[rec.Key()]
				if !ok {
					// Taxon never made it through pass one; nothing to attach.
					continue
				}
				partitions[taxonID] = append(partitions[taxonID], rec)
			}
			for taxonID, recs := range partitions {
				sort.SliceStable(recs, func(i, j int) bool { return recs[i].FrameIndex < recs[j].FrameIndex })
				first := recs[0]
				seq := &store.Sequence{
					SourceSequenceKey: key,
					TaxonID:           taxonID,
					LocationID:        first.LocationID,
					CapturedAt:        first.CapturedAt,
				}
				imgs := make([]*store.Image, 0, len(recs))
				for _, rec := range recs {
					imgs = append(imgs, &store.Image{
						SourceImageKey: rec.ImageKey,
						FrameIndex:     rec.FrameIndex,
						URLGCP:         rec.URLGCP,
						URLAWS:         rec.URLAWS,
						URLAzure:       rec.URLAzure,
					})
				}
				if err := w.AddSequence(seq, imgs); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	report.Sequences += sequences
	report.Images += images
	return nil
}
