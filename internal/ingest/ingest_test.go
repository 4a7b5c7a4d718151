package ingest_test

import (
	"context"
	"strings"
	"testing"

	"trailquiz/internal/ingest"
	"trailquiz/internal/logging"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
	"trailquiz/internal/testsupport"
)

const csvHeader = "kingdom,phylum,class,order,family,genus,species,common_name,sequence_id,location_id,datetime,image_id,frame_num,url_gcp,url_aws,url_azure"

func bearRow(sequence, image string, frame string) string {
	return strings.Join([]string{
		"Animalia", "Chordata", "Mammalia", "Carnivora", "Ursidae", "Ursus", "americanus",
		"American Black Bear", sequence, "loc-1", "2024-06-01 08:30:00", image, frame,
		"https://gcp.example/" + image + ".jpg", "", "",
	}, ",")
}

func foxRow(sequence, image string, frame string) string {
	return strings.Join([]string{
		"Animalia", "Chordata", "Mammalia", "Carnivora", "Canidae", "Vulpes", "vulpes",
		"Red Fox", sequence, "loc-2", "2024-06-02 21:10:00", image, frame,
		"", "https://aws.example/" + image + ".jpg", "",
	}, ",")
}

func emptyRow(sequence, image string) string {
	return strings.Join([]string{
		"", "NA", "n/a", "null", "none", "NaN", "",
		"Empty", sequence, "loc-3", "", image, "0",
		"", "", "",
	}, ",")
}

func runIngest(t *testing.T, st *store.Store, csv string) *ingest.Report {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	path := testsupport.WriteFile(t, "input.csv", csv)
	report, err := ingest.New(st, cfg, logging.NewNop()).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return report
}

func TestIngestDeduplicatesTaxa(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-1", "img-1", "1"),
		bearRow("seq-1", "img-2", "2"),
		bearRow("seq-2", "img-3", "1"),
		foxRow("seq-3", "img-4", "1"),
	}, "\n")

	report := runIngest(t, st, csv)
	if report.Taxa != 2 {
		t.Fatalf("expected 2 deduplicated taxa, got %d", report.Taxa)
	}
	if report.Sequences != 3 || report.Images != 4 {
		t.Fatalf("expected 3 sequences and 4 images, got %d and %d", report.Sequences, report.Images)
	}
	if report.Accepted != 4 || report.Skipped != 0 || report.Malformed != 0 {
		t.Fatalf("unexpected counters: %+v", report)
	}

	taxa, err := st.AllTaxa(context.Background())
	if err != nil {
		t.Fatalf("all taxa: %v", err)
	}
	if len(taxa) != 2 {
		t.Fatalf("expected 2 taxa rows, got %d", len(taxa))
	}
	for _, taxon := range taxa {
		if taxon.MostSpecificRank != taxonomy.RankSpecies {
			t.Fatalf("expected species-level taxon, got %s", taxon.MostSpecificRank)
		}
	}
}

func TestIngestSkipsNonWildlifeRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-1", "img-1", "1"),
		emptyRow("seq-2", "img-2"),
		emptyRow("seq-3", "img-3"),
	}, "\n")

	report := runIngest(t, st, csv)
	if report.Taxa != 1 {
		t.Fatalf("all-empty rank rows must not become taxa, got %d", report.Taxa)
	}
	if report.Skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", report.Skipped)
	}
	if report.Sequences != 1 {
		t.Fatalf("skipped rows must not produce sequences, got %d", report.Sequences)
	}
}

func TestIngestCountsMalformedRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-1", "img-1", "1"),
		"Animalia,Chordata,Mammalia", // wrong field count
		bearRow("seq-1", "img-2", "not-a-number"),
	}, "\n")

	report := runIngest(t, st, csv)
	if report.Malformed != 2 {
		t.Fatalf("expected 2 malformed rows, got %d", report.Malformed)
	}
	if report.Taxa != 1 || report.Images != 1 {
		t.Fatalf("malformed rows must not persist anything: %+v", report)
	}
}

func TestIngestRequiresImageLocator(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	noLocator := strings.Join([]string{
		"Animalia", "Chordata", "Mammalia", "Carnivora", "Ursidae", "Ursus", "americanus",
		"American Black Bear", "seq-1", "loc-1", "2024-06-01 08:30:00", "img-blank", "2",
		"", "", "",
	}, ",")
	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-1", "img-1", "1"),
		noLocator,
	}, "\n")

	report := runIngest(t, st, csv)
	if report.Malformed != 1 {
		t.Fatalf("row without any locator should count as malformed, got %d", report.Malformed)
	}
	if report.Images != 1 {
		t.Fatalf("row without any locator must not persist an image, got %d", report.Images)
	}

	taxa, err := st.AllTaxa(ctx)
	if err != nil {
		t.Fatalf("all taxa: %v", err)
	}
	for _, taxon := range taxa {
		seqIDs, err := st.SequenceIDsForTaxon(ctx, taxon.ID)
		if err != nil {
			t.Fatalf("sequences for taxon: %v", err)
		}
		for _, id := range seqIDs {
			images, err := st.ImagesForSequence(ctx, id, 10)
			if err != nil {
				t.Fatalf("images for sequence: %v", err)
			}
			for _, img := range images {
				for _, provider := range []string{"gcp", "aws", "azure"} {
					if img.URL(provider) == "" {
						t.Fatalf("persisted image %d has no locator for provider %s", img.ID, provider)
					}
				}
			}
		}
	}
}

func TestIngestSplitsMultiTaxonSequences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	// One raw grouping holding two taxa becomes two sequence rows, each
	// owning only its taxon's frames.
	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-shared", "img-1", "1"),
		foxRow("seq-shared", "img-2", "2"),
		bearRow("seq-shared", "img-3", "3"),
	}, "\n")

	report := runIngest(t, st, csv)
	if report.Sequences != 2 || report.Images != 3 {
		t.Fatalf("expected 2 sequences over 3 images, got %d and %d", report.Sequences, report.Images)
	}

	taxa, err := st.AllTaxa(ctx)
	if err != nil {
		t.Fatalf("all taxa: %v", err)
	}
	for _, taxon := range taxa {
		seqIDs, err := st.SequenceIDsForTaxon(ctx, taxon.ID)
		if err != nil {
			t.Fatalf("sequences for taxon: %v", err)
		}
		if len(seqIDs) != 1 {
			t.Fatalf("taxon %q should own one sequence, got %d", taxon.DisplayName(), len(seqIDs))
		}
		images, err := st.ImagesForSequence(ctx, seqIDs[0], 10)
		if err != nil {
			t.Fatalf("images for sequence: %v", err)
		}
		want := 2
		if taxon.RankValue(taxonomy.RankGenus) == "Vulpes" {
			want = 1
		}
		if len(images) != want {
			t.Fatalf("taxon %q should own %d images, got %d", taxon.DisplayName(), want, len(images))
		}
	}
}

func TestIngestOrdersFramesAndStitchesBatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Ingest.BatchGroups = 1
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	// seq-a's rows straddle the one-group batch boundary: seq-b forces a
	// flush between them, so the second flush must land on the existing row.
	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-a", "img-3", "3"),
		bearRow("seq-b", "img-9", "1"),
		bearRow("seq-a", "img-1", "1"),
		bearRow("seq-a", "img-2", "2"),
	}, "\n")

	path := testsupport.WriteFile(t, "input.csv", csv)
	report, err := ingest.New(st, cfg, logging.NewNop()).Run(ctx, path)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if report.Sequences != 2 {
		t.Fatalf("straddling group must not duplicate its sequence, got %d", report.Sequences)
	}
	if report.Images != 4 {
		t.Fatalf("expected 4 images, got %d", report.Images)
	}

	taxa, err := st.AllTaxa(ctx)
	if err != nil {
		t.Fatalf("all taxa: %v", err)
	}
	seqIDs, err := st.SequenceIDsForTaxon(ctx, taxa[0].ID)
	if err != nil {
		t.Fatalf("sequences for taxon: %v", err)
	}
	for _, id := range seqIDs {
		images, err := st.ImagesForSequence(ctx, id, 10)
		if err != nil {
			t.Fatalf("images for sequence: %v", err)
		}
		for i := 1; i < len(images); i++ {
			if images[i-1].FrameIndex > images[i].FrameIndex {
				t.Fatalf("frames out of order: %d before %d", images[i-1].FrameIndex, images[i].FrameIndex)
			}
		}
	}
}

func TestIngestIdempotentOnSameInput(t *testing.T) {
	csv := strings.Join([]string{
		csvHeader,
		bearRow("seq-1", "img-1", "1"),
		bearRow("seq-1", "img-2", "2"),
		foxRow("seq-2", "img-3", "1"),
	}, "\n")

	counts := func() store.Counts {
		cfg := testsupport.NewConfig(t)
		st := testsupport.MustOpenStore(t, cfg)
		runIngest(t, st, csv)
		c, err := st.Counts(context.Background())
		if err != nil {
			t.Fatalf("counts: %v", err)
		}
		return c
	}

	first := counts()
	second := counts()
	if first != second {
		t.Fatalf("same input must reproduce the same model: %+v vs %+v", first, second)
	}
	if first.Taxa != 2 || first.Sequences != 2 || first.Images != 3 {
		t.Fatalf("unexpected model shape: %+v", first)
	}
}

func TestIngestRejectsUnusableHeader(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	path := testsupport.WriteFile(t, "input.csv", "foo,bar\n1,2\n")
	if _, err := ingest.New(st, cfg, logging.NewNop()).Run(context.Background(), path); err == nil {
		t.Fatalf("header without sequence or rank columns must fail")
	}
}
