package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"trailquiz/internal/taxonomy"
)

// errMalformedRow marks a row that cannot become a record. Malformed rows are
// counted and skipped, never fatal.
var errMalformedRow = errors.New("malformed row")

// columnMap resolves header names to field positions. Unknown columns are
// ignored so exports with extra metadata still ingest.
type columnMap struct {
	rank        [taxonomy.NumRanks]int
	commonName  int
	sequenceKey int
	locationID  int
	capturedAt  int
	imageKey    int
	frameIndex  int
	urlGCP      int
	urlAWS      int
	urlAzure    int
}

func newColumnMap(header []string) (*columnMap, error) {
	m := &columnMap{
		commonName:  -1,
		sequenceKey: -1,
		locationID:  -1,
		capturedAt:  -1,
		imageKey:    -1,
		frameIndex:  -1,
		urlGCP:      -1,
		urlAWS:      -1,
		urlAzure:    -1,
	}
	for i := range m.rank {
		m.rank[i] = -1
	}
	for pos, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if idx, ok := taxonomy.RankIndex(taxonomy.Rank(name)); ok {
			m.rank[idx] = pos
			continue
		}
		switch name {
		case "common_name":
			m.commonName = pos
		case "sequence_id":
			m.sequenceKey = pos
		case "location_id":
			m.locationID = pos
		case "datetime":
			m.capturedAt = pos
		case "image_id":
			m.imageKey = pos
		case "frame_num":
			m.frameIndex = pos
		case "url_gcp":
			m.urlGCP = pos
		case "url_aws":
			m.urlAWS = pos
		case "url_azure":
			m.urlAzure = pos
		}
	}
	if m.sequenceKey < 0 {
		return nil, errors.New("input header: sequence_id column missing")
	}
	hasRank := false
	for _, pos := range m.rank {
		if pos >= 0 {
			hasRank = true
			break
		}
	}
	if !hasRank {
		return nil, errors.New("input header: no taxonomic rank columns")
	}
	return m, nil
}

func (m *columnMap) field(fields []string, pos int) string {
	if pos < 0 || pos >= len(fields) {
		return ""
	}
	return fields[pos]
}

// record builds a normalized record from one CSV row.
func (m *columnMap) record(fields []string) (*taxonomy.Record, error) {
	rec := &taxonomy.Record{}
	for i, pos := range m.rank {
		rec.Ranks[i] = taxonomy.Clean(m.field(fields, pos))
	}
	rec.CommonName = taxonomy.CleanCommonName(m.field(fields, m.commonName))
	rec.SequenceKey = strings.TrimSpace(m.field(fields, m.sequenceKey))
	rec.LocationID = taxonomy.Clean(m.field(fields, m.locationID))
	rec.CapturedAt = taxonomy.Clean(m.field(fields, m.capturedAt))
	rec.ImageKey = strings.TrimSpace(m.field(fields, m.imageKey))
	rec.URLGCP = taxonomy.Clean(m.field(fields, m.urlGCP))
	rec.URLAWS = taxonomy.Clean(m.field(fields, m.urlAWS))
	rec.URLAzure = taxonomy.Clean(m.field(fields, m.urlAzure))

	if frame := taxonomy.Clean(m.field(fields, m.frameIndex)); frame != "" {
		n, err := strconv.Atoi(frame)
		if err != nil {
			return nil, fmt.Errorf("%w: frame index %q", errMalformedRow, frame)
		}
		rec.FrameIndex = n
	}
	// Every persisted image needs at least one locator. Rows without any are
	// unusable in a quiz, so they count as malformed rather than becoming
	// blank frames.
	if rec.Wildlife() && rec.URLGCP == "" && rec.URLAWS == "" && rec.URLAzure == "" {
		return nil, fmt.Errorf("%w: no image locator", errMalformedRow)
	}
	return rec, nil
}

// streamRecords reads the source CSV and sends one normalized record per
// usable row. Rows with the wrong field count or an unparseable frame index
// add to malformed and are dropped. The counter is owned by this goroutine
// until the stream ends.
func streamRecords(ctx context.Context, path string, out chan<- *taxonomy.Record, malformed *int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := newColumnMap(header)
	if err != nil {
		return err
	}

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				*malformed++
				continue
			}
			return fmt.Errorf("read row: %w", err)
		}
		rec, err := cols.record(fields)
		if err != nil {
			if errors.Is(err, errMalformedRow) {
				*malformed++
				continue
			}
			return err
		}
		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
