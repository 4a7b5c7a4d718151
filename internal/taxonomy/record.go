package taxonomy

import (
	"strings"
	"time"
)

// nullTokens are the values flat exports use for absent data. Matched
// case-insensitively after trimming.
var nullTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
	"nan":  {},
}

// Clean trims a raw field and canonicalizes null-ish tokens to "".
func Clean(value string) string {
	trimmed := strings.TrimSpace(value)
	if _, ok := nullTokens[strings.ToLower(trimmed)]; ok {
		return ""
	}
	return trimmed
}

// CleanCommonName applies Clean plus the extra "empty" placeholder some
// exports use for missing common names.
func CleanCommonName(value string) string {
	cleaned := Clean(value)
	if strings.EqualFold(cleaned, "empty") {
		return ""
	}
	return cleaned
}

// Record is one normalized input row: the full rank tuple plus the sequence
// and image fields ingestion needs. All string fields have been through Clean.
type Record struct {
	Ranks      [NumRanks]string
	CommonName string

	SequenceKey string
	LocationID  string
	CapturedAt  string

	ImageKey   string
	FrameIndex int

	URLGCP   string
	URLAWS   string
	URLAzure string
}

// Wildlife reports whether the record carries any taxonomic signal. Rows with
// all twenty ranks empty are confirmed non-wildlife and are discarded, even
// when a common name is present.
func (r *Record) Wildlife() bool {
	_, _, ok := MostSpecific(r.Ranks)
	return ok
}

// Key returns the taxon identity key: the literal ordered 20-tuple joined with
// a separator that cannot occur in cleaned values. Order- and case-sensitive.
func (r *Record) Key() string {
	return strings.Join(r.Ranks[:], "\x1f")
}

// MostSpecific returns the finest populated rank and its value.
func (r *Record) MostSpecific() (Rank, string, bool) {
	return MostSpecific(r.Ranks)
}

// Timestamp parses the captured-at field when present. Returns the zero time
// for absent or unparseable values; ingestion stores the raw string either way.
func (r *Record) Timestamp() time.Time {
	if r.CapturedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.CapturedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
