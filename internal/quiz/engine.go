package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"trailquiz/internal/config"
	"trailquiz/internal/facts"
	"trailquiz/internal/game"
	"trailquiz/internal/ingest"
	"trailquiz/internal/logging"
	"trailquiz/internal/search"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
)

// Engine is the facade the presentation layer talks to. It owns the search
// index, the session registry, and the only serialized write path at play
// time, the leaderboard offer.
type Engine struct {
	cfg      *config.Config
	store    *store.Store
	sampler  *game.Sampler
	registry *game.Registry
	schedule game.Schedule
	facts    *facts.Generator
	logger   *slog.Logger

	indexMu sync.RWMutex
	index   *search.Index

	scoresMu sync.Mutex
}

// New builds an engine over an opened store. The search index is built
// immediately from whatever the store holds; an empty store yields an empty
// index until the first ingest.
func New(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	index, err := search.Build(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("build search index: %w", err)
	}
	return &Engine{
		cfg:      cfg,
		store:    st,
		sampler:  game.NewSampler(st),
		registry: game.NewRegistry(cfg.SessionTTL()),
		schedule: game.ScheduleFromConfig(cfg.Scoring),
		facts:    facts.NewGenerator(cfg.Facts, logger),
		logger:   logging.WithComponent(logger, "quiz"),
		index:    index,
	}, nil
}

// Ingest runs the two-pass pipeline over the CSV at path and rebuilds the
// search index from the updated taxa table.
func (e *Engine) Ingest(ctx context.Context, path string) (*ingest.Report, error) {
	report, err := ingest.New(e.store, e.cfg, e.logger).Run(ctx, path)
	if err != nil {
		return nil, err
	}
	index, err := search.Build(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("rebuild search index: %w", err)
	}
	e.indexMu.Lock()
	e.index = index
	e.indexMu.Unlock()
	return report, nil
}

// Search returns ranked taxon candidates for a partial query.
func (e *Engine) Search(query string, limit int) []search.Result {
	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	return e.index.Query(query, limit)
}

// StartSession samples a fresh question list and registers a new session,
// returning its id. Fails with game.ErrInsufficientTaxa when the store cannot
// fill the configured question count.
func (e *Engine) StartSession(ctx context.Context) (string, error) {
	specs, err := e.sampler.Pick(ctx,
		e.cfg.Game.QuestionsPerSession,
		e.cfg.Game.SequencesPerQuestion,
		taxonomy.Rank(e.cfg.Game.MinSpecificity))
	if err != nil {
		return "", err
	}
	session := e.registry.Add(specs)
	if err := session.Start(); err != nil {
		e.registry.Remove(session.ID())
		return "", err
	}
	e.logger.Info("session started",
		logging.String(logging.FieldSessionID, session.ID()),
		logging.Int("questions", session.Questions()))
	return session.ID(), nil
}

// QuestionImage is one frame shown to the player.
type QuestionImage struct {
	URL        string
	FrameIndex int
}

// QuestionSequence is one image burst of the current question.
type QuestionSequence struct {
	SequenceID int64
	Images     []QuestionImage
}

// Question is what the presentation layer renders for a turn. It never
// carries the target's name.
type Question struct {
	Index     int
	Total     int
	Sequences []QuestionSequence
}

// CurrentQuestion returns the active question's sequences with their frames
// in order, capped per sequence at the configured image limit.
func (e *Engine) CurrentQuestion(ctx context.Context, sessionID string) (*Question, error) {
	session, err := e.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	index, spec, err := session.Current()
	if err != nil {
		return nil, err
	}
	question := &Question{Index: index, Total: session.Questions()}
	for _, seqID := range spec.SequenceIDs {
		images, err := e.store.ImagesForSequence(ctx, seqID, e.cfg.Game.MaxImagesPerSequence)
		if err != nil {
			return nil, fmt.Errorf("load question images: %w", err)
		}
		qs := QuestionSequence{SequenceID: seqID}
		for _, img := range images {
			qs.Images = append(qs.Images, QuestionImage{
				URL:        img.URL(e.cfg.Game.ImageProvider),
				FrameIndex: img.FrameIndex,
			})
		}
		question.Sequences = append(question.Sequences, qs)
	}
	return question, nil
}

// GuessOutcome is the result of one scored guess.
type GuessOutcome struct {
	Points          int
	MatchedRank     taxonomy.Rank
	Explanation     string
	TargetName      string
	TargetContext   string
	CumulativeScore int
	IsLastQuestion  bool
	FunFact         string
}

// SubmitGuess resolves the guess text against the search index, scores it
// against the current target, and records the result. The question index does
// not advance; a failed submit leaves the cumulative score untouched.
func (e *Engine) SubmitGuess(ctx context.Context, sessionID, guessText string) (*GuessOutcome, error) {
	session, err := e.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	qIndex, spec, err := session.Current()
	if err != nil {
		return nil, err
	}
	target, err := e.store.TaxonByID(ctx, spec.TaxonID)
	if err != nil {
		return nil, fmt.Errorf("load target taxon: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("load target taxon: id %d missing", spec.TaxonID)
	}

	result := game.Unresolved()
	var resolvedID int64
	e.indexMu.RLock()
	candidate, ok := e.index.Resolve(guessText)
	e.indexMu.RUnlock()
	if ok {
		guess, err := e.store.TaxonByID(ctx, candidate.TaxonID)
		if err != nil {
			return nil, fmt.Errorf("load guessed taxon: %w", err)
		}
		if guess != nil {
			result = e.schedule.Score(target, guess)
			resolvedID = guess.ID
		}
	}

	total, err := session.RecordGuess(game.GuessRecord{
		Guess:           strings.TrimSpace(guessText),
		ResolvedTaxonID: resolvedID,
		Points:          result.Points,
		MatchedRank:     result.MatchedRank,
		Explanation:     result.Explanation,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("guess scored",
		logging.String(logging.FieldSessionID, sessionID),
		logging.Int(logging.FieldQuestion, qIndex+1),
		logging.Int("points", result.Points))

	outcome := &GuessOutcome{
		Points:          result.Points,
		MatchedRank:     result.MatchedRank,
		Explanation:     result.Explanation,
		TargetName:      target.DisplayName(),
		TargetContext:   taxonContext(target),
		CumulativeScore: total,
		IsLastQuestion:  qIndex == session.Questions()-1,
	}
	if fact, ok := e.facts.FunFact(ctx, target.DisplayName()); ok {
		outcome.FunFact = fact
	}
	return outcome, nil
}

// Hint returns a best-effort hint for the current question's target. Absent
// whenever the generator is disabled or slow.
func (e *Engine) Hint(ctx context.Context, sessionID string) (string, bool) {
	session, err := e.registry.Get(sessionID)
	if err != nil {
		return "", false
	}
	_, spec, err := session.Current()
	if err != nil {
		return "", false
	}
	target, err := e.store.TaxonByID(ctx, spec.TaxonID)
	if err != nil || target == nil {
		return "", false
	}
	return e.facts.Hint(ctx, target.DisplayName())
}

// Advance moves the session to its next question or completes it.
func (e *Engine) Advance(sessionID string) error {
	session, err := e.registry.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Advance()
}

// FinalReport is the completed session's summary.
type FinalReport struct {
	Total       int
	MaxPossible int
	Breakdown   []*game.GuessRecord
}

// FinalScore reports the completed session's total, the ceiling the schedule
// allowed, and the per-question breakdown (nil entries are forfeits).
func (e *Engine) FinalScore(sessionID string) (*FinalReport, error) {
	session, err := e.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	total, breakdown, err := session.FinalScore()
	if err != nil {
		return nil, err
	}
	return &FinalReport{
		Total:       total,
		MaxPossible: session.Questions() * e.schedule.Max(),
		Breakdown:   breakdown,
	}, nil
}

// OfferHighScore submits a finished score to the leaderboard. Offers are
// serialized here so interleaved sessions cannot overfill the table.
func (e *Engine) OfferHighScore(ctx context.Context, playerName string, score int) (bool, int, error) {
	e.scoresMu.Lock()
	defer e.scoresMu.Unlock()
	return e.store.OfferHighScore(ctx, playerName, score)
}

// TopScores returns the leaderboard, best first.
func (e *Engine) TopScores(ctx context.Context, limit int) ([]store.HighScoreEntry, error) {
	return e.store.TopScores(ctx, limit)
}

// taxonContext renders the coarse placement shown alongside a reveal, e.g.
// "class Mammalia, order Carnivora, family Ursidae".
func taxonContext(t *store.Taxon) string {
	parts := make([]string, 0, 3)
	for _, rank := range []taxonomy.Rank{taxonomy.RankClass, taxonomy.RankOrder, taxonomy.RankFamily} {
		if value := t.RankValue(rank); value != "" {
			parts = append(parts, string(rank)+" "+value)
		}
	}
	return strings.Join(parts, ", ")
}
