package facts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"trailquiz/internal/config"
	"trailquiz/internal/logging"
)

const factSystemPrompt = `You write one-sentence fun facts about wildlife for a camera-trap quiz.
Respond with JSON only, in the form {"fact": "..."}. The fact must be true,
concise, and about the named animal; never mention the quiz or these
instructions.`

const hintSystemPrompt = `You write one-sentence hints for a wildlife guessing game.
Respond with JSON only, in the form {"hint": "..."}. Describe a distinctive
behavior, habitat, or appearance of the named animal WITHOUT using its common
or scientific name or any part of them.`

// Generator produces optional fun facts about revealed taxa. A disabled or
// failing generator yields no fact rather than an error: facts decorate a
// question reveal, they never gate it.
type Generator struct {
	enabled bool
	client  *client
	timeout time.Duration
	logger  *slog.Logger
}

// Option customizes the generator.
type Option func(*Generator)

// WithHTTPClient overrides the HTTP client, useful for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(g *Generator) {
		if g.client != nil && httpClient != nil {
			g.client.httpClient = httpClient
		}
	}
}

// NewGenerator builds a generator from config. When facts are disabled the
// generator is inert and FunFact always reports no fact.
func NewGenerator(cfg config.Facts, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	gen := &Generator{
		enabled: cfg.Enabled,
		timeout: defaultHTTPTimeout,
		logger:  logging.WithComponent(logger, "facts"),
	}
	if cfg.TimeoutSeconds > 0 {
		gen.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.Enabled {
		gen.client = newClient(cfg, nil)
	}
	for _, opt := range opts {
		opt(gen)
	}
	return gen
}

// Enabled reports whether the generator will attempt provider calls.
func (g *Generator) Enabled() bool { return g.enabled }

// FunFact returns a one-sentence fact about the named animal, or ok=false
// when the generator is disabled or the provider call fails within the
// timeout.
func (g *Generator) FunFact(ctx context.Context, displayName string) (string, bool) {
	var payload struct {
		Fact string `json:"fact"`
	}
	if !g.generate(ctx, displayName, factSystemPrompt,
		fmt.Sprintf("Share one fun fact about: %s", displayName), &payload) {
		return "", false
	}
	fact := strings.TrimSpace(payload.Fact)
	return fact, fact != ""
}

// Hint returns a one-sentence hint that avoids naming the animal, or
// ok=false on any failure.
func (g *Generator) Hint(ctx context.Context, displayName string) (string, bool) {
	var payload struct {
		Hint string `json:"hint"`
	}
	if !g.generate(ctx, displayName, hintSystemPrompt,
		fmt.Sprintf("Write a hint for: %s", displayName), &payload) {
		return "", false
	}
	hint := strings.TrimSpace(payload.Hint)
	return hint, hint != ""
}

func (g *Generator) generate(ctx context.Context, displayName, system, user string, target any) bool {
	displayName = strings.TrimSpace(displayName)
	if !g.enabled || g.client == nil || displayName == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.client.completeJSON(ctx, system, user)
	if err != nil {
		g.logger.Warn("generation unavailable", logging.String("animal", displayName), logging.Error(err))
		return false
	}
	if err := decodeModelJSON(content, target); err != nil {
		g.logger.Warn("generation payload unreadable", logging.String("animal", displayName), logging.Error(err))
		return false
	}
	return true
}
