// Package facts fetches optional one-sentence fun facts about revealed taxa
// from an OpenRouter-compatible chat completion endpoint. Failures are
// logged and swallowed; the quiz never waits past the configured timeout.
package facts
