// Package quiz is the facade over ingestion, search, sampling, scoring, and
// session state. The presentation layer calls it by session id and never
// touches the store or the registry directly.
package quiz
