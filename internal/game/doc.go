// Package game holds the quiz mechanics: the point schedule and taxonomic
// proximity scoring, the question sampler, and the per-session state machine
// with its idle-evicting registry.
//
// Sessions are pure working state. They are created with their full question
// list fixed up front, mutate only through their own methods, and are dropped
// by the registry after the idle TTL; nothing here writes to the store.
package game
