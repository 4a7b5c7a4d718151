// Package testsupport provides shared helpers for package tests: temp-backed
// configs, store fixtures, and CSV inputs shaped like the production export.
package testsupport
