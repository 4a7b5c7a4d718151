// Command trailquiz ingests camera-trap CSV exports and plays a wildlife
// identification quiz over the resulting database.
package main
