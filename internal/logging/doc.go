// Package logging builds slog loggers for reel. The console format is a
// single-line human-oriented rendering; the json format is machine-readable
// and stable. Output always goes to stdout and, when a log directory is
// configured, to reel.log inside it.
package logging
