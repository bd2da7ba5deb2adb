// Package config holds settings for the htmlkeeper CLI.
//
// Values come from built-in defaults, then an optional JSON file:
//
//	{"server_url": "http://archive.internal:3000", "timeout": "30s"}
//
// Durations accept Go duration strings or integer nanoseconds (timex.Duration).
// Environment variables and command-line flags are applied on top by the
// cli package.
package config
