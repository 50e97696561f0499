// Package config assembles the application configuration from environment
// variables and an optional .env file.
//
// Defaults are declared declaratively via `default` struct tags on the
// partial config structs owned by each core package, and bound into Viper
// with reflection so AutomaticEnv picks every key up.
//
// Per-run reconciliation settings (column mappings, exclusion rules) are
// not part of this package: they travel as a JSON document supplied per
// request or per CLI invocation.
package config
