// Package providers holds the LLM provider catalog and the estimation
// intelligence built on it: per-provider token and cost projections,
// ranked provider recommendations, and a calibration loop that learns
// each provider's real token ratio from reported actuals.
//
// The catalog ships with built-in entries and can be reshaped at runtime
// from a TOML overrides file; Watcher reloads the file on change so price
// updates do not need a restart. All types are safe for concurrent use.
//
// Token math here is deliberately separate from the optimizer engine's
// uniform estimate: this package models what a specific provider will
// bill, the engine only needs a stable before/after yardstick.
package providers
