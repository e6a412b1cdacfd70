// Package health turns call statistics into health status.
//
// A StatsChecker marks the process degraded or unhealthy when the share of
// failed calls of any signature crosses a threshold. Evaluate combines
// checkers; Handler and StatsHandler expose the results over HTTP.
//
//	mux.Handle("/health", health.Handler(health.NewStatsChecker(reg, health.DefaultThresholds())))
//	mux.Handle("/stats", health.StatsHandler(reg))
package health
