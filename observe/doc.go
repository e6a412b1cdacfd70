// Package observe provides the telemetry backends for intercepted calls.
//
// It supplies leveled sinks (a JSON line logger and a zap adapter), one span
// per intercepted call, call counters and latency histograms, and the exporter
// setup behind them. The interceptors in logged, nullcheck and policy report
// through these backends.
package observe
