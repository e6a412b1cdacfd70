// Package instrument assembles the call reporter, null-check validator and
// exit guard into one Runtime built from process configuration.
//
// A Runtime owns the statistics registry and the kill switch, so tests can
// build a fresh one for isolation. Call sites wrap themselves:
//
//	rt, err := instrument.New(ctx, cfg, instrument.WithRules(rules))
//	find = rt.Wrap(findSig, find)
//	defer rt.Shutdown(ctx)
package instrument
