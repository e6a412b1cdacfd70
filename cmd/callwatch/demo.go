package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/health"
	"github.com/jonwraymond/callwatch/instrument"
	"github.com/jonwraymond/callwatch/logged"
	"github.com/jonwraymond/callwatch/nullcheck"
)

var (
	lookupSig  = callsite.NewMethod("demo.Inventory", "Lookup", "int", "string")
	reserveSig = callsite.NewMethod("demo.Inventory", "Reserve", callsite.Void, "string", "int")
)

var errUnknownSKU = errors.New("unknown sku")

// inventory is the instrumented demo workload.
type inventory struct {
	mu    sync.Mutex
	stock map[string]int
}

func (inv *inventory) lookup(_ context.Context, args []any) (any, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	n, ok := inv.stock[args[0].(string)]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errUnknownSKU, args[0])
	}
	return n, nil
}

func (inv *inventory) reserve(_ context.Context, args []any) (any, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	sku := args[0].(string)
	inv.stock[sku] -= args[1].(int)
	return nil, nil
}

type demoOptions struct {
	calls   int
	workers int
	serve   string
}

func newDemoCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	demo := demoOptions{calls: 20, workers: 4}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an instrumented workload and print its call statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			cfg.Defaults.Statistics = true

			rt, err := instrument.New(cmd.Context(), cfg, instrument.WithRules(nullcheck.StaticRules{
				reserveSig: nullcheck.Params(0),
			}))
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Shutdown(context.Background()); err != nil {
					logger.Warn("shutdown failed", zap.Error(err))
				}
			}()

			failures := runDemo(cmd.Context(), rt, demo)
			logger.Info("demo finished", zap.Int("calls", demo.calls), zap.Int("failures", failures))

			out, err := rt.Guard().Stdout(cmd.Context())
			if err != nil {
				return err
			}
			if err := printStats(out, rt.Stats()); err != nil {
				return err
			}
			status, _ := health.Evaluate(cmd.Context(), rt.Checkers()...)
			if _, err := fmt.Fprintf(out, "health: %s\n", status); err != nil {
				return err
			}

			if demo.serve == "" {
				return nil
			}
			return serveHealth(cmd.Context(), logger, rt, demo.serve)
		},
	}

	cmd.Flags().IntVar(&demo.calls, "calls", demo.calls, "number of calls per worker")
	cmd.Flags().IntVar(&demo.workers, "workers", demo.workers, "number of concurrent workers")
	cmd.Flags().StringVar(&demo.serve, "serve", "", "after the run, serve /health and /stats on this address until interrupted")
	return cmd
}

// runDemo drives the workload and returns the number of failed calls.
func runDemo(ctx context.Context, rt *instrument.Runtime, opts demoOptions) int {
	inv := &inventory{stock: map[string]int{"apple": 100, "pear": 50}}
	lookup := rt.Wrap(lookupSig, inv.lookup)
	reserve := rt.Wrap(reserveSig, inv.reserve)
	skus := []any{"apple", "pear", "plum", nil}

	var (
		mu       sync.Mutex
		failures int
		wg       sync.WaitGroup
	)
	for w := 0; w < opts.workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < opts.calls; i++ {
				sku := skus[(w+i)%len(skus)]
				var err error
				if sku == nil {
					_, err = reserve(ctx, []any{sku, 1})
				} else {
					_, err = lookup(ctx, []any{sku})
				}
				if err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()
	return failures
}

func printStats(w io.Writer, stats map[callsite.Signature]logged.StatsSnapshot) error {
	sigs := make([]callsite.Signature, 0, len(stats))
	for sig := range stats {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].String() < sigs[j].String() })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIGNATURE\tSUCCESSES\tEXCEPTIONS\tAVG MS")
	for _, sig := range sigs {
		s := stats[sig]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\n", sig, s.Successes, s.Exceptions, s.AverageMillis)
	}
	return tw.Flush()
}

// serveHealth serves the runtime's health and statistics until ctx is done.
func serveHealth(ctx context.Context, logger *zap.Logger, rt *instrument.Runtime, addr string) error {
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, rt.Reporter().Stats(), rt.Checkers()...)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving health", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown health server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
