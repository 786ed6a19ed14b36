package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"actsync/internal"
	"actsync/internal/metrics"
	"actsync/internal/syncer"
)

var ServeCommand = _serveCommand{
	Name:        "serve",
	Description: "Run scheduled ingest+sync cycles and expose /metrics",
}

type _serveCommand struct {
	Name        string
	Description string
}

func (c _serveCommand) Run(ctx context.Context, opts globalOptions, args []string) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}

	mux, err := e.newSourceMux(opts.Verbose)
	if err != nil {
		return err
	}

	out := flag.CommandLine.Output()
	ing := syncer.NewIngestor(out, mux, e.storage, e.rules)
	rec := syncer.New(out, e.storage)

	cycle := func() {
		started := time.Now()
		defer func() {
			metrics.CycleDuration.Observe(time.Since(started).Seconds())
		}()

		from := internal.Today().AddDate(0, 0, -e.cfg.WindowPastDays)
		to := internal.Today().AddDate(0, 0, e.cfg.WindowFutureDays)

		cals, err := e.calendars(ctx)
		if err != nil {
			internal.Logf(out, "serve:", "", "unable to resolve calendars: %v", err)
			return
		}

		res, err := ing.Ingest(ctx, cals, from, to)
		if err != nil {
			internal.Logf(out, "serve:", "", "ingest failed: %v", err)
			return
		}
		metrics.EventsIngested.WithLabelValues("added").Add(float64(res.Added))
		metrics.EventsIngested.WithLabelValues("updated").Add(float64(res.Updated))
		metrics.EventsIngested.WithLabelValues("skipped").Add(float64(res.Skipped))

		if e.cfg.RetentionDays > 0 {
			cutoff := internal.Today().AddDate(0, 0, -e.cfg.RetentionDays)
			if _, err := e.storage.PruneBefore(ctx, cutoff); err != nil {
				internal.Logf(out, "serve:", "", "prune failed: %v", err)
			}
		}

		dests, err := e.destinations(ctx, opts.Verbose, nil)
		if err != nil {
			internal.Logf(out, "serve:", "", "unable to build destinations: %v", err)
			return
		}

		results, err := rec.SyncAll(ctx, dests)
		if err != nil {
			internal.Logf(out, "serve:", "", "sync pass: %v", err)
		}
		for name, res := range results {
			for _, bucket := range res.Buckets {
				if bucket.Err != nil {
					metrics.EventsFailed.WithLabelValues(name, bucket.Role.String()).Add(float64(bucket.Count))
					continue
				}
				metrics.EventsSynced.WithLabelValues(name, bucket.Role.String()).Add(float64(bucket.Count))
			}
			if res.Failed == 0 {
				metrics.LastSuccess.WithLabelValues(name).SetToCurrentTime()
			}
		}
	}

	sched := cron.New()
	if _, err := sched.AddFunc(e.cfg.RefreshCron, cycle); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", e.cfg.RefreshCron, err)
	}
	sched.Start()
	defer sched.Stop()

	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", metrics.Handler())
	httpMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:    e.cfg.Listen,
		Handler: httpMux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	internal.Logf(out, "serve:", "", "listening on %s, refresh %q", e.cfg.Listen, e.cfg.RefreshCron)

	// Run one cycle immediately instead of waiting for the first tick.
	go cycle()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
