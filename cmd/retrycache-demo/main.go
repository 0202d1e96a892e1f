// Command retrycache-demo runs a flaky producer behind a retrycache.Cache
// and lets a number of concurrent callers wait on it.
//
//	retrycache-demo -fail-first 3 -min-interval 200ms -callers 10
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	retrycache "github.com/probablyarth/retrycache-go"
	zaplog "github.com/probablyarth/retrycache-go/log/zap"
	"github.com/probablyarth/retrycache-go/observer/async"
	slogobserver "github.com/probablyarth/retrycache-go/observer/slog"
)

var errUnavailable = errors.New("upstream unavailable")

type options struct {
	lazy        bool
	maxRetries  int
	minInterval time.Duration
	failFirst   int
	callers     int
	timeout     time.Duration
	debug       bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("retrycache-demo", flag.ContinueOnError)
	fs.BoolVar(&o.lazy, "lazy", false, "only fetch when a caller asks")
	fs.IntVar(&o.maxRetries, "max-retries", retrycache.UnlimitedRetries, "automatic retry ceiling, negative for none")
	fs.DurationVar(&o.minInterval, "min-interval", 100*time.Millisecond, "minimum spacing between producer invocations")
	fs.IntVar(&o.failFirst, "fail-first", 2, "number of producer calls that fail before it succeeds")
	fs.IntVar(&o.callers, "callers", 5, "number of concurrent callers")
	fs.DurationVar(&o.timeout, "timeout", 10*time.Second, "how long callers wait")
	fs.BoolVar(&o.debug, "debug", false, "log every cache event")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.callers <= 0 {
		return options{}, fmt.Errorf("-callers must be positive, got %d", o.callers)
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(o options) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	events := async.New(slogobserver.New(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		slogobserver.Options{},
	), 1, 256)
	defer events.Close()

	var calls atomic.Int32
	producer := func() (string, error) {
		n := calls.Add(1)
		logger.Info("producer called", zap.Int32("call", n))
		if int(n) <= o.failFirst {
			return "", errUnavailable
		}
		return fmt.Sprintf("value from call %d", n), nil
	}

	cache := retrycache.New(producer,
		retrycache.WithLazy(o.lazy),
		retrycache.WithMaxRetries(o.maxRetries),
		retrycache.WithMinRetryInterval(o.minInterval),
		retrycache.WithName("demo"),
		retrycache.WithLogger(zaplog.ZapLogger{L: logger}),
		retrycache.WithObserver(events),
	)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	results := make([]string, o.callers)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < o.callers; i++ {
		i := i
		g.Go(func() error {
			val, err := waitForSuccess(ctx, cache)
			if err != nil {
				return fmt.Errorf("caller %d: %w", i, err)
			}
			results[i] = val
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, val := range results {
		logger.Info("caller done", zap.Int("caller", i), zap.String("value", val))
	}
	logger.Info("producer invocations", zap.Int32("calls", calls.Load()))
	return nil
}

// waitForSuccess keeps asking the cache until an attempt succeeds or ctx
// ends. In lazy mode each retry is driven by this loop.
func waitForSuccess(ctx context.Context, cache *retrycache.Cache[string]) (string, error) {
	for {
		val, err := cache.Get().Wait(ctx)
		if err == nil {
			return val, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
	}
}
