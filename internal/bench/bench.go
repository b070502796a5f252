// Package bench drives a server with paced set/get pairs and reports
// latency and correctness.
package bench

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nkootstra/kvwire/internal/protocol"
)

// Doer sends one command and returns its reply.
type Doer interface {
	Do(ctx context.Context, args ...string) (protocol.Value, error)
}

// Options controls a run.
type Options struct {
	// Requests is the number of set/get pairs.
	Requests int
	// Rate is the pair rate per second; zero or less means unpaced.
	Rate  float64
	Burst int
	// Keys bounds the key space; pair i uses key i mod Keys.
	Keys   int
	Prefix string
	Logger *zerolog.Logger
}

// Report summarizes a run.
type Report struct {
	Commands   int
	Errors     int
	Mismatches int
	Elapsed    time.Duration
	P50        time.Duration
	P90        time.Duration
	P99        time.Duration
	Max        time.Duration
}

// Throughput returns commands per second.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Commands) / r.Elapsed.Seconds()
}

func (r Report) String() string {
	return fmt.Sprintf(
		"commands=%d errors=%d mismatches=%d elapsed=%s rate=%.1f/s p50=%s p90=%s p99=%s max=%s",
		r.Commands, r.Errors, r.Mismatches, r.Elapsed.Round(time.Millisecond), r.Throughput(),
		r.P50, r.P90, r.P99, r.Max,
	)
}

// Run writes and reads back Requests keys through d. Server error replies
// and incomplete responses are counted; any other failure stops the run
// and is returned along with the partial report.
func Run(ctx context.Context, d Doer, opts Options) (Report, error) {
	if opts.Requests < 1 {
		return Report{}, fmt.Errorf("bench: requests must be at least 1")
	}
	keys := opts.Keys
	if keys < 1 {
		keys = opts.Requests
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "bench:"
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	var rep Report
	latencies := make([]time.Duration, 0, 2*opts.Requests)
	start := time.Now()

	exchange := func(args ...string) (protocol.Value, error) {
		t0 := time.Now()
		v, err := d.Do(ctx, args...)
		latencies = append(latencies, time.Since(t0))
		rep.Commands++
		if errors.Is(err, protocol.ErrIncompleteResponse) {
			rep.Errors++
			return v, nil
		}
		if err != nil {
			return nil, err
		}
		if _, ok := v.(protocol.Error); ok {
			rep.Errors++
		}
		return v, nil
	}

	var runErr error
	for i := 0; i < opts.Requests; i++ {
		if err := limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}
		key := prefix + strconv.Itoa(i%keys)
		value := strconv.Itoa(i)

		if _, err := exchange("set", key, value); err != nil {
			runErr = fmt.Errorf("set %s: %w", key, err)
			break
		}
		v, err := exchange("get", key)
		if err != nil {
			runErr = fmt.Errorf("get %s: %w", key, err)
			break
		}
		if got, ok := v.(protocol.Str); !ok || string(got) != value {
			rep.Mismatches++
			log.Debug().Str("key", key).Str("want", value).Str("got", fmt.Sprint(v)).Msg("mismatch")
		}
	}

	rep.Elapsed = time.Since(start)
	rep.P50, rep.P90, rep.P99, rep.Max = percentiles(latencies)
	log.Info().
		Int("commands", rep.Commands).
		Int("errors", rep.Errors).
		Int("mismatches", rep.Mismatches).
		Dur("elapsed", rep.Elapsed).
		Msg("bench finished")
	return rep, runErr
}

func percentiles(samples []time.Duration) (p50, p90, p99, peak time.Duration) {
	if len(samples) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	at := func(p float64) time.Duration {
		idx := int(p * float64(len(sorted)-1))
		return sorted[idx]
	}
	return at(0.50), at(0.90), at(0.99), sorted[len(sorted)-1]
}
