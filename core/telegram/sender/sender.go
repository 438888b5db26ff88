// Package sender runs outbound Telegram API calls on a bounded worker pool.
//
// Calls are attempted once: a failed call is classified, logged with the bot
// token redacted and counted, never retried.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/m3rciful/reportbot/core/logger"
)

var (
	// ErrQueueClosed is returned when a job is submitted after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize int
	Workers   int
	// Timeout bounds a single call.
	Timeout time.Duration
	// Failures, when set, is incremented per failed call with the action label.
	Failures *prometheus.CounterVec
}

// Error wraps a failed call with its action and classified kind.
type Error struct {
	Action string
	Kind   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("telegram %s (%s): %s", e.Action, e.Kind, redact(e.Err))
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind returns the classified failure kind.
func (e *Error) ErrorKind() string { return e.Kind }

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func(context.Context) error
	done     chan error
}

// Dispatcher executes outbound Telegram calls on a fixed pool of workers.
type Dispatcher struct {
	opts Options
	jobs chan job
	mu   sync.RWMutex
	stop bool
	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher, substituting defaults for zero options.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue schedules run for asynchronous execution and returns immediately.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func(context.Context) error) error {
	return d.submit(job{ctx: ctx, action: action, endpoint: endpoint, run: run}, false)
}

// Do runs the call on the pool and waits for its result. The returned error is
// nil, a queue error or an *Error. It does not wait past ctx.
func (d *Dispatcher) Do(ctx context.Context, action, endpoint string, run func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	j := job{ctx: ctx, action: action, endpoint: endpoint, run: run, done: make(chan error, 1)}
	if err := d.submit(j, true); err != nil {
		return err
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return &Error{Action: action, Kind: classifyError(ctx.Err()), Err: ctx.Err()}
	}
}

func (d *Dispatcher) submit(j job, wait bool) error {
	if j.run == nil {
		return errors.New("telegram sender: nil run function")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stop {
		return ErrQueueClosed
	}
	if wait {
		select {
		case d.jobs <- j:
			return nil
		case <-j.ctx.Done():
			return j.ctx.Err()
		}
	}
	select {
	case d.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of failed jobs.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs and waits for queued jobs to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.stop {
		d.mu.Unlock()
		return
	}
	d.stop = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		err := d.handleJob(j)
		if j.done != nil {
			j.done <- err
		}
	}
}

func (d *Dispatcher) handleJob(j job) error {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	start := time.Now()
	err := callCtx.Err()
	if err == nil {
		err = runGuarded(callCtx, j.run)
	}
	elapsed := time.Since(start)
	if err == nil {
		if logger.ShouldSampleDebug() {
			logger.Debug(ctx, "tg.sender", "send.success",
				append(sendLogAttrs(j), slog.Duration("elapsed", elapsed))...)
		}
		return nil
	}

	d.errs.Add(1)
	if d.opts.Failures != nil {
		d.opts.Failures.WithLabelValues(j.action).Inc()
	}
	serr := &Error{Action: j.action, Kind: classifyError(err), Err: err}
	logger.Error(ctx, "tg.sender", "send.fail",
		append(sendLogAttrs(j),
			slog.String("status", "fail"),
			slog.String("err", redact(err)),
			slog.String("error_kind", serr.Kind),
			slog.Duration("elapsed", elapsed),
		)...,
	)
	return serr
}

func runGuarded(ctx context.Context, run func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("telegram sender: panic: %v", r)
		}
	}()
	return run(ctx)
}

func sendLogAttrs(j job) []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return attrs
}
