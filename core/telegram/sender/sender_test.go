package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	tele "gopkg.in/telebot.v4"
)

func newFailures() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_send_failures_total"}, []string{"action"})
}

func TestDoReturnsResult(t *testing.T) {
	defer goleak.VerifyNone(t)
	failures := newFailures()
	d := NewDispatcher(Options{Workers: 2, QueueSize: 4, Failures: failures})
	defer d.Close()

	var calls atomic.Int32
	err := d.Do(context.Background(), "sendMessage", "chat:1", func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	boom := fmt.Errorf("telegram: bad request: chat not found (400) bot123:SECRET")
	err = d.Do(context.Background(), "sendMessage", "chat:1", func(context.Context) error { return boom })
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "http_4xx", serr.Kind)
	assert.Equal(t, "http_4xx", serr.ErrorKind())
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, serr.Error(), "SECRET")
	assert.EqualValues(t, 1, d.ErrorCount())
	assert.InDelta(t, 1, testutil.ToFloat64(failures.WithLabelValues("sendMessage")), 0)
}

func TestDoAppliesTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	d := NewDispatcher(Options{Workers: 1, Timeout: 20 * time.Millisecond})
	defer d.Close()

	err := d.Do(context.Background(), "sendMessage", "", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "timeout", serr.Kind)
}

func TestPanicIsReportedAsError(t *testing.T) {
	defer goleak.VerifyNone(t)
	d := NewDispatcher(Options{Workers: 1})
	defer d.Close()

	err := d.Do(context.Background(), "edit", "", func(context.Context) error { panic("kaboom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestEnqueueRunsAndCloseDrains(t *testing.T) {
	defer goleak.VerifyNone(t)
	d := NewDispatcher(Options{Workers: 2, QueueSize: 16})

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, d.Enqueue(context.Background(), "respond", "", func(context.Context) error {
			calls.Add(1)
			return nil
		}))
	}
	d.Close()
	assert.EqualValues(t, 10, calls.Load())

	err := d.Enqueue(context.Background(), "respond", "", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.ErrorIs(t, d.Do(context.Background(), "respond", "", func(context.Context) error { return nil }), ErrQueueClosed)
	d.Close()
}

func TestEnqueueQueueFull(t *testing.T) {
	defer goleak.VerifyNone(t)
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	defer d.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, d.Enqueue(context.Background(), "a", "", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, d.Enqueue(context.Background(), "b", "", func(context.Context) error { return nil }))
	assert.ErrorIs(t, d.Enqueue(context.Background(), "c", "", func(context.Context) error { return nil }), ErrQueueFull)
	close(release)
}

func TestEnqueueNilRun(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	defer d.Close()
	assert.Error(t, d.Enqueue(context.Background(), "x", "", nil))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{&net.DNSError{Err: "no such host", Name: "api.telegram.org"}, "dns"},
		{&net.OpError{Op: "dial", Err: errors.New("refused")}, "dial"},
		{&tele.Error{Code: 403, Description: "Forbidden: bot was blocked by the user"}, "http_4xx"},
		{errors.New("telegram: internal (502)"), "http_5xx"},
		{errors.New("telegram: too many requests (429)"), "flood"},
		{errors.New("weird"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyError(tt.err), "%v", tt.err)
	}
}
